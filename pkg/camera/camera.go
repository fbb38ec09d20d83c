// Package camera maintains the virtual camera used by the raymarcher:
// its pose, the view matrix pair derived from it, and the responses to
// interactive movement and rotation input.
//
// The camera is a plain mutable record. Every mutation rebuilds the
// view and inverse-view matrices before returning, so readers always
// observe a pair consistent with the latest pose. There is no internal
// locking; the owner must not mutate while a render pass is reading.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/hollisb/mirage/pkg/math3d"
)

var (
	// ErrInvalidCamera reports a degenerate camera orientation: a
	// zero-length look vector, or an up hint collinear with look.
	ErrInvalidCamera = errors.New("camera: degenerate orientation")

	// ErrInvalidViewport reports unusable viewport or frustum
	// parameters.
	ErrInvalidViewport = errors.New("camera: invalid viewport")
)

// Description is the camera portion of a scene: where the camera sits,
// where it points, an up hint, and the vertical view angle in radians.
// Look and up need not be unit length, and up need not be orthogonal to
// look; the view build orthogonalizes.
type Description struct {
	Position    math3d.Vec3
	Look        math3d.Vec3
	Up          math3d.Vec3
	HeightAngle float64
}

// Viewport carries the display settings the camera projects into.
type Viewport struct {
	Width  int
	Height int
	Near   float64
	Far    float64
}

// Camera is the camera state record. All fields are private; mutation
// goes through ApplyTranslation, ApplyRotation, RotateYaw, RotatePitch
// and Resize, each of which leaves the cached matrices consistent.
type Camera struct {
	pos  math3d.Vec3
	look math3d.Vec3
	up   math3d.Vec3

	width  int
	height int
	aspect float64
	near   float64
	far    float64

	heightAngle float64

	// Far-plane image window: the rectangle on the far clipping plane
	// that the output image maps onto.
	windowWidth  float64
	windowHeight float64

	view    math3d.Mat4
	invView math3d.Mat4
}

// New builds a camera from a scene description and display settings.
// It fails with ErrInvalidViewport for non-positive dimensions or a
// near plane that is non-positive or not in front of the far plane,
// and with ErrInvalidCamera for a degenerate look/up pair.
func New(desc Description, vp Viewport) (*Camera, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidViewport, vp.Width, vp.Height)
	}
	if vp.Near <= 0 || vp.Near >= vp.Far {
		return nil, fmt.Errorf("%w: near=%g far=%g", ErrInvalidViewport, vp.Near, vp.Far)
	}
	if _, _, _, err := basis(desc.Look, desc.Up); err != nil {
		return nil, err
	}

	c := &Camera{
		pos:         desc.Position,
		look:        desc.Look,
		up:          desc.Up,
		width:       vp.Width,
		height:      vp.Height,
		aspect:      float64(vp.Width) / float64(vp.Height),
		near:        vp.Near,
		far:         vp.Far,
		heightAngle: desc.HeightAngle,
	}
	c.refreshWindow()
	c.rebuild()
	return c, nil
}

// Resize updates the viewport dimensions, recomputing the aspect ratio,
// the far-plane window and the view matrices.
func (c *Camera) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidViewport, width, height)
	}
	c.width = width
	c.height = height
	c.aspect = float64(width) / float64(height)
	c.refreshWindow()
	c.rebuild()
	return nil
}

// basis derives the camera's right-handed orthonormal basis {u, v, w}
// from the look and up vectors. w is the backward axis, v the
// orthogonalized up axis, u the right axis.
func basis(look, up math3d.Vec3) (u, v, w math3d.Vec3, err error) {
	if look.LenSq() == 0 {
		return u, v, w, fmt.Errorf("%w: zero look vector", ErrInvalidCamera)
	}
	w = look.Normalize().Negate()

	// Gram-Schmidt: drop the component of up along w. If nothing
	// remains, up is collinear with look and the basis is undefined.
	proj := up.Sub(w.Scale(up.Dot(w)))
	if proj.LenSq() < 1e-12 {
		return u, v, w, fmt.Errorf("%w: up collinear with look", ErrInvalidCamera)
	}
	v = proj.Normalize()
	u = v.Cross(w)
	return u, v, w, nil
}

// rebuild recomputes the view matrix pair from the current pose.
// Every mutation path validates the basis before committing, so the
// derivation here cannot fail.
func (c *Camera) rebuild() {
	u, v, w, _ := basis(c.look, c.up)

	rot := math3d.FromBasisRows(u, v, w)
	c.view = rot.Mul(math3d.Translate(c.pos.Negate()))

	// The rotation block is orthonormal, so its inverse is its
	// transpose; compose with the un-translation in reverse order.
	c.invView = math3d.Translate(c.pos).Mul(rot.Transpose())
}

// refreshWindow recomputes the far-plane window dimensions from the
// view angle, far plane and aspect ratio.
func (c *Camera) refreshWindow() {
	c.windowHeight = 2 * c.far * math.Tan(c.heightAngle/2)
	c.windowWidth = c.aspect * c.windowHeight
}

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 {
	return c.pos
}

// PositionHomogeneous returns the camera position as a homogeneous
// point (w = 1).
func (c *Camera) PositionHomogeneous() math3d.Vec4 {
	return math3d.V4FromV3(c.pos, 1)
}

// Look returns the current look vector (not necessarily unit length).
func (c *Camera) Look() math3d.Vec3 {
	return c.look
}

// UpHint returns the up hint vector supplied at construction. It is
// never mutated by rotations; only the per-rebuild orthogonalization
// in the view build accounts for it.
func (c *Camera) UpHint() math3d.Vec3 {
	return c.up
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.view
}

// InverseViewMatrix returns the camera-to-world transform.
func (c *Camera) InverseViewMatrix() math3d.Mat4 {
	return c.invView
}

// NearPlane returns the near clipping distance.
func (c *Camera) NearPlane() float64 {
	return c.near
}

// FarPlane returns the far clipping distance.
func (c *Camera) FarPlane() float64 {
	return c.far
}

// Width returns the viewport width in pixels.
func (c *Camera) Width() int {
	return c.width
}

// Height returns the viewport height in pixels.
func (c *Camera) Height() int {
	return c.height
}

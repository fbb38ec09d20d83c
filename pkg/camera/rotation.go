package camera

import (
	"math"

	"github.com/hollisb/mirage/pkg/math3d"
)

// dragSensitivity converts a mouse drag across the full viewport into
// dragSensitivity * 360 degrees of rotation.
const dragSensitivity = 0.3

// ApplyRotation rotates the look vector by rot and rebuilds the view
// matrices. The up hint is intentionally left unrotated; it is
// re-orthogonalized against the new look on every rebuild, but the
// effective up direction can drift over many rotations.
//
// If the rotation would leave look collinear with up, the camera is
// left unchanged and ErrInvalidCamera is returned.
func (c *Camera) ApplyRotation(rot math3d.Mat3) error {
	look := rot.MulVec3(c.look)
	if _, _, _, err := basis(look, c.up); err != nil {
		return err
	}
	c.look = look
	c.rebuild()
	return nil
}

// RotateYaw rotates the camera about the world axis (0, 1, 0),
// clockwise for positive deltaX. deltaX is a horizontal mouse drag in
// pixels; a drag across the full viewport width turns
// dragSensitivity * 360 degrees.
func (c *Camera) RotateYaw(deltaX float64) error {
	angle := dragSensitivity * 360 * deltaX / float64(c.width)
	theta := angle * math.Pi / 180
	sin, cos := math.Sincos(theta)

	rot := math3d.Mat3FromRows(
		math3d.V3(cos, 0, -sin),
		math3d.V3(0, 1, 0),
		math3d.V3(sin, 0, cos),
	)
	return c.ApplyRotation(rot)
}

// RotatePitch rotates the camera about the axis cross(look, up), the
// camera's (unnormalized) right axis, using Rodrigues' formula:
//
//	R = I + sinθ·K + (1 - cosθ)·K·K
//
// where K is the skew-symmetric cross-product matrix of the axis. The
// axis is deliberately not normalized, so the effective rotation rate
// scales with the magnitude of cross(look, up).
func (c *Camera) RotatePitch(deltaY float64) error {
	angle := dragSensitivity * 360 * deltaY / float64(c.height)
	theta := angle * math.Pi / 180
	sin, cos := math.Sincos(theta)

	k := math3d.Skew(c.look.Cross(c.up))
	rot := math3d.Identity3().
		Add(k.Scale(sin)).
		Add(k.Mul(k).Scale(1 - cos))
	return c.ApplyRotation(rot)
}

package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/hollisb/mirage/pkg/math3d"
)

const eps = 1e-9

func testViewport() Viewport {
	return Viewport{Width: 1024, Height: 768, Near: 0.1, Far: 100}
}

func testCamera(t *testing.T, desc Description) *Camera {
	t.Helper()
	c, err := New(desc, testViewport())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// configs exercises unit/non-unit and orthogonal/non-orthogonal
// look/up pairs.
var configs = []struct {
	name string
	desc Description
}{
	{"axis aligned", Description{
		Position:    math3d.V3(0, 0, 0),
		Look:        math3d.V3(0, 0, -1),
		Up:          math3d.V3(0, 1, 0),
		HeightAngle: math.Pi / 3,
	}},
	{"offset position", Description{
		Position:    math3d.V3(3, -2, 7),
		Look:        math3d.V3(0, 0, -1),
		Up:          math3d.V3(0, 1, 0),
		HeightAngle: math.Pi / 3,
	}},
	{"non-unit look", Description{
		Position:    math3d.V3(1, 2, 3),
		Look:        math3d.V3(0, 0, -5),
		Up:          math3d.V3(0, 3, 0),
		HeightAngle: math.Pi / 4,
	}},
	{"skewed up hint", Description{
		Position:    math3d.V3(-4, 1, 2),
		Look:        math3d.V3(1, -0.5, -2),
		Up:          math3d.V3(0.3, 1, 0.1),
		HeightAngle: math.Pi / 3,
	}},
}

func TestViewTransformsPositionToOrigin(t *testing.T) {
	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			c := testCamera(t, tc.desc)
			got := c.ViewMatrix().MulVec4(c.PositionHomogeneous())
			want := math3d.V4(0, 0, 0, 1)
			if got.Sub(want).Len() > eps {
				t.Errorf("view * position = %v, want %v", got, want)
			}
		})
	}
}

func TestViewInverseProduct(t *testing.T) {
	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			c := testCamera(t, tc.desc)
			prod := c.ViewMatrix().Mul(c.InverseViewMatrix())
			ident := math3d.Identity()
			for i := range prod {
				if math.Abs(prod[i]-ident[i]) > eps {
					t.Fatalf("view * invView differs from identity at %d: %v", i, prod)
				}
			}
		})
	}
}

func TestBasisOrthonormality(t *testing.T) {
	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			c := testCamera(t, tc.desc)
			view := c.ViewMatrix()

			// The rotation block's rows are the camera axes u, v, w.
			var rows [3]math3d.Vec3
			for r := range 3 {
				rows[r] = math3d.V3(view.Get(r, 0), view.Get(r, 1), view.Get(r, 2))
			}

			for r := range 3 {
				if math.Abs(rows[r].Len()-1) > eps {
					t.Errorf("row %d length = %v, want 1", r, rows[r].Len())
				}
			}
			for a := range 3 {
				for b := a + 1; b < 3; b++ {
					if d := rows[a].Dot(rows[b]); math.Abs(d) > eps {
						t.Errorf("rows %d,%d not orthogonal: dot = %v", a, b, d)
					}
				}
			}

			// Right-handed: u × v == w.
			cross := rows[0].Cross(rows[1])
			if cross.Sub(rows[2]).Len() > eps {
				t.Errorf("u × v = %v, want w = %v", cross, rows[2])
			}
		})
	}
}

func TestNormalizePixel(t *testing.T) {
	c := testCamera(t, configs[0].desc)
	w, h := float64(c.Width()), float64(c.Height())

	t.Run("top left", func(t *testing.T) {
		x, y := c.NormalizePixel(0, 0)
		wantX := -0.5 + 0.5/w
		wantY := 0.5 - 0.5/h
		if math.Abs(x-wantX) > eps || math.Abs(y-wantY) > eps {
			t.Errorf("NormalizePixel(0,0) = (%v, %v), want (%v, %v)", x, y, wantX, wantY)
		}
	})

	t.Run("center", func(t *testing.T) {
		x, y := c.NormalizePixel(c.Height()/2, c.Width()/2)
		if math.Abs(x) > 1/w || math.Abs(y) > 1/h {
			t.Errorf("center pixel = (%v, %v), want near (0, 0)", x, y)
		}
	})

	t.Run("open interval", func(t *testing.T) {
		for _, px := range [][2]int{{0, 0}, {0, c.Width() - 1}, {c.Height() - 1, 0}, {c.Height() - 1, c.Width() - 1}} {
			x, y := c.NormalizePixel(px[0], px[1])
			if x <= -0.5 || x >= 0.5 || y <= -0.5 || y >= 0.5 {
				t.Errorf("NormalizePixel(%d,%d) = (%v, %v), outside (-0.5, 0.5)", px[0], px[1], x, y)
			}
		}
	})
}

func TestRayDirectionDefaultOrientation(t *testing.T) {
	// position at origin looking down -Z: view reduces to identity,
	// and the center ray is the -Z axis scaled to the far plane.
	c := testCamera(t, configs[0].desc)

	view := c.ViewMatrix()
	ident := math3d.Identity()
	for i := range view {
		if math.Abs(view[i]-ident[i]) > eps {
			t.Fatalf("view at %d = %v, want identity", i, view[i])
		}
	}

	dir := c.RayDirection(c.Height()/2, c.Width()/2)
	if math.Abs(dir.Z-(-c.FarPlane())) > eps {
		t.Errorf("center ray Z = %v, want %v", dir.Z, -c.FarPlane())
	}
	cos := dir.Normalize().Dot(math3d.V3(0, 0, -1))
	if cos < 0.99999 {
		t.Errorf("center ray not parallel to -Z: cos = %v", cos)
	}
}

func TestRayDirectionFarPlaneScaled(t *testing.T) {
	// The ray through any pixel reaches the far plane: its view-space
	// Z component is exactly -far, so transforming back must give it
	// back. The direction is deliberately not unit length.
	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			c := testCamera(t, tc.desc)
			for _, px := range [][2]int{{0, 0}, {383, 511}, {767, 1023}} {
				dir := c.RayDirection(px[0], px[1])
				back := c.ViewMatrix().MulVec3Dir(dir)
				if math.Abs(back.Z-(-c.FarPlane())) > 1e-6 {
					t.Errorf("pixel %v: view-space ray Z = %v, want %v", px, back.Z, -c.FarPlane())
				}
			}
		})
	}
}

func TestApplyTranslationZeroIsNoOp(t *testing.T) {
	c := testCamera(t, configs[3].desc)
	before := c.ViewMatrix()
	c.ApplyTranslation(math3d.Zero3())
	after := c.ViewMatrix()
	for i := range before {
		if math.Abs(before[i]-after[i]) > eps {
			t.Fatalf("zero translation changed view matrix at %d", i)
		}
	}
}

func TestZeroAngleRotationIsNoOp(t *testing.T) {
	c := testCamera(t, configs[3].desc)
	look := c.Look()

	if err := c.RotateYaw(0); err != nil {
		t.Fatalf("RotateYaw(0): %v", err)
	}
	if c.Look().Sub(look).Len() > eps {
		t.Errorf("RotateYaw(0) moved look: %v -> %v", look, c.Look())
	}

	if err := c.RotatePitch(0); err != nil {
		t.Fatalf("RotatePitch(0): %v", err)
	}
	if c.Look().Sub(look).Len() > eps {
		t.Errorf("RotatePitch(0) moved look: %v -> %v", look, c.Look())
	}
}

func TestYawFullRevolution(t *testing.T) {
	c := testCamera(t, configs[3].desc)
	look := c.Look()

	// dragSensitivity * 360 * dx / width degrees per call: pick deltas
	// that sum to one full turn.
	const steps = 16
	total := float64(c.Width()) / dragSensitivity
	for range steps {
		if err := c.RotateYaw(total / steps); err != nil {
			t.Fatalf("RotateYaw: %v", err)
		}
	}

	if c.Look().Sub(look).Len() > 1e-6 {
		t.Errorf("full revolution moved look: %v -> %v", look, c.Look())
	}
}

func TestYawIsClockwiseAboutWorldUp(t *testing.T) {
	c := testCamera(t, configs[0].desc)

	// 90 degrees: dx such that 0.3 * 360 * dx / width == 90.
	dx := 90 * float64(c.Width()) / (dragSensitivity * 360)
	if err := c.RotateYaw(dx); err != nil {
		t.Fatalf("RotateYaw: %v", err)
	}

	want := math3d.V3(1, 0, 0)
	if c.Look().Sub(want).Len() > eps {
		t.Errorf("look after 90° yaw = %v, want %v", c.Look(), want)
	}
}

func TestPitchRotatesAboutRightAxis(t *testing.T) {
	c := testCamera(t, configs[0].desc)

	// 45 degrees about cross(look, up) = (1, 0, 0).
	dy := 45 * float64(c.Height()) / (dragSensitivity * 360)
	if err := c.RotatePitch(dy); err != nil {
		t.Fatalf("RotatePitch: %v", err)
	}

	s := math.Sqrt(2) / 2
	want := math3d.V3(0, s, -s)
	if c.Look().Sub(want).Len() > eps {
		t.Errorf("look after 45° pitch = %v, want %v", c.Look(), want)
	}
}

func TestPitchIntoDegenerateBasisRejected(t *testing.T) {
	c := testCamera(t, configs[0].desc)
	look := c.Look()

	// 90 degrees of pitch would leave look collinear with the up
	// hint; the mutation must be rejected and the state unchanged.
	dy := 90 * float64(c.Height()) / (dragSensitivity * 360)
	err := c.RotatePitch(dy)
	if !errors.Is(err, ErrInvalidCamera) {
		t.Fatalf("RotatePitch to vertical: err = %v, want ErrInvalidCamera", err)
	}
	if c.Look().Sub(look).Len() > eps {
		t.Errorf("rejected rotation still moved look: %v -> %v", look, c.Look())
	}
}

func TestMovementQueries(t *testing.T) {
	c := testCamera(t, Description{
		Position:    math3d.V3(0, 0, 0),
		Look:        math3d.V3(0, 0, -2),
		Up:          math3d.V3(0, 2, 0),
		HeightAngle: math.Pi / 3,
	})

	tests := []struct {
		name string
		got  math3d.Vec3
		want math3d.Vec3
	}{
		{"forward", c.Forward(), math3d.V3(0, 0, -1.5)},
		{"backward", c.Backward(), math3d.V3(0, 0, 1.5)},
		// cross(look, up) = (4, 0, 0): not normalized, magnitude
		// carries the lengths of look and up.
		{"strafe right", c.StrafeRight(), math3d.V3(3, 0, 0)},
		{"strafe left", c.StrafeLeft(), math3d.V3(-3, 0, 0)},
		// Vertical steps are unscaled unit vectors.
		{"ascend", c.Ascend(), math3d.V3(0, 1, 0)},
		{"descend", c.Descend(), math3d.V3(0, -1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.Sub(tc.want).Len() > eps {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestApplyTranslationMovesPosition(t *testing.T) {
	c := testCamera(t, configs[1].desc)
	start := c.Position()

	c.ApplyTranslation(c.Forward())

	want := start.Add(math3d.V3(0, 0, -0.75))
	if c.Position().Sub(want).Len() > eps {
		t.Errorf("position = %v, want %v", c.Position(), want)
	}

	// The rebuilt view must still send the new position to the origin.
	got := c.ViewMatrix().MulVec4(c.PositionHomogeneous())
	if got.Sub(math3d.V4(0, 0, 0, 1)).Len() > eps {
		t.Errorf("view * position = %v after translation", got)
	}
}

func TestNewRejectsDegenerateOrientation(t *testing.T) {
	tests := []struct {
		name string
		look math3d.Vec3
		up   math3d.Vec3
	}{
		{"zero look", math3d.Zero3(), math3d.V3(0, 1, 0)},
		{"up parallel to look", math3d.V3(0, 1, 0), math3d.V3(0, 2, 0)},
		{"up anti-parallel to look", math3d.V3(0, 1, 0), math3d.V3(0, -1, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Description{
				Look:        tc.look,
				Up:          tc.up,
				HeightAngle: math.Pi / 3,
			}, testViewport())
			if !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("err = %v, want ErrInvalidCamera", err)
			}
		})
	}
}

func TestNewRejectsBadViewport(t *testing.T) {
	desc := configs[0].desc
	tests := []struct {
		name string
		vp   Viewport
	}{
		{"zero width", Viewport{Width: 0, Height: 768, Near: 0.1, Far: 100}},
		{"negative height", Viewport{Width: 1024, Height: -1, Near: 0.1, Far: 100}},
		{"zero near", Viewport{Width: 1024, Height: 768, Near: 0, Far: 100}},
		{"near behind far", Viewport{Width: 1024, Height: 768, Near: 100, Far: 0.1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(desc, tc.vp)
			if !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("err = %v, want ErrInvalidViewport", err)
			}
		})
	}
}

func TestResize(t *testing.T) {
	c := testCamera(t, configs[0].desc)

	if err := c.Resize(640, 480); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if c.Width() != 640 || c.Height() != 480 {
		t.Fatalf("dimensions = %dx%d, want 640x480", c.Width(), c.Height())
	}

	x, y := c.NormalizePixel(0, 0)
	if math.Abs(x-(-0.5+0.5/640)) > eps || math.Abs(y-(0.5-0.5/480)) > eps {
		t.Errorf("NormalizePixel after resize = (%v, %v)", x, y)
	}

	if err := c.Resize(0, 480); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("Resize(0, 480) err = %v, want ErrInvalidViewport", err)
	}
}

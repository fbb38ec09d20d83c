package camera

import "github.com/hollisb/mirage/pkg/math3d"

const (
	// moveScale scales the look/strafe displacement queries.
	moveScale = 0.75

	// liftStep is the world-vertical step. Unlike the other four
	// directions it is not scaled by moveScale; vertical motion is a
	// fixed unit step regardless of the look vector's length.
	liftStep = 1.0
)

// Forward returns the displacement for a forward step: along the look
// vector, scaled by the movement sensitivity.
func (c *Camera) Forward() math3d.Vec3 {
	return c.look.Scale(moveScale)
}

// Backward returns the displacement for a backward step.
func (c *Camera) Backward() math3d.Vec3 {
	return c.look.Scale(-moveScale)
}

// StrafeRight returns the displacement for a rightward step:
// cross(look, up) scaled by the movement sensitivity. The cross
// product is not normalized, so the step length varies with the
// lengths of look and up and the angle between them.
func (c *Camera) StrafeRight() math3d.Vec3 {
	return c.look.Cross(c.up).Scale(moveScale)
}

// StrafeLeft returns the displacement for a leftward step.
func (c *Camera) StrafeLeft() math3d.Vec3 {
	return c.look.Cross(c.up).Scale(-moveScale)
}

// Ascend returns the displacement for a step along world (0, 1, 0).
func (c *Camera) Ascend() math3d.Vec3 {
	return math3d.V3(0, liftStep, 0)
}

// Descend returns the displacement for a step along world (0, -1, 0).
func (c *Camera) Descend() math3d.Vec3 {
	return math3d.V3(0, -liftStep, 0)
}

// ApplyTranslation moves the camera by disp and rebuilds the view
// matrices. Translation cannot degrade the orientation basis, so it
// never fails.
func (c *Camera) ApplyTranslation(disp math3d.Vec3) {
	c.pos = c.pos.Add(disp)
	c.rebuild()
}

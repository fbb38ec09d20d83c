package camera

import "github.com/hollisb/mirage/pkg/math3d"

// NormalizePixel converts pixel (row i, col j) to normalized image
// coordinates in (-0.5, 0.5), sampling at the pixel center. Row 0 is
// the top of the image; y grows upward.
func (c *Camera) NormalizePixel(i, j int) (x, y float64) {
	x = (float64(j)+0.5)/float64(c.width) - 0.5
	y = (float64(c.height-1-i)+0.5)/float64(c.height) - 0.5
	return x, y
}

// RayDirection returns the world-space ray direction through pixel
// (row i, col j).
//
// The result is deliberately not unit length: it is the camera-space
// point on the far clipping plane transformed to world space, so its
// magnitude is the distance to the far plane along the ray. The
// marcher uses that magnitude as its travel budget; normalize only if
// you need a unit direction.
func (c *Camera) RayDirection(i, j int) math3d.Vec3 {
	x, y := c.NormalizePixel(i, j)
	p := math3d.V3(x*c.windowWidth, y*c.windowHeight, -c.far)
	return c.invView.MulVec3Dir(p)
}

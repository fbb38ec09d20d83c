// Package march implements a sphere-tracing renderer over signed
// distance fields, consuming rays generated by the camera package.
package march

import (
	"math"

	"github.com/hollisb/mirage/pkg/math3d"
)

// SDF is the sampling contract for a signed distance field: negative
// inside the surface, zero on it, positive outside, with the magnitude
// a lower bound on the distance to the surface.
type SDF interface {
	Distance(p math3d.Vec3) float64
}

// Sphere is an analytic sphere field.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
}

// Distance returns the signed distance from p to the sphere surface.
func (s Sphere) Distance(p math3d.Vec3) float64 {
	return p.Sub(s.Center).Len() - s.Radius
}

// Box is an axis-aligned box field.
type Box struct {
	Center      math3d.Vec3
	HalfExtents math3d.Vec3
}

// Distance returns the signed distance from p to the box surface.
func (b Box) Distance(p math3d.Vec3) float64 {
	q := p.Sub(b.Center).Abs().Sub(b.HalfExtents)
	outside := q.Max(math3d.Zero3()).Len()
	inside := math.Min(q.MaxComponent(), 0)
	return outside + inside
}

// Plane is an infinite plane field defined by a point and a normal.
type Plane struct {
	point  math3d.Vec3
	normal math3d.Vec3
}

// NewPlane builds a plane field, normalizing the normal so signed
// distances stay metric.
func NewPlane(point, normal math3d.Vec3) Plane {
	return Plane{point: point, normal: normal.Normalize()}
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p math3d.Vec3) float64 {
	return p.Sub(pl.point).Dot(pl.normal)
}

// Torus is a torus field lying in the XZ plane around its center.
type Torus struct {
	Center      math3d.Vec3
	MajorRadius float64
	MinorRadius float64
}

// Distance returns the signed distance from p to the torus surface.
func (t Torus) Distance(p math3d.Vec3) float64 {
	q := p.Sub(t.Center)
	ring := math.Sqrt(q.X*q.X+q.Z*q.Z) - t.MajorRadius
	return math.Sqrt(ring*ring+q.Y*q.Y) - t.MinorRadius
}

// Material describes how a surface responds to light. Colors are
// linear RGB in [0, 1].
type Material struct {
	Color        math3d.Vec3
	Ambient      float64
	Diffuse      float64
	Specular     float64
	Shininess    float64
	Reflectivity float64
}

// Object pairs a distance field with its surface material.
type Object struct {
	Shape    SDF
	Material Material
}

// LightKind discriminates the supported light types.
type LightKind int

const (
	// DirectionalLight illuminates along a fixed direction from
	// infinitely far away.
	DirectionalLight LightKind = iota
	// PointLight illuminates from a position with distance
	// attenuation.
	PointLight
)

// Light is a scene light source.
type Light struct {
	Kind      LightKind
	Direction math3d.Vec3 // toward the scene (directional)
	Position  math3d.Vec3 // world position (point)
	Color     math3d.Vec3

	// Attenuation holds the constant, linear and quadratic
	// coefficients for point lights: 1 / (X + Y·d + Z·d²).
	Attenuation math3d.Vec3
}

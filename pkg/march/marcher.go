package march

import (
	"math"
	"runtime"
	"sync"

	"github.com/hollisb/mirage/pkg/camera"
	"github.com/hollisb/mirage/pkg/math3d"
	"github.com/hollisb/mirage/pkg/render"
)

// Options are the tunable render settings. The toggles mirror the
// interactive switches exposed by the viewer.
type Options struct {
	MaxSteps        int
	Epsilon         float64 // hit tolerance
	NormalEpsilon   float64 // central-difference step
	GammaCorrection bool
	SoftShadows     bool
	ShadowSoftness  float64 // penumbra sharpness for soft shadows
	Reflections     bool
	Background      math3d.Vec3
}

// DefaultOptions returns the render settings the viewer starts with.
func DefaultOptions() Options {
	return Options{
		MaxSteps:       256,
		Epsilon:        1e-3,
		NormalEpsilon:  1e-4,
		ShadowSoftness: 16,
		Background:     math3d.V3(0.05, 0.05, 0.08),
	}
}

// Marcher renders a scene of distance fields through a camera into a
// framebuffer by sphere tracing one ray per pixel.
type Marcher struct {
	cam     *camera.Camera
	fb      *render.Framebuffer
	objects []Object
	lights  []Light

	// Options may be mutated between frames (never during Render).
	Options Options

	workers int
}

// New creates a marcher for the given camera, framebuffer and scene
// content.
func New(cam *camera.Camera, fb *render.Framebuffer, objects []Object, lights []Light) *Marcher {
	return &Marcher{
		cam:     cam,
		fb:      fb,
		objects: objects,
		lights:  lights,
		Options: DefaultOptions(),
		workers: runtime.NumCPU(),
	}
}

// SetFramebuffer swaps the render target, e.g. after a terminal resize.
func (m *Marcher) SetFramebuffer(fb *render.Framebuffer) {
	m.fb = fb
}

// Render traces every pixel of the framebuffer. Rows are distributed
// across workers; each pixel is independent.
func (m *Marcher) Render() {
	rows := m.fb.Height
	workers := m.workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	next := make(chan int, rows)
	for i := range rows {
		next <- i
	}
	close(next)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range next {
				m.renderRow(i)
			}
		}()
	}
	wg.Wait()
}

func (m *Marcher) renderRow(i int) {
	for j := range m.fb.Width {
		m.fb.SetPixel(j, i, m.toRGBA(m.shadePixel(i, j)))
	}
}

// shadePixel traces the ray through pixel (row i, col j) and returns a
// linear RGB color.
func (m *Marcher) shadePixel(i, j int) math3d.Vec3 {
	dir := m.cam.RayDirection(i, j)

	// The ray direction is far-plane scaled: its own length is the
	// distance to the far plane along the ray, which bounds the march.
	budget := dir.Len()
	if budget == 0 {
		return m.Options.Background
	}
	unit := dir.Div(budget)
	origin := m.cam.Position()

	return m.shadeRay(origin, unit, budget, 0)
}

// shadeRay traces and shades a single ray, recursing once per
// reflection bounce up to maxBounces.
func (m *Marcher) shadeRay(origin, unit math3d.Vec3, budget float64, depth int) math3d.Vec3 {
	hit, t, obj := m.trace(origin, unit, budget)
	if !hit {
		return m.Options.Background
	}

	p := origin.Add(unit.Scale(t))
	n := m.normalAt(p)
	color := m.lighting(p, n, unit.Negate(), obj.Material)

	if m.Options.Reflections && obj.Material.Reflectivity > 0 && depth < maxBounces {
		r := unit.Reflect(n).Normalize()
		// Offset off the surface so the bounce doesn't re-hit it.
		off := p.Add(n.Scale(4 * m.Options.Epsilon))
		bounce := m.shadeRay(off, r, budget, depth+1)
		color = color.Lerp(bounce, obj.Material.Reflectivity)
	}
	return color
}

const maxBounces = 1

// trace sphere-traces from origin along the unit direction, returning
// whether a surface was hit, the travel distance, and the object hit.
func (m *Marcher) trace(origin, unit math3d.Vec3, budget float64) (bool, float64, *Object) {
	t := 0.0
	for range m.Options.MaxSteps {
		p := origin.Add(unit.Scale(t))
		d, obj := m.sceneDistance(p)
		if d < m.Options.Epsilon {
			return true, t, obj
		}
		t += d
		if t > budget {
			break
		}
	}
	return false, t, nil
}

// sceneDistance samples every object and returns the smallest distance
// together with the nearest object.
func (m *Marcher) sceneDistance(p math3d.Vec3) (float64, *Object) {
	best := math.Inf(1)
	var nearest *Object
	for idx := range m.objects {
		if d := m.objects[idx].Shape.Distance(p); d < best {
			best = d
			nearest = &m.objects[idx]
		}
	}
	return best, nearest
}

// normalAt estimates the surface normal at p by central differences of
// the scene distance.
func (m *Marcher) normalAt(p math3d.Vec3) math3d.Vec3 {
	e := m.Options.NormalEpsilon
	dx0, _ := m.sceneDistance(math3d.V3(p.X-e, p.Y, p.Z))
	dx1, _ := m.sceneDistance(math3d.V3(p.X+e, p.Y, p.Z))
	dy0, _ := m.sceneDistance(math3d.V3(p.X, p.Y-e, p.Z))
	dy1, _ := m.sceneDistance(math3d.V3(p.X, p.Y+e, p.Z))
	dz0, _ := m.sceneDistance(math3d.V3(p.X, p.Y, p.Z-e))
	dz1, _ := m.sceneDistance(math3d.V3(p.X, p.Y, p.Z+e))
	return math3d.V3(dx1-dx0, dy1-dy0, dz1-dz0).Normalize()
}

// lighting evaluates the Phong model at p with normal n, for a viewer
// along view (unit, surface to eye).
func (m *Marcher) lighting(p, n, view math3d.Vec3, mat Material) math3d.Vec3 {
	out := mat.Color.Scale(mat.Ambient)

	for idx := range m.lights {
		light := &m.lights[idx]

		var toLight math3d.Vec3
		lightDist := math.Inf(1)
		intensity := light.Color

		switch light.Kind {
		case DirectionalLight:
			toLight = light.Direction.Negate().Normalize()
		case PointLight:
			delta := light.Position.Sub(p)
			lightDist = delta.Len()
			if lightDist == 0 {
				continue
			}
			toLight = delta.Div(lightDist)
			att := light.Attenuation.X +
				light.Attenuation.Y*lightDist +
				light.Attenuation.Z*lightDist*lightDist
			if att > 1 {
				intensity = intensity.Div(att)
			}
		}

		shadow := m.shadowFactor(p, n, toLight, lightDist)
		if shadow == 0 {
			continue
		}

		diff := math.Max(0, n.Dot(toLight))
		contrib := mat.Color.Mul(intensity).Scale(mat.Diffuse * diff)

		if diff > 0 && mat.Specular > 0 {
			refl := toLight.Negate().Reflect(n).Normalize()
			spec := math.Pow(math.Max(0, refl.Dot(view)), mat.Shininess)
			contrib = contrib.Add(intensity.Scale(mat.Specular * spec))
		}

		out = out.Add(contrib.Scale(shadow))
	}
	return out
}

// shadowFactor marches from p toward the light and returns 1 for fully
// lit, 0 for fully occluded, and with soft shadows enabled a penumbra
// factor in between.
func (m *Marcher) shadowFactor(p, n, toLight math3d.Vec3, lightDist float64) float64 {
	origin := p.Add(n.Scale(4 * m.Options.Epsilon))
	maxT := math.Min(lightDist, m.cam.FarPlane())

	factor := 1.0
	t := 4 * m.Options.Epsilon
	for range m.Options.MaxSteps {
		if t >= maxT {
			break
		}
		d, _ := m.sceneDistance(origin.Add(toLight.Scale(t)))
		if d < m.Options.Epsilon {
			return 0
		}
		if m.Options.SoftShadows {
			factor = math.Min(factor, m.Options.ShadowSoftness*d/t)
		}
		t += d
	}
	if !m.Options.SoftShadows {
		return 1
	}
	return math.Max(0, factor)
}

// toRGBA clamps a linear color to displayable RGBA, applying gamma
// correction when enabled.
func (m *Marcher) toRGBA(c math3d.Vec3) render.Color {
	if m.Options.GammaCorrection {
		const inv = 1.0 / 2.2
		c = math3d.V3(
			math.Pow(math.Max(0, c.X), inv),
			math.Pow(math.Max(0, c.Y), inv),
			math.Pow(math.Max(0, c.Z), inv),
		)
	}
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return render.RGB(clamp(c.X), clamp(c.Y), clamp(c.Z))
}

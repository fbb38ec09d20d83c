// Package scene loads mirage scene files: the camera description, the
// shapes with their materials, and the lights.
package scene

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hollisb/mirage/pkg/camera"
	"github.com/hollisb/mirage/pkg/march"
	"github.com/hollisb/mirage/pkg/math3d"
)

// Vec is a 3-component vector as written in scene files: [x, y, z].
type Vec [3]float64

// Vec3 converts to a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// CameraDoc is the camera block of a scene file. HeightAngle is the
// vertical view angle in degrees.
type CameraDoc struct {
	Position    Vec     `yaml:"position"`
	Look        Vec     `yaml:"look"`
	Up          Vec     `yaml:"up"`
	HeightAngle float64 `yaml:"height_angle"`
}

// MaterialDoc is the material block of a shape.
type MaterialDoc struct {
	Color        Vec     `yaml:"color"`
	Ambient      float64 `yaml:"ambient"`
	Diffuse      float64 `yaml:"diffuse"`
	Specular     float64 `yaml:"specular"`
	Shininess    float64 `yaml:"shininess"`
	Reflectivity float64 `yaml:"reflectivity"`
}

// ShapeDoc is one shape entry. Type selects which geometry fields are
// meaningful.
type ShapeDoc struct {
	Type        string      `yaml:"type"` // sphere, box, plane, torus
	Center      Vec         `yaml:"center"`
	Radius      float64     `yaml:"radius"`
	HalfExtents Vec         `yaml:"half_extents"`
	Point       Vec         `yaml:"point"`
	Normal      Vec         `yaml:"normal"`
	MajorRadius float64     `yaml:"major_radius"`
	MinorRadius float64     `yaml:"minor_radius"`
	Material    MaterialDoc `yaml:"material"`
}

// LightDoc is one light entry. Type selects directional or point.
type LightDoc struct {
	Type        string `yaml:"type"` // directional, point
	Direction   Vec    `yaml:"direction"`
	Position    Vec    `yaml:"position"`
	Color       Vec    `yaml:"color"`
	Attenuation Vec    `yaml:"attenuation"`
}

// Document is a parsed scene file.
type Document struct {
	Camera CameraDoc  `yaml:"camera"`
	Shapes []ShapeDoc `yaml:"shapes"`
	Lights []LightDoc `yaml:"lights"`
}

// Load reads and parses a scene file at path.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(b)
}

// Parse parses scene file contents.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Camera.HeightAngle <= 0 || d.Camera.HeightAngle >= 180 {
		return fmt.Errorf("scene: height_angle %g out of range (0, 180)", d.Camera.HeightAngle)
	}
	for i, s := range d.Shapes {
		switch s.Type {
		case "sphere":
			if s.Radius <= 0 {
				return fmt.Errorf("scene: shape %d: sphere radius must be positive", i)
			}
		case "box":
			if s.HalfExtents[0] <= 0 || s.HalfExtents[1] <= 0 || s.HalfExtents[2] <= 0 {
				return fmt.Errorf("scene: shape %d: box half_extents must be positive", i)
			}
		case "plane":
			if s.Normal.Vec3().LenSq() == 0 {
				return fmt.Errorf("scene: shape %d: plane normal must be non-zero", i)
			}
		case "torus":
			if s.MajorRadius <= 0 || s.MinorRadius <= 0 {
				return fmt.Errorf("scene: shape %d: torus radii must be positive", i)
			}
		default:
			return fmt.Errorf("scene: shape %d: unknown type %q", i, s.Type)
		}
	}
	for i, l := range d.Lights {
		switch l.Type {
		case "directional":
			if l.Direction.Vec3().LenSq() == 0 {
				return fmt.Errorf("scene: light %d: directional light needs a direction", i)
			}
		case "point":
		default:
			return fmt.Errorf("scene: light %d: unknown type %q", i, l.Type)
		}
	}
	return nil
}

// CameraDescription lowers the camera block into the camera package's
// description, converting the view angle to radians.
func (d *Document) CameraDescription() camera.Description {
	return camera.Description{
		Position:    d.Camera.Position.Vec3(),
		Look:        d.Camera.Look.Vec3(),
		Up:          d.Camera.Up.Vec3(),
		HeightAngle: d.Camera.HeightAngle * math.Pi / 180,
	}
}

// Build lowers the shape and light blocks into renderable objects.
func (d *Document) Build() ([]march.Object, []march.Light) {
	objects := make([]march.Object, 0, len(d.Shapes))
	for _, s := range d.Shapes {
		var shape march.SDF
		switch s.Type {
		case "sphere":
			shape = march.Sphere{Center: s.Center.Vec3(), Radius: s.Radius}
		case "box":
			shape = march.Box{Center: s.Center.Vec3(), HalfExtents: s.HalfExtents.Vec3()}
		case "plane":
			shape = march.NewPlane(s.Point.Vec3(), s.Normal.Vec3())
		case "torus":
			shape = march.Torus{
				Center:      s.Center.Vec3(),
				MajorRadius: s.MajorRadius,
				MinorRadius: s.MinorRadius,
			}
		}
		objects = append(objects, march.Object{
			Shape:    shape,
			Material: s.Material.build(),
		})
	}

	lights := make([]march.Light, 0, len(d.Lights))
	for _, l := range d.Lights {
		light := march.Light{
			Color:       l.Color.Vec3(),
			Attenuation: l.Attenuation.Vec3(),
		}
		switch l.Type {
		case "directional":
			light.Kind = march.DirectionalLight
			light.Direction = l.Direction.Vec3()
		case "point":
			light.Kind = march.PointLight
			light.Position = l.Position.Vec3()
		}
		if light.Color.LenSq() == 0 {
			light.Color = math3d.V3(1, 1, 1)
		}
		lights = append(lights, light)
	}
	return objects, lights
}

// build fills in usable defaults for fields a scene file omits.
func (m MaterialDoc) build() march.Material {
	mat := march.Material{
		Color:        m.Color.Vec3(),
		Ambient:      m.Ambient,
		Diffuse:      m.Diffuse,
		Specular:     m.Specular,
		Shininess:    m.Shininess,
		Reflectivity: m.Reflectivity,
	}
	if mat.Color.LenSq() == 0 {
		mat.Color = math3d.V3(0.8, 0.8, 0.8)
	}
	if mat.Ambient == 0 && mat.Diffuse == 0 && mat.Specular == 0 {
		mat.Ambient = 0.1
		mat.Diffuse = 0.8
		mat.Specular = 0.3
	}
	if mat.Shininess == 0 {
		mat.Shininess = 16
	}
	return mat
}

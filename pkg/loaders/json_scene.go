package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// SceneFile is the on-disk description of a scene
type SceneFile struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Camera      *CameraSpec     `json:"camera"`
	Ambient     []float64       `json:"ambient"`
	Render      *RenderSettings `json:"render"`
	Objects     []ObjectSpec    `json:"objects"`
}

// CameraSpec mirrors geometry.CameraConfig
type CameraSpec struct {
	Origin      []float64 `json:"origin"`
	LookAt      []float64 `json:"lookAt"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	FocalLength float64   `json:"focalLength"`
	Channels    int       `json:"channels"`
	WarpedLens  bool      `json:"warpedLens"`
	FovX        float64   `json:"fovX"`
	FovY        float64   `json:"fovY"`
	Degrees     bool      `json:"degrees"`
}

// RenderSettings holds optional render parameters. Nil fields are left to the caller.
type RenderSettings struct {
	Bounces      *int   `json:"bounces"`
	IncidentRays *int   `json:"incidentRays"`
	PrimaryRays  *int   `json:"primaryRays"`
	Seed         *int64 `json:"seed"`
}

// ObjectSpec describes one primitive. Spheres use Center and Radius; planes use
// either Point and Normal or three Points.
type ObjectSpec struct {
	Type     string       `json:"type"`
	Center   []float64    `json:"center"`
	Radius   float64      `json:"radius"`
	Point    []float64    `json:"point"`
	Normal   []float64    `json:"normal"`
	Points   [][]float64  `json:"points"`
	Material MaterialSpec `json:"material"`
}

// MaterialSpec mirrors material.Config
type MaterialSpec struct {
	Color               []float64 `json:"color"`
	Emits               bool      `json:"emits"`
	EmittedColor        []float64 `json:"emittedColor"`
	EmittedStrength     float64   `json:"emittedStrength"`
	SpecularProbability float64   `json:"specularProbability"`
}

// LoadedScene is a built scene together with the settings its file carried
type LoadedScene struct {
	ID          string // Scene name without directory or extension
	Name        string
	Description string
	Scene       *scene.Scene
	Render      RenderSettings
}

// LoadScene reads and builds the scene file at filename
func LoadScene(filename string) (*LoadedScene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	loaded, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", filename, err)
	}
	loaded.ID = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return loaded, nil
}

// ParseScene decodes a scene description from reader and builds it.
// Objects are added in file order.
func ParseScene(reader io.Reader) (*LoadedScene, error) {
	var file SceneFile
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return file.Build()
}

// Build constructs the camera, materials and primitives the file describes
func (f *SceneFile) Build() (*LoadedScene, error) {
	cameraConfig, err := f.cameraConfig()
	if err != nil {
		return nil, err
	}
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	ambient := material.Black(camera.Channels)
	if f.Ambient != nil {
		ambient = material.NewColor(f.Ambient...)
	}

	objects := make([]geometry.Primitive, 0, len(f.Objects))
	for i, spec := range f.Objects {
		obj, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Type, err)
		}
		objects = append(objects, obj)
	}

	s, err := scene.New(camera, ambient, objects...)
	if err != nil {
		return nil, err
	}

	loaded := &LoadedScene{
		Name:        f.Name,
		Description: f.Description,
		Scene:       s,
	}
	if f.Render != nil {
		loaded.Render = *f.Render
	}
	return loaded, nil
}

func (f *SceneFile) cameraConfig() (geometry.CameraConfig, error) {
	cfg := geometry.DefaultCameraConfig()
	if f.Camera == nil {
		return cfg, nil
	}

	c := f.Camera
	if c.Origin != nil {
		origin, err := vec3(c.Origin, "camera origin")
		if err != nil {
			return cfg, err
		}
		cfg.Origin = origin
	}
	if c.LookAt != nil {
		lookAt, err := vec3(c.LookAt, "camera lookAt")
		if err != nil {
			return cfg, err
		}
		cfg.LookAt = lookAt
	}
	if c.Width != 0 {
		cfg.Width = c.Width
	}
	if c.Height != 0 {
		cfg.Height = c.Height
	}
	if c.Channels != 0 {
		cfg.Channels = c.Channels
	}
	cfg.FocalLength = c.FocalLength
	cfg.WarpedLens = c.WarpedLens
	cfg.Degrees = c.Degrees
	// Zero keeps the 90 degree default in either unit
	cfg.FovX = c.FovX
	cfg.FovY = c.FovY

	return cfg, nil
}

func (o ObjectSpec) build() (geometry.Primitive, error) {
	mat, err := material.New(material.Config{
		Color:               o.Material.Color,
		Emits:               o.Material.Emits,
		EmittedColor:        o.Material.EmittedColor,
		EmittedStrength:     o.Material.EmittedStrength,
		SpecularProbability: o.Material.SpecularProbability,
	})
	if err != nil {
		return nil, err
	}

	switch o.Type {
	case "sphere":
		center, err := vec3(o.Center, "sphere center")
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(center, o.Radius, mat)

	case "plane":
		if o.Points != nil {
			if len(o.Points) != 3 {
				return nil, fmt.Errorf("plane needs exactly 3 points, got %d: %w", len(o.Points), core.ErrConstruction)
			}
			var p [3]core.Vec3
			for i := range p {
				if p[i], err = vec3(o.Points[i], "plane point"); err != nil {
					return nil, err
				}
			}
			return geometry.NewPlaneFromPoints(p[0], p[1], p[2], mat)
		}
		point, err := vec3(o.Point, "plane point")
		if err != nil {
			return nil, err
		}
		normal, err := vec3(o.Normal, "plane normal")
		if err != nil {
			return nil, err
		}
		return geometry.NewPlane(point, normal, mat)
	}

	return nil, fmt.Errorf("unknown object type %q: %w", o.Type, core.ErrConstruction)
}

func vec3(values []float64, what string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s needs 3 components, got %d: %w", what, len(values), core.ErrConstruction)
	}
	return core.Vec3FromSlice(values), nil
}

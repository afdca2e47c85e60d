package scene

import (
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera  *geometry.Camera
	Ambient material.Color       // Light picked up by rays that escape the scene
	Objects []geometry.Primitive // Intersected in order; the first of two equal hits wins
}

// New creates a scene viewed through camera. Ambient must have the camera's channel count.
func New(camera *geometry.Camera, ambient material.Color, objects ...geometry.Primitive) (*Scene, error) {
	if camera == nil {
		return nil, fmt.Errorf("scene needs a camera: %w", core.ErrConstruction)
	}
	if len(ambient) != camera.Channels {
		return nil, fmt.Errorf("ambient color has %d channels, camera has %d: %w",
			len(ambient), camera.Channels, core.ErrConstruction)
	}

	s := &Scene{
		Camera:  camera,
		Ambient: material.NewColor(ambient...),
		Objects: make([]geometry.Primitive, 0, len(objects)),
	}
	if err := s.Add(objects...); err != nil {
		return nil, err
	}
	return s, nil
}

// Add appends primitives to the scene. Nothing is added if any of them is rejected.
func (s *Scene) Add(objects ...geometry.Primitive) error {
	for i, obj := range objects {
		if obj == nil {
			return fmt.Errorf("object %d is nil: %w", i, core.ErrConstruction)
		}
		mat := obj.Material()
		if mat == nil {
			return fmt.Errorf("object %d has no material: %w", i, core.ErrConstruction)
		}
		if mat.Channels() != s.Channels() {
			return fmt.Errorf("object %d material has %d channels, scene has %d: %w",
				i, mat.Channels(), s.Channels(), core.ErrConstruction)
		}
	}
	s.Objects = append(s.Objects, objects...)
	return nil
}

// Channels returns the number of color channels rendered
func (s *Scene) Channels() int {
	return s.Camera.Channels
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}

package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

func newTestCamera(t *testing.T, channels int) *geometry.Camera {
	t.Helper()
	cfg := geometry.DefaultCameraConfig()
	cfg.Width = 4
	cfg.Height = 4
	cfg.Channels = channels
	camera, err := geometry.NewCamera(cfg)
	if err != nil {
		t.Fatalf("Failed to create camera: %v", err)
	}
	return camera
}

func newTestSphere(t *testing.T, color material.Color) *geometry.Sphere {
	t.Helper()
	mat, err := material.NewDiffuse(color)
	if err != nil {
		t.Fatalf("Failed to create material: %v", err)
	}
	sphere, err := geometry.NewSphere(core.NewVec3(0, 0, 3), 1, mat)
	if err != nil {
		t.Fatalf("Failed to create sphere: %v", err)
	}
	return sphere
}

func TestNew(t *testing.T) {
	camera := newTestCamera(t, 3)
	sphere := newTestSphere(t, material.NewColor(1, 0, 0))

	s, err := New(camera, material.White(3), sphere)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.GetPrimitiveCount() != 1 {
		t.Errorf("Expected 1 primitive, got %d", s.GetPrimitiveCount())
	}
	if s.Channels() != 3 {
		t.Errorf("Expected 3 channels, got %d", s.Channels())
	}
}

func TestNew_Validation(t *testing.T) {
	camera := newTestCamera(t, 3)
	sphere := newTestSphere(t, material.NewColor(1, 0, 0))
	gray := newTestSphere(t, material.NewColor(0.5))

	tests := []struct {
		name    string
		camera  *geometry.Camera
		ambient material.Color
		objects []geometry.Primitive
	}{
		{"nil camera", nil, material.White(3), nil},
		{"ambient channel mismatch", camera, material.White(4), nil},
		{"nil object", camera, material.White(3), []geometry.Primitive{sphere, nil}},
		{"nil sphere", camera, material.White(3), []geometry.Primitive{(*geometry.Sphere)(nil)}},
		{"nil plane", camera, material.White(3), []geometry.Primitive{sphere, (*geometry.Plane)(nil)}},
		{"material channel mismatch", camera, material.White(3), []geometry.Primitive{gray}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.camera, tt.ambient, tt.objects...)
			if !errors.Is(err, core.ErrConstruction) {
				t.Errorf("Expected ErrConstruction, got %v", err)
			}
		})
	}
}

func TestAdd_KeepsOrderAndRejectsAtomically(t *testing.T) {
	s, err := New(newTestCamera(t, 3), material.Black(3))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	first := newTestSphere(t, material.NewColor(1, 0, 0))
	second := newTestSphere(t, material.NewColor(0, 1, 0))
	if err := s.Add(first, second); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if s.Objects[0] != first || s.Objects[1] != second {
		t.Error("Expected objects in insertion order")
	}

	if err := s.Add(newTestSphere(t, material.NewColor(0, 0, 1)), nil); err == nil {
		t.Fatal("Expected error adding nil object")
	}
	if s.GetPrimitiveCount() != 2 {
		t.Errorf("Expected rejected batch to add nothing, got %d objects", s.GetPrimitiveCount())
	}
}

func TestNew_PerInstanceObjects(t *testing.T) {
	a, _ := New(newTestCamera(t, 3), material.White(3))
	b, _ := New(newTestCamera(t, 3), material.White(3))

	if err := a.Add(newTestSphere(t, material.NewColor(1, 1, 1))); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if b.GetPrimitiveCount() != 0 {
		t.Errorf("Expected independent scenes, second has %d objects", b.GetPrimitiveCount())
	}
}

func TestNew_CopiesAmbient(t *testing.T) {
	ambient := material.NewColor(0.1, 0.2, 0.3)
	s, _ := New(newTestCamera(t, 3), ambient)
	ambient[0] = 0.9
	if s.Ambient[0] != 0.1 {
		t.Errorf("Expected ambient to be copied, got %v", s.Ambient)
	}
}

package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) (*Sphere, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius must be positive, got %f: %w", radius, core.ErrConstruction)
	}
	if mat == nil {
		return nil, fmt.Errorf("sphere needs a material: %w", core.ErrConstruction)
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: mat,
	}, nil
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray Ray) HitInfo {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return NoHit()
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-b - sqrtD) / (2 * a)
	if !(root > MinHitDistance) {
		// Origin is inside the sphere or past the near side
		root = (-b + sqrtD) / (2 * a)
		if !(root > MinHitDistance) {
			return NoHit()
		}
	}

	p := ray.At(root)
	return HitInfo{
		Hit:      true,
		T:        root,
		Point:    p,
		Normal:   s.NormalAt(p),
		Material: s.material,
	}
}

// NormalAt returns the outward unit normal at p
func (s *Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// Material returns the sphere's material
func (s *Sphere) Material() *material.Material {
	if s == nil {
		return nil
	}
	return s.material
}

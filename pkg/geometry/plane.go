package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal; the plane is one-sided with respect to shading
	material *material.Material
}

// NewPlane creates a plane through point with the given normal
func NewPlane(point, normal core.Vec3, mat *material.Material) (*Plane, error) {
	if normal.IsZero() {
		return nil, fmt.Errorf("plane normal must be non-zero: %w", core.ErrConstruction)
	}
	if mat == nil {
		return nil, fmt.Errorf("plane needs a material: %w", core.ErrConstruction)
	}
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		material: mat,
	}, nil
}

// NewPlaneFromPoints creates the plane through three non-collinear points.
// The anchor point is their centroid and the normal is (p3-p1) x (p3-p2).
func NewPlaneFromPoints(p1, p2, p3 core.Vec3, mat *material.Material) (*Plane, error) {
	normal := p3.Subtract(p1).Cross(p3.Subtract(p2))
	if normal.IsZero() {
		return nil, fmt.Errorf("plane points %v, %v, %v are collinear: %w", p1, p2, p3, core.ErrConstruction)
	}
	centroid := p1.Add(p2).Add(p3).Multiply(1.0 / 3.0)
	return NewPlane(centroid, normal, mat)
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray Ray) HitInfo {
	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	denominator := ray.Direction.Dot(p.Normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator

	// Rejects intersections behind the origin as well as the ±Inf/NaN a parallel ray produces
	if !(t > MinHitDistance) || math.IsInf(t, 1) {
		return NoHit()
	}

	hitPoint := ray.At(t)
	return HitInfo{
		Hit:      true,
		T:        t,
		Point:    hitPoint,
		Normal:   p.NormalAt(hitPoint),
		Material: p.material,
	}
}

// NormalAt returns the plane normal, which is the same everywhere
func (p *Plane) NormalAt(core.Vec3) core.Vec3 {
	return p.Normal
}

// Material returns the plane's material
func (p *Plane) Material() *material.Material {
	if p == nil {
		return nil
	}
	return p.material
}

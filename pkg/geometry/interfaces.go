package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Primitive is an object rays can be intersected with
type Primitive interface {
	// Intersect returns the nearest hit in front of the ray origin, or NoHit()
	Intersect(ray Ray) HitInfo
	// NormalAt returns the unit surface normal at a point on the surface
	NormalAt(p core.Vec3) core.Vec3
	// Material returns the surface material
	Material() *material.Material
}

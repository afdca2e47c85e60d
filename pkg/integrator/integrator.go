package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color a camera ray brings back from the scene.
	// The ray's bounce budget bounds the recursion.
	RayColor(ray geometry.Ray, scene *scene.Scene, sampler core.Sampler) material.Color
}

// ClosestHit intersects ray with every object and returns the hit with the smallest
// positive distance. Ties go to the object listed first.
func ClosestHit(ray geometry.Ray, objects []geometry.Primitive) geometry.HitInfo {
	hit, _ := ClosestHitIndex(ray, objects)
	return hit
}

// ClosestHitIndex is ClosestHit that also returns the position of the hit object
// in objects, or -1 when nothing is hit
func ClosestHitIndex(ray geometry.Ray, objects []geometry.Primitive) (geometry.HitInfo, int) {
	best, index := geometry.NoHit(), -1
	for i, obj := range objects {
		hit := obj.Intersect(ray)
		if hit.Hit && hit.T > 0 && hit.T < best.T {
			best, index = hit, i
		}
	}
	return best, index
}

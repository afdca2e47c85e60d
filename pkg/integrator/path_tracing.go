package integrator

import (
	"sync/atomic"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// PathTracingIntegrator branches into a fixed number of secondary rays at every
// bounce and averages what they bring back
type PathTracingIntegrator struct {
	incidentRays int
	raysTraced   atomic.Int64
}

// NewPathTracingIntegrator creates a path tracer that spawns incidentRays children per hit
func NewPathTracingIntegrator(incidentRays int) *PathTracingIntegrator {
	return &PathTracingIntegrator{incidentRays: incidentRays}
}

// RayColor computes the color for a camera ray
func (pt *PathTracingIntegrator) RayColor(ray geometry.Ray, s *scene.Scene, sampler core.Sampler) material.Color {
	return pt.GetColor(ray, s, pt.incidentRays, sampler)
}

// RaysTraced returns the number of rays intersected with the scene so far
func (pt *PathTracingIntegrator) RaysTraced() int64 {
	return pt.raysTraced.Load()
}

// GetColor traces ray through s. Escaping rays pick up the ambient light, hits pick
// up the surface tint and emission, and while bounces remain the hit spawns
// nIncident mirror or diffuse children whose average is added on top.
func (pt *PathTracingIntegrator) GetColor(ray geometry.Ray, s *scene.Scene, nIncident int, sampler core.Sampler) material.Color {
	pt.raysTraced.Add(1)

	hit := ClosestHit(ray, s.Objects)
	if !hit.Hit {
		return ray.Color.Multiply(s.Ambient)
	}

	color := ray.Color.AddMaterial(hit.Material)
	if ray.Bounces <= 0 || nIncident <= 0 {
		return color
	}

	// Children inherit the surface tint
	ray.SetColor(color)

	incoming := material.Black(len(color))
	for i := 0; i < nIncident; i++ {
		var child geometry.Ray
		if sampler.Float64() < hit.Material.SpecularProbability {
			child = geometry.SpecularRay(hit.Point, hit.Normal, ray, ray.Bounces-1)
		} else {
			child = geometry.DiffuseRay(hit.Point, hit.Normal, ray, ray.Bounces-1, sampler)
		}

		childColor := pt.GetColor(child, s, nIncident, sampler)
		for c := range incoming {
			incoming[c] += childColor[c]
		}
	}
	for c := range incoming {
		incoming[c] /= float64(nIncident)
	}

	return color.Add(incoming)
}

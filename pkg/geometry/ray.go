package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Ray represents a ray with an origin, a unit direction, the number of bounces
// it may still take and the color it carries
type Ray struct {
	Origin    core.Vec3
	Target    core.Vec3 // Point the ray was aimed at
	Direction core.Vec3 // Unit vector from Origin towards Target
	Bounces   int
	Color     material.Color
}

// NewRay creates a ray from origin aimed at target
func NewRay(origin, target core.Vec3, bounces int, color material.Color) Ray {
	return Ray{
		Origin:    origin,
		Target:    target,
		Direction: target.Subtract(origin).Normalize(),
		Bounces:   bounces,
		Color:     color,
	}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) core.Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// SetColor replaces the carried color
func (r *Ray) SetColor(color material.Color) {
	r.Color = color
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray from %v towards %v (%d bounces left)", r.Origin, r.Direction, r.Bounces)
}

// DiffuseRay spawns a ray from p into the hemisphere around normal. The offset is
// a normalized Gaussian sample flipped into the normal's half-space plus the
// normal itself, which biases directions towards the normal.
func DiffuseRay(p, normal core.Vec3, parent Ray, bounces int, sampler core.Sampler) Ray {
	sample := core.NewVec3(sampler.NormFloat64(), sampler.NormFloat64(), sampler.NormFloat64())
	sample = sample.Multiply(sign(normal.Dot(sample)))
	direction := sample.Normalize().Add(normal)
	return NewRay(p, p.Add(direction), bounces, parent.Color)
}

// SpecularRay spawns the mirror reflection of parent about normal at p
func SpecularRay(p, normal core.Vec3, parent Ray, bounces int) Ray {
	d := parent.Direction
	direction := d.Subtract(normal.Multiply(2 * d.Dot(normal)))
	return NewRay(p, p.Add(direction), bounces, parent.Color)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case math.IsNaN(x):
		return x
	}
	return 0
}

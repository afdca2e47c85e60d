package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// MinHitDistance is the smallest t accepted as a hit. Secondary rays start on
// the surface they left, so anything closer is that surface again.
const MinHitDistance = 1e-8

// HitInfo contains information about a ray-object intersection
type HitInfo struct {
	Hit      bool               // Whether the ray hit anything
	T        float64            // Distance along the ray, +Inf when there is no hit
	Point    core.Vec3          // Point of intersection
	Normal   core.Vec3          // Unit surface normal at Point
	Material *material.Material // Material of the hit object
}

// NoHit returns the miss sentinel
func NoHit() HitInfo {
	return HitInfo{T: math.Inf(1)}
}

func (h HitInfo) String() string {
	if !h.Hit {
		return "No Hit"
	}
	return fmt.Sprintf("Hit @ t=%g, p=%v, color=%v", h.T, h.Point, h.Material.Color)
}

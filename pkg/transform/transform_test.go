package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestRotate3D(t *testing.T) {
	tests := []struct {
		name     string
		vector   core.Vec3
		angles   [3]float64
		expected core.Vec3
	}{
		{
			name:     "No rotation",
			vector:   core.NewVec3(1, 0, 0),
			angles:   [3]float64{0, 0, 0},
			expected: core.NewVec3(1, 0, 0),
		},
		{
			name:     "90 degree rotation around Z axis",
			vector:   core.NewVec3(1, 0, 0),
			angles:   [3]float64{0, 0, math.Pi / 2},
			expected: core.NewVec3(0, 1, 0),
		},
		{
			name:     "90 degree rotation around Y axis",
			vector:   core.NewVec3(1, 0, 0),
			angles:   [3]float64{0, math.Pi / 2, 0},
			expected: core.NewVec3(0, 0, -1),
		},
		{
			name:     "90 degree rotation around X axis",
			vector:   core.NewVec3(0, 1, 0),
			angles:   [3]float64{math.Pi / 2, 0, 0},
			expected: core.NewVec3(0, 0, 1),
		},
		{
			// Rz is applied first, then Ry, then Rx
			name:     "Composed Z then Y",
			vector:   core.NewVec3(1, 0, 0),
			angles:   [3]float64{0, math.Pi / 2, math.Pi / 2},
			expected: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rotate3D(tt.angles[0], tt.angles[1], tt.angles[2])
			result := Rotate(r, tt.vector)
			if !result.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestRotate3DDegrees(t *testing.T) {
	rad := Rotate3D(0.3, -1.1, 2.0)
	deg := Rotate3DDegrees(mgl64.RadToDeg(0.3), mgl64.RadToDeg(-1.1), mgl64.RadToDeg(2.0))
	if !rad.ApproxEqualThreshold(deg, 1e-12) {
		t.Errorf("Degree and radian rotations differ: %v vs %v", rad, deg)
	}
}

func TestHomogeneous_ApplyAndInverse(t *testing.T) {
	r := Rotate3D(0.4, 0.2, -0.7)
	translate := core.NewVec3(1, -2, 3)
	m := Homogeneous(r, translate)

	if got := TranslationOf(m); got != translate {
		t.Errorf("Expected translation %v, got %v", translate, got)
	}

	p := core.NewVec3(0.5, 0.25, -4)
	expected := Rotate(r, p).Add(translate)
	if got := Apply(m, p); !got.ApproxEqual(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	general := Invert(m)
	rigid := RigidInverse(m)
	if !general.ApproxEqualThreshold(rigid, 1e-12) {
		t.Errorf("Rigid inverse %v differs from general inverse %v", rigid, general)
	}

	if back := Apply(rigid, Apply(m, p)); !back.ApproxEqual(p, 1e-12) {
		t.Errorf("Expected round trip to %v, got %v", p, back)
	}
}

func TestHomogeneousCoordinates(t *testing.T) {
	p := core.NewVec3(7, 8, 9)
	h := ToHomogeneous(p)
	if h[3] != 1 {
		t.Errorf("Expected w=1, got %f", h[3])
	}
	if got := FromHomogeneous(h); got != p {
		t.Errorf("Expected %v, got %v", p, got)
	}
}

func TestRotate3DPartial_MatchesFiniteDifference(t *testing.T) {
	angles := [3]float64{0.3, -0.8, 1.2}
	const h = 1e-6

	for axis := 0; axis < 3; axis++ {
		shifted := angles
		shifted[axis] += h
		numeric := Rotate3D(shifted[0], shifted[1], shifted[2]).
			Sub(Rotate3D(angles[0], angles[1], angles[2])).
			Mul(1 / h)
		exact := Rotate3DPartial(axis, angles[0], angles[1], angles[2])
		if !numeric.ApproxEqualThreshold(exact, 1e-5) {
			t.Errorf("Axis %d: expected %v, got %v", axis, numeric, exact)
		}
	}
}

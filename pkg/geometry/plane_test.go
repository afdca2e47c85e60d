package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

func TestNewPlane_Validation(t *testing.T) {
	mat := testMaterial(t)

	if _, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), mat); !errors.Is(err, core.ErrConstruction) {
		t.Errorf("Expected ErrConstruction for zero normal, got %v", err)
	}
	if _, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil); !errors.Is(err, core.ErrConstruction) {
		t.Errorf("Expected ErrConstruction for nil material, got %v", err)
	}
	_, err := NewPlaneFromPoints(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), mat)
	if !errors.Is(err, core.ErrConstruction) {
		t.Errorf("Expected ErrConstruction for collinear points, got %v", err)
	}
}

func TestPlane_Intersect_BasicIntersection(t *testing.T) {
	plane, _ := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 5), testMaterial(t))
	ray := testRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	hit := plane.Intersect(ray)
	if !hit.Hit {
		t.Fatal("Expected ray to hit plane")
	}
	if math.Abs(hit.T-3) > 1e-9 {
		t.Errorf("Expected t=3, got t=%f", hit.T)
	}
	if !hit.Point.ApproxEqual(core.NewVec3(0, 0, 0), 1e-9) {
		t.Errorf("Expected hit point at origin, got %v", hit.Point)
	}
	// Normal is stored unit length
	if !hit.Normal.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
}

func TestPlane_Intersect_ParallelRay(t *testing.T) {
	plane, _ := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial(t))

	tests := []struct {
		name   string
		origin core.Vec3
	}{
		{"above plane", core.NewVec3(0, 1, 0)},
		{"in plane", core.NewVec3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := testRay(tt.origin, core.NewVec3(1, 0, 0))
			if hit := plane.Intersect(ray); hit.Hit {
				t.Errorf("Expected parallel ray to miss, got t=%f", hit.T)
			}
		})
	}
}

func TestPlane_Intersect_BehindRay(t *testing.T) {
	plane, _ := NewPlane(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), testMaterial(t))
	ray := testRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if hit := plane.Intersect(ray); hit.Hit {
		t.Errorf("Expected miss for plane behind ray, got t=%f", hit.T)
	}
}

func TestPlane_Intersect_NoNormalFlip(t *testing.T) {
	plane, _ := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial(t))
	// Approaching from below still reports the fixed normal
	ray := testRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))

	hit := plane.Intersect(ray)
	if !hit.Hit {
		t.Fatal("Expected hit from below")
	}
	if hit.Normal != plane.Normal {
		t.Errorf("Expected fixed normal %v, got %v", plane.Normal, hit.Normal)
	}
}

func TestPlane_FromPointsMatchesPointNormal(t *testing.T) {
	mat := testMaterial(t)
	p1 := core.NewVec3(1, 2, 0)
	p2 := core.NewVec3(-3, 2, 4)
	p3 := core.NewVec3(0, 2, -2)

	fromPoints, err := NewPlaneFromPoints(p1, p2, p3, mat)
	if err != nil {
		t.Fatalf("Failed to create plane from points: %v", err)
	}
	fromNormal, err := NewPlane(p1, core.NewVec3(0, 1, 0), mat)
	if err != nil {
		t.Fatalf("Failed to create plane from point and normal: %v", err)
	}

	if dot := fromPoints.Normal.Dot(fromNormal.Normal); math.Abs(math.Abs(dot)-1) > 1e-12 {
		t.Errorf("Expected parallel normals, got %v and %v", fromPoints.Normal, fromNormal.Normal)
	}

	// Anchor of the three-point form is the centroid
	centroid := p1.Add(p2).Add(p3).Multiply(1.0 / 3.0)
	if !fromPoints.Point.ApproxEqual(centroid, 1e-12) {
		t.Errorf("Expected anchor %v, got %v", centroid, fromPoints.Point)
	}

	rays := []Ray{
		testRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
		testRay(core.NewVec3(3, -1, 7), core.NewVec3(-0.2, 1, 0.3)),
	}
	for i, ray := range rays {
		a := fromPoints.Intersect(ray)
		b := fromNormal.Intersect(ray)
		if !a.Hit || !b.Hit {
			t.Fatalf("Ray %d: expected both planes to be hit, got %v and %v", i, a.Hit, b.Hit)
		}
		if math.Abs(a.T-b.T) > 1e-9 {
			t.Errorf("Ray %d: expected equal t, got %f and %f", i, a.T, b.T)
		}
	}
}

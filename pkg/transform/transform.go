// Package transform provides the rotation and homogeneous-coordinate helpers
// the camera uses to move points between world and camera space.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// RotateX returns the rotation about the x axis by phi radians
func RotateX(phi float64) mgl64.Mat3 {
	return mgl64.Rotate3DX(phi)
}

// RotateY returns the rotation about the y axis by phi radians
func RotateY(phi float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(phi)
}

// RotateZ returns the rotation about the z axis by phi radians
func RotateZ(phi float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(phi)
}

// Rotate3D composes Rx(phiX) * Ry(phiY) * Rz(phiZ)
func Rotate3D(phiX, phiY, phiZ float64) mgl64.Mat3 {
	return RotateX(phiX).Mul3(RotateY(phiY)).Mul3(RotateZ(phiZ))
}

// Rotate3DDegrees is Rotate3D with the angles given in degrees
func Rotate3DDegrees(phiX, phiY, phiZ float64) mgl64.Mat3 {
	return Rotate3D(mgl64.DegToRad(phiX), mgl64.DegToRad(phiY), mgl64.DegToRad(phiZ))
}

// Homogeneous builds the 4x4 transform [rotation | translate; 0 0 0 1]
func Homogeneous(rotation mgl64.Mat3, translate core.Vec3) mgl64.Mat4 {
	m := rotation.Mat4()
	m.SetCol(3, mgl64.Vec4{translate.X, translate.Y, translate.Z, 1})
	return m
}

// RotationOf extracts the upper-left 3x3 block of a homogeneous transform
func RotationOf(m mgl64.Mat4) mgl64.Mat3 {
	return m.Mat3()
}

// TranslationOf extracts the translation column of a homogeneous transform
func TranslationOf(m mgl64.Mat4) core.Vec3 {
	col := m.Col(3)
	return core.NewVec3(col[0], col[1], col[2])
}

// Invert returns the general inverse of m
func Invert(m mgl64.Mat4) mgl64.Mat4 {
	return m.Inv()
}

// RigidInverse inverts a transform whose rotation block is orthogonal:
// the rotation is transposed and the translation rotated back and negated.
func RigidInverse(m mgl64.Mat4) mgl64.Mat4 {
	rt := RotationOf(m).Transpose()
	t := ToMgl(TranslationOf(m))
	return Homogeneous(rt, FromMgl(rt.Mul3x1(t).Mul(-1)))
}

// ToHomogeneous appends w = 1 to a point
func ToHomogeneous(p core.Vec3) mgl64.Vec4 {
	return mgl64.Vec4{p.X, p.Y, p.Z, 1}
}

// FromHomogeneous drops the w component. Transforms built here are affine, so w stays 1.
func FromHomogeneous(h mgl64.Vec4) core.Vec3 {
	return core.NewVec3(h[0], h[1], h[2])
}

// Apply transforms a point by m
func Apply(m mgl64.Mat4, p core.Vec3) core.Vec3 {
	return FromHomogeneous(m.Mul4x1(ToHomogeneous(p)))
}

// Rotate applies a 3x3 rotation to a vector
func Rotate(r mgl64.Mat3, v core.Vec3) core.Vec3 {
	return FromMgl(r.Mul3x1(ToMgl(v)))
}

// ToMgl converts a core vector to its mathgl counterpart
func ToMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl converts a mathgl vector to a core vector
func FromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// DRotateX returns dRx/dphi. Rx(phi + pi/2) has the same rotating block as the
// derivative; only the fixed axis entry has to be cleared.
func DRotateX(phi float64) mgl64.Mat3 {
	return RotateX(phi + math.Pi/2).Sub(mgl64.Diag3(mgl64.Vec3{1, 0, 0}))
}

// DRotateY returns dRy/dphi
func DRotateY(phi float64) mgl64.Mat3 {
	return RotateY(phi + math.Pi/2).Sub(mgl64.Diag3(mgl64.Vec3{0, 1, 0}))
}

// DRotateZ returns dRz/dphi
func DRotateZ(phi float64) mgl64.Mat3 {
	return RotateZ(phi + math.Pi/2).Sub(mgl64.Diag3(mgl64.Vec3{0, 0, 1}))
}

// Rotate3DPartial returns the partial derivative of Rotate3D with respect to angle axis (0, 1 or 2)
func Rotate3DPartial(axis int, phiX, phiY, phiZ float64) mgl64.Mat3 {
	rx, ry, rz := RotateX(phiX), RotateY(phiY), RotateZ(phiZ)
	switch axis {
	case 0:
		rx = DRotateX(phiX)
	case 1:
		ry = DRotateY(phiY)
	default:
		rz = DRotateZ(phiZ)
	}
	return rx.Mul3(ry).Mul3(rz)
}

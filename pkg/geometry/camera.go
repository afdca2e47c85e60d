package geometry

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/solver"
	"github.com/df07/go-stochastic-raytracer/pkg/transform"
)

// Gradient descent parameters for the camera frame
const (
	frameStepSize      = 0.1
	frameTolerance     = 1e-8
	frameMaxIterations = 1000
	frameNudge         = 1e-3 // applied once when the view direction sits on a stationary point
)

var forwardAxis = core.NewVec3(0, 0, 1)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Origin      core.Vec3 // Eye position
	LookAt      core.Vec3 // Point the camera looks at
	Width       int       // Horizontal resolution in pixels
	Height      int       // Vertical resolution in pixels
	FocalLength float64   // Distance to the view plane (<= 0 = distance from Origin to LookAt)
	Channels    int       // Color channels per pixel (0 = 3)
	WarpedLens  bool      // Sample pixels linearly in angle instead of linearly in sine
	FovX        float64   // Horizontal field of view (0 = 90 degrees)
	FovY        float64   // Vertical field of view (0 = 90 degrees)
	Degrees     bool      // FovX and FovY are given in degrees
}

// DefaultCameraConfig returns a 256x256, 90 degree camera at the origin looking down +z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:   core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, 1),
		Width:    256,
		Height:   256,
		Channels: 3,
		FovX:     math.Pi / 2,
		FovY:     math.Pi / 2,
	}
}

// FrameResult records how the camera orientation was found
type FrameResult struct {
	Angles     [3]float64 // Rotation angles about x, y and z
	Residual   float64    // Remaining distance between the rotated view direction and +z
	Iterations int        // Gradient descent iterations taken
	Converged  bool       // Residual fell below tolerance within the iteration cap
}

// Camera maps pixels to world-space rays and owns the image buffer
type Camera struct {
	Origin   core.Vec3
	LookAt   core.Vec3
	Distance float64 // |LookAt - Origin|
	F        float64 // Focal length
	Width    int
	Height   int
	Channels int
	FovX     float64 // Radians
	FovY     float64 // Radians

	xValues []float64
	yValues []float64

	worldToCamera mgl64.Mat4
	cameraToWorld mgl64.Mat4
	frame         FrameResult

	// x-major: image[(x*Height+y)*Channels+c]
	image []float64
}

// NewCamera validates cfg, derives the camera frame and allocates a zeroed image buffer
func NewCamera(cfg CameraConfig) (*Camera, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("camera resolution must be positive, got %dx%d: %w", cfg.Width, cfg.Height, core.ErrConstruction)
	}
	if cfg.Channels < 0 {
		return nil, fmt.Errorf("negative channel count %d: %w", cfg.Channels, core.ErrConstruction)
	}
	if cfg.FovX < 0 || cfg.FovY < 0 {
		return nil, fmt.Errorf("negative field of view: %w", core.ErrConstruction)
	}

	viewDir := cfg.LookAt.Subtract(cfg.Origin)
	distance := viewDir.Length()
	if distance == 0 {
		return nil, fmt.Errorf("camera origin and look-at point coincide at %v: %w", cfg.Origin, core.ErrConstruction)
	}

	channels := cfg.Channels
	if channels == 0 {
		channels = 3
	}
	fovX, fovY := cfg.FovX, cfg.FovY
	if cfg.Degrees {
		fovX, fovY = mgl64.DegToRad(fovX), mgl64.DegToRad(fovY)
	}
	if fovX == 0 {
		fovX = math.Pi / 2
	}
	if fovY == 0 {
		fovY = math.Pi / 2
	}
	f := cfg.FocalLength
	if f <= 0 {
		f = distance
	}

	c := &Camera{
		Origin:   cfg.Origin,
		LookAt:   cfg.LookAt,
		Distance: distance,
		F:        f,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Channels: channels,
		FovX:     fovX,
		FovY:     fovY,
		image:    make([]float64, cfg.Width*cfg.Height*channels),
	}

	// x runs left to right, y runs top to bottom
	if cfg.WarpedLens {
		c.xValues = sines(linspace(-fovX/2, fovX/2, cfg.Width))
		c.yValues = sines(linspace(fovY/2, -fovY/2, cfg.Height))
	} else {
		c.xValues = linspace(-math.Sin(fovX/2), math.Sin(fovX/2), cfg.Width)
		c.yValues = linspace(math.Sin(fovY/2), -math.Sin(fovY/2), cfg.Height)
	}

	frame, err := findCameraFrame(viewDir.Normalize())
	if err != nil {
		return nil, err
	}
	c.frame = frame

	// The frame rotates world directions onto +z, so its transpose takes camera axes back to world
	rotation := transform.Rotate3D(frame.Angles[0], frame.Angles[1], frame.Angles[2])
	c.cameraToWorld = transform.Homogeneous(rotation.Transpose(), cfg.Origin)
	c.worldToCamera = transform.RigidInverse(c.cameraToWorld)

	return c, nil
}

// findCameraFrame runs gradient descent on the angles (phiX, phiY, phiZ) so that
// Rotate3D(phi) * direction lands on +z
func findCameraFrame(direction core.Vec3) (FrameResult, error) {
	residual := func(x []float64) core.Vec3 {
		return forwardAxis.Subtract(transform.Rotate(transform.Rotate3D(x[0], x[1], x[2]), direction))
	}
	dist := func(x []float64) float64 {
		return residual(x).Length()
	}

	fm, err := solver.NewFunctionMatrix(3, solver.WithArity(3, dist))
	if err != nil {
		return FrameResult{}, err
	}
	for axis := 0; axis < 3; axis++ {
		// d|r|/dphi = -r · (dR/dphi · direction) / |r|
		partial := func(x []float64) float64 {
			r := residual(x)
			dRd := transform.Rotate(transform.Rotate3DPartial(axis, x[0], x[1], x[2]), direction)
			return -r.Dot(dRd) / r.Length()
		}
		if _, err := fm.PutDerivative(0, axis, solver.WithArity(3, partial)); err != nil {
			return FrameResult{}, err
		}
	}

	angles := []float64{0, 0, 0}
	d := dist(angles)
	nudged := false
	i := 0
	for ; d > frameTolerance && i < frameMaxIterations; i++ {
		j, err := fm.Jacobian(angles, solver.DefaultStep)
		if err != nil {
			return FrameResult{}, err
		}
		grad := mat.Row(nil, 0, j)

		if !nudged && math.Hypot(math.Hypot(grad[0], grad[1]), grad[2]) < frameTolerance {
			// Looking straight down -z is a maximum of dist; step off it once
			for k := range angles {
				angles[k] += frameNudge
			}
			nudged = true
		} else {
			for k := range angles {
				angles[k] -= frameStepSize * d * grad[k]
			}
		}
		d = dist(angles)
	}

	return FrameResult{
		Angles:     [3]float64{angles[0], angles[1], angles[2]},
		Residual:   d,
		Iterations: i,
		Converged:  d <= frameTolerance,
	}, nil
}

// Frame returns the result of the orientation search
func (c *Camera) Frame() FrameResult {
	return c.frame
}

// WorldToCamera returns the world-to-camera transform
func (c *Camera) WorldToCamera() mgl64.Mat4 {
	return c.worldToCamera
}

// CameraToWorld returns the camera-to-world transform
func (c *Camera) CameraToWorld() mgl64.Mat4 {
	return c.cameraToWorld
}

// GeoCoords returns the world-space point on the view plane that pixel (x, y) looks through
func (c *Camera) GeoCoords(x, y int) core.Vec3 {
	onPlane := core.NewVec3(c.xValues[x], c.yValues[y], 1).Multiply(c.F)
	return transform.Apply(c.cameraToWorld, onPlane)
}

// RayThroughPixel shoots a full-bright ray from the eye through pixel (x, y)
func (c *Camera) RayThroughPixel(x, y, bounces int) Ray {
	return NewRay(c.Origin, c.GeoCoords(x, y), bounces, material.White(c.Channels))
}

// Pixels iterates over pixel coordinates row first, then column
func (c *Camera) Pixels() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

// SetColor stores the color of pixel (x, y)
func (c *Camera) SetColor(x, y int, color material.Color) error {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return fmt.Errorf("pixel (%d, %d) outside %dx%d image: %w", x, y, c.Width, c.Height, core.ErrDimension)
	}
	if len(color) != c.Channels {
		return fmt.Errorf("color has %d channels, camera has %d: %w", len(color), c.Channels, core.ErrDimension)
	}
	copy(c.image[c.offset(x, y):], color)
	return nil
}

// PixelColor returns a copy of the stored color of pixel (x, y)
func (c *Camera) PixelColor(x, y int) material.Color {
	i := c.offset(x, y)
	return material.NewColor(c.image[i : i+c.Channels]...)
}

// ResetImage zeroes the image buffer
func (c *Camera) ResetImage() {
	clear(c.image)
}

// Image converts the buffer to bytes in row-major display order
func (c *Camera) Image() *Image {
	img := NewImage(c.Width, c.Height, c.Channels)
	for x := 0; x < c.Width; x++ {
		for y := 0; y < c.Height; y++ {
			src := c.offset(x, y)
			dst := img.offset(x, y)
			for ch := 0; ch < c.Channels; ch++ {
				img.Pix[dst+ch] = toByte(c.image[src+ch])
			}
		}
	}
	return img
}

func (c *Camera) offset(x, y int) int {
	return (x*c.Height + y) * c.Channels
}

// linspace returns n evenly spaced values from start to stop inclusive
func linspace(start, stop float64, n int) []float64 {
	values := make([]float64, n)
	if n == 1 {
		values[0] = start
		return values
	}
	step := (stop - start) / float64(n-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return values
}

func sines(values []float64) []float64 {
	for i, v := range values {
		values[i] = math.Sin(v)
	}
	return values
}

package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// NewDefaultScene creates a sky-blue sphere floating over a softly glowing floor
// under white ambient light
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.Width = 128
	cameraConfig.Height = 128
	if len(cameraOverrides) > 0 {
		cameraConfig = cameraOverrides[0]
	}

	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	floorMat, err := material.NewLight(material.Black(3), material.NewColor(0, 0.2, 0.2), 1.0)
	if err != nil {
		return nil, err
	}
	floor, err := geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), floorMat)
	if err != nil {
		return nil, err
	}

	skyBlue, err := material.NewDiffuse(material.NewColor(0.537, 0.812, 0.941))
	if err != nil {
		return nil, err
	}
	sphere, err := geometry.NewSphere(core.NewVec3(0, 0, 2), 1, skyBlue)
	if err != nil {
		return nil, err
	}

	return New(camera, material.White(3), floor, sphere)
}

// NewMirrorScene places a mirror sphere beside a diffuse red sphere over a white
// floor, lit by a pale sky and a warm light sphere overhead
func NewMirrorScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.Origin = core.NewVec3(0, 0.5, -1)
	cameraConfig.LookAt = core.NewVec3(0, 0, 3)
	cameraConfig.Width = 160
	cameraConfig.Height = 120
	cameraConfig.FovX = 80
	cameraConfig.FovY = 60
	cameraConfig.Degrees = true
	if len(cameraOverrides) > 0 {
		cameraConfig = cameraOverrides[0]
	}

	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	mirror, err := material.New(material.Config{
		Color:               material.NewColor(0.95, 0.95, 0.95),
		SpecularProbability: 1,
	})
	if err != nil {
		return nil, err
	}
	red, err := material.New(material.Config{
		Color:               material.NewColor(0.8, 0.2, 0.15),
		SpecularProbability: 0.1,
	})
	if err != nil {
		return nil, err
	}
	white, err := material.NewDiffuse(material.NewColor(0.9, 0.9, 0.9))
	if err != nil {
		return nil, err
	}
	lamp, err := material.NewLight(material.White(3), material.NewColor(1, 0.85, 0.6), 2.0)
	if err != nil {
		return nil, err
	}

	mirrorSphere, err := geometry.NewSphere(core.NewVec3(-0.8, 0, 3), 0.8, mirror)
	if err != nil {
		return nil, err
	}
	redSphere, err := geometry.NewSphere(core.NewVec3(0.9, -0.3, 2.6), 0.5, red)
	if err != nil {
		return nil, err
	}
	lampSphere, err := geometry.NewSphere(core.NewVec3(0, 4, 3), 1.5, lamp)
	if err != nil {
		return nil, err
	}
	// Floor from three points so its normal points up: (p3-p1) x (p3-p2)
	floor, err := geometry.NewPlaneFromPoints(
		core.NewVec3(0, -0.8, 0),
		core.NewVec3(0, -0.8, 1),
		core.NewVec3(1, -0.8, 0),
		white,
	)
	if err != nil {
		return nil, err
	}

	return New(camera, material.NewColor(0.55, 0.65, 0.8), floor, mirrorSphere, redSphere, lampSphere)
}

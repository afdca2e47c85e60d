package renderer

import (
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of primary rays cast
	AverageSamples   float64       // Average primary rays per pixel
	RaysTraced       int64         // Primary and secondary rays intersected with the scene
	Tiles            int           // Number of tiles rendered
	AverageLuminance float64       // Mean luminance of the finished image
	Elapsed          time.Duration // Wall time of the render
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  material.Color // Channel sums of all samples
	SampleCount int            // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color material.Color) {
	if ps.ColorAccum == nil {
		ps.ColorAccum = material.Black(len(color))
	}
	for i := range color {
		ps.ColorAccum[i] += color[i]
	}
	ps.SampleCount++
}

// GetColor returns the plain average of the samples. No rescale is applied.
func (ps *PixelStats) GetColor() material.Color {
	out := material.Black(len(ps.ColorAccum))
	if ps.SampleCount == 0 {
		return out
	}
	for i := range out {
		out[i] = ps.ColorAccum[i] / float64(ps.SampleCount)
	}
	return out
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1].
// Images that are not RGB use the mean of their channels.
func CalculateAverageLuminance(img *geometry.Image) float64 {
	pixels := img.Width * img.Height
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.At(x, y)
			if img.Channels >= 3 {
				total += (0.2126*float64(p[0]) + 0.7152*float64(p[1]) + 0.0722*float64(p[2])) / 255
				continue
			}
			sum := 0.0
			for _, v := range p {
				sum += float64(v)
			}
			total += sum / float64(len(p)) / 255
		}
	}
	return total / float64(pixels)
}

package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black pixels average to (0.2126 + 0.7152 + 0.0722) / 4
	img := geometry.NewImage(2, 2, 3)
	copy(img.Pix, []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 0, 0, 0,
	})

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-0.25) > 1e-4 {
		t.Errorf("Expected average luminance 0.25, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := geometry.NewImage(1, 1, 3)
	copy(img.Pix, []uint8{255, 255, 255})

	if avgLum := CalculateAverageLuminance(img); math.Abs(avgLum-1) > 1e-4 {
		t.Errorf("Expected average luminance 1, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_Gray(t *testing.T) {
	img := geometry.NewImage(2, 1, 1)
	copy(img.Pix, []uint8{0, 255})

	if avgLum := CalculateAverageLuminance(img); math.Abs(avgLum-0.5) > 1e-4 {
		t.Errorf("Expected average luminance 0.5, got %f", avgLum)
	}
}

func TestPixelStats_PlainAverage(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); len(got) != 0 {
		t.Errorf("Expected empty color before any sample, got %v", got)
	}

	ps.AddSample(material.NewColor(1, 0.5, 0))
	ps.AddSample(material.NewColor(1, 1, 0.25))

	got := ps.GetColor()
	expected := material.NewColor(1, 0.75, 0.125)
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > 1e-12 {
			t.Errorf("Expected %v, got %v", expected, got)
			break
		}
	}
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
}

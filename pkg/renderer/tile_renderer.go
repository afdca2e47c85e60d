package renderer

import (
	"image"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene       *scene.Scene
	integrator  integrator.Integrator
	bounces     int
	primaryRays int
}

// NewTileRenderer creates a tile renderer that casts primaryRays rays with the
// given bounce budget through every pixel
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator, bounces, primaryRays int) *TileRenderer {
	return &TileRenderer{
		scene:       s,
		integrator:  integratorInst,
		bounces:     bounces,
		primaryRays: primaryRays,
	}
}

// RenderTileBounds renders the pixels within bounds into the camera's image buffer.
// Tiles never overlap, so concurrent calls on distinct tiles write distinct pixels.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, random core.Sampler) (RenderStats, error) {
	camera := tr.scene.Camera
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var ps PixelStats
			for sample := 0; sample < tr.primaryRays; sample++ {
				ray := camera.RayThroughPixel(x, y, tr.bounces)
				ps.AddSample(tr.integrator.RayColor(ray, tr.scene, random))
			}
			if err := camera.SetColor(x, y, ps.GetColor()); err != nil {
				return stats, err
			}
			stats.TotalSamples += ps.SampleCount
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats, nil
}

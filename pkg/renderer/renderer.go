package renderer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains configuration for a render
type Config struct {
	Bounces      int   // Bounce budget of every primary ray
	IncidentRays int   // Secondary rays spawned at every hit
	PrimaryRays  int   // Rays cast through every pixel
	TileSize     int   // Size of each square tile
	NumWorkers   int   // Number of parallel workers (0 = use CPU count)
	Seed         int64 // Tile random generators are seeded with Seed + tile ID
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Bounces:      2,
		IncidentRays: 1,
		PrimaryRays:  50,
		TileSize:     32,
		NumWorkers:   0, // Auto-detect CPU count
		Seed:         42,
	}
}

// Validate reports configuration values that cannot be rendered
func (c Config) Validate() error {
	switch {
	case c.Bounces < 0:
		return fmt.Errorf("bounces must not be negative, got %d: %w", c.Bounces, core.ErrConstruction)
	case c.IncidentRays < 1:
		return fmt.Errorf("incident rays must be at least 1, got %d: %w", c.IncidentRays, core.ErrConstruction)
	case c.PrimaryRays < 1:
		return fmt.Errorf("primary rays must be at least 1, got %d: %w", c.PrimaryRays, core.ErrConstruction)
	case c.TileSize < 1:
		return fmt.Errorf("tile size must be at least 1, got %d: %w", c.TileSize, core.ErrConstruction)
	}
	return nil
}

// RaysPerSample returns the most rays a single primary sample can trace: the
// primary ray plus incident^k descendants at every depth k up to bounces.
// The result saturates at math.MaxInt64.
func RaysPerSample(bounces, incident int) int64 {
	if bounces < 0 || incident < 1 {
		return 1
	}
	total, level := int64(1), int64(1)
	for k := 0; k < bounces; k++ {
		if level > math.MaxInt64/int64(incident) {
			return math.MaxInt64
		}
		level *= int64(incident)
		if total > math.MaxInt64-level {
			return math.MaxInt64
		}
		total += level
	}
	return total
}

// Renderer renders a scene through its camera with a pool of tile workers
type Renderer struct {
	scene  *scene.Scene
	config Config
	logger core.Logger
}

// NewRenderer creates a renderer. A nil logger logs to stdout.
func NewRenderer(s *scene.Scene, config Config, logger core.Logger) *Renderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Renderer{
		scene:  s,
		config: config,
		logger: logger,
	}
}

// Render traces every pixel of the scene's camera and returns the finished image.
// The camera's image buffer is reset first, so each pixel is written exactly once.
func (r *Renderer) Render(ctx context.Context) (*geometry.Image, RenderStats, error) {
	if err := r.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	camera := r.scene.Camera
	if frame := camera.Frame(); !frame.Converged {
		r.logger.Printf("Warning: camera frame did not converge after %d iterations (residual %g)\n",
			frame.Iterations, frame.Residual)
	}

	startTime := time.Now()
	camera.ResetImage()

	pathTracer := integrator.NewPathTracingIntegrator(r.config.IncidentRays)
	tileRenderer := NewTileRenderer(r.scene, pathTracer, r.config.Bounces, r.config.PrimaryRays)
	tiles := NewTileGrid(camera.Width, camera.Height, r.config.TileSize, r.config.Seed)
	workerPool := NewWorkerPool(tileRenderer, len(tiles), r.config.NumWorkers)

	r.logger.Printf("Rendering %dx%d: %d tiles, %d rays/pixel, %d bounces, %d incident rays (using %d workers)...\n",
		camera.Width, camera.Height, len(tiles), r.config.PrimaryRays, r.config.Bounces,
		r.config.IncidentRays, workerPool.GetNumWorkers())

	workerPool.Start(ctx)
	for taskID, tile := range tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}
	workerPool.Stop()

	stats := RenderStats{TotalPixels: camera.Width * camera.Height, Tiles: len(tiles)}
	var firstErr error
	for {
		result, ok := workerPool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.TotalSamples += result.Stats.TotalSamples
	}
	if firstErr != nil {
		r.logger.Printf("Rendering stopped: %v\n", firstErr)
		return nil, RenderStats{}, firstErr
	}

	img := camera.Image()
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.RaysTraced = pathTracer.RaysTraced()
	stats.AverageLuminance = CalculateAverageLuminance(img)
	stats.Elapsed = time.Since(startTime)

	r.logger.Printf("Render completed in %v (%d rays traced, average luminance %.3f)\n",
		stats.Elapsed, stats.RaysTraced, stats.AverageLuminance)

	return img, stats, nil
}

// Render renders s with the default tiling and seed, logging nothing
func Render(ctx context.Context, s *scene.Scene, bounces, incident, rays int) (*geometry.Image, RenderStats, error) {
	config := DefaultConfig()
	config.Bounces = bounces
	config.IncidentRays = incident
	config.PrimaryRays = rays
	return NewRenderer(s, config, discardLogger{}).Render(ctx)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

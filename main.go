package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

const thumbnailWidth = 128

// options holds the resolved command line configuration
type options struct {
	Scene     string
	ScenesDir string
	Bounces   int
	Incident  int
	Rays      int
	Workers   int
	TileSize  int
	Seed      int64
	MaxRays   int64
	OutDir    string
	Scale     int
	Thumbnail bool
	List      bool
	Help      bool

	// Flags given explicitly on the command line win over scene file settings
	explicit map[string]bool
}

func main() {
	// Missing .env is fine; the environment and built-in defaults still apply
	_ = godotenv.Load()

	opts, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	if opts.Help {
		printHelp(fs, opts.ScenesDir)
		return
	}
	if opts.List {
		if err := listScenes(opts.ScenesDir); err != nil {
			log.Fatalf("Error listing scenes: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, opts, renderer.NewDefaultLogger())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// parseFlags reads flags from args. Defaults come from RAYTRACER_* environment
// variables when set.
func parseFlags(args []string) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)

	defaults := renderer.DefaultConfig()
	envBounces, err := envInt("RAYTRACER_BOUNCES", defaults.Bounces)
	if err != nil {
		return opts, fs, err
	}
	envIncident, err := envInt("RAYTRACER_INCIDENT", defaults.IncidentRays)
	if err != nil {
		return opts, fs, err
	}
	envRays, err := envInt("RAYTRACER_RAYS", defaults.PrimaryRays)
	if err != nil {
		return opts, fs, err
	}
	envWorkers, err := envInt("RAYTRACER_WORKERS", defaults.NumWorkers)
	if err != nil {
		return opts, fs, err
	}
	envTile, err := envInt("RAYTRACER_TILE", defaults.TileSize)
	if err != nil {
		return opts, fs, err
	}
	envSeed, err := envInt("RAYTRACER_SEED", int(defaults.Seed))
	if err != nil {
		return opts, fs, err
	}
	envMaxRays, err := envInt("RAYTRACER_MAX_RAYS", 100000)
	if err != nil {
		return opts, fs, err
	}

	fs.StringVar(&opts.Scene, "scene", getEnv("RAYTRACER_SCENE", "default"), "Scene: 'default', 'mirror', a name in the scenes directory or a path to a .json file")
	fs.StringVar(&opts.ScenesDir, "scenes", getEnv("RAYTRACER_SCENES_DIR", "scenes"), "Directory searched for .json scenes")
	fs.IntVar(&opts.Bounces, "bounces", envBounces, "Bounce budget of every primary ray")
	fs.IntVar(&opts.Incident, "incident", envIncident, "Secondary rays spawned at every hit")
	fs.IntVar(&opts.Rays, "rays", envRays, "Primary rays per pixel")
	fs.IntVar(&opts.Workers, "workers", envWorkers, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.TileSize, "tile", envTile, "Tile size in pixels")
	fs.Int64Var(&opts.Seed, "seed", int64(envSeed), "Random seed")
	fs.Int64Var(&opts.MaxRays, "max-rays", int64(envMaxRays), "Refuse to render when one primary ray may trace more rays than this")
	fs.StringVar(&opts.OutDir, "out", getEnv("RAYTRACER_OUT", ""), "Output directory (default output/<scene>)")
	fs.IntVar(&opts.Scale, "scale", 1, "Nearest-neighbour upscale factor for the saved image")
	fs.BoolVar(&opts.Thumbnail, "thumb", false, "Also save a 128 pixel wide thumbnail")
	fs.BoolVar(&opts.List, "list", false, "List available scenes")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}

	opts.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.explicit[f.Name] = true
	})

	if opts.Scale < 1 {
		return opts, fs, fmt.Errorf("scale must be at least 1, got %d", opts.Scale)
	}
	return opts, fs, nil
}

func printHelp(fs *flag.FlagSet, scenesDir string) {
	fmt.Println("Stochastic Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Flag defaults can be set with RAYTRACER_* environment variables or a .env file.")
	fmt.Println()
	if err := listScenes(scenesDir); err != nil {
		fmt.Printf("Error listing scenes: %v\n", err)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

func listScenes(scenesDir string) error {
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	fmt.Println("Available scenes:")
	for _, info := range scenes {
		fmt.Printf("  %-20s %s", info.ID, info.Name)
		if info.Description != "" {
			fmt.Printf(" - %s", info.Description)
		}
		fmt.Println()
	}
	return nil
}

// run renders the selected scene and writes it to disk, returning the image path
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	loaded, err := loaders.Resolve(opts.Scene, opts.ScenesDir)
	if err != nil {
		return "", err
	}

	config := renderConfig(opts, loaded.Render)
	if raysPerSample := renderer.RaysPerSample(config.Bounces, config.IncidentRays); raysPerSample > opts.MaxRays {
		return "", fmt.Errorf("%d bounces with %d incident rays trace up to %d rays per sample, above the limit of %d (raise -max-rays to allow it)",
			config.Bounces, config.IncidentRays, raysPerSample, opts.MaxRays)
	}

	logger.Printf("Using scene %s...\n", loaded.Name)
	img, _, err := renderer.NewRenderer(loaded.Scene, config, logger).Render(ctx)
	if err != nil {
		return "", err
	}

	outputDir := opts.OutDir
	if outputDir == "" {
		outputDir = filepath.Join("output", loaded.ID)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	rendered, err := img.ToImage()
	if err != nil {
		return "", err
	}
	output := rendered
	if opts.Scale > 1 {
		output = upscale(rendered, opts.Scale)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := savePNG(filename, output); err != nil {
		return "", err
	}

	if opts.Thumbnail {
		thumbName := filepath.Join(outputDir, fmt.Sprintf("render_%s_thumb.png", timestamp))
		if err := savePNG(thumbName, thumbnail(rendered)); err != nil {
			return "", err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbName)
	}

	return filename, nil
}

// renderConfig merges explicit flags over scene file settings over flag defaults
func renderConfig(opts options, settings loaders.RenderSettings) renderer.Config {
	config := renderer.Config{
		Bounces:      opts.Bounces,
		IncidentRays: opts.Incident,
		PrimaryRays:  opts.Rays,
		TileSize:     opts.TileSize,
		NumWorkers:   opts.Workers,
		Seed:         opts.Seed,
	}
	if settings.Bounces != nil && !opts.explicit["bounces"] {
		config.Bounces = *settings.Bounces
	}
	if settings.IncidentRays != nil && !opts.explicit["incident"] {
		config.IncidentRays = *settings.IncidentRays
	}
	if settings.PrimaryRays != nil && !opts.explicit["rays"] {
		config.PrimaryRays = *settings.PrimaryRays
	}
	if settings.Seed != nil && !opts.explicit["seed"] {
		config.Seed = *settings.Seed
	}
	return config
}

// upscale enlarges img by factor with nearest-neighbour sampling so pixels stay sharp
func upscale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// thumbnail shrinks img to thumbnailWidth pixels wide, keeping the aspect ratio
func thumbnail(img image.Image) image.Image {
	return resize.Resize(thumbnailWidth, 0, img, resize.Bilinear)
}

func savePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}

// getEnv returns the environment variable key, or fallback when it is unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
	return n, nil
}

package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// maxRaysPerSample refuses bounce/incident combinations whose ray tree would stall the server
const maxRaysPerSample = 100000

// RenderRequest represents a render request from the client.
// Nil fields fall back to the scene file, then to renderer.DefaultConfig.
type RenderRequest struct {
	Scene        string
	Bounces      *int
	IncidentRays *int
	PrimaryRays  *int
	Seed         *int64
	Format       string // "png" or "json"
}

// RenderResponse is the JSON form of a finished render
type RenderResponse struct {
	RenderID  string `json:"renderId"`
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	RaysTraced       int64   `json:"raysTraced"`
	Tiles            int     `json:"tiles"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// handleRender renders a scene and answers with a PNG, or JSON when format=json
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	loaded, err := loaders.Resolve(req.Scene, s.scenesDir)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := req.config(loaded.Render)
	if rays := renderer.RaysPerSample(config.Bounces, config.IncidentRays); rays > maxRaysPerSample {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("%d bounces with %d incident rays trace up to %d rays per sample, limit is %d",
				config.Bounces, config.IncidentRays, rays, maxRaysPerSample))
		return
	}

	renderID := s.nextRenderID()
	logger := NewWebLogger(renderID, s.console)
	logger.Printf("Using scene %s...\n", loaded.Name)

	// Use request context to stop rendering when the client disconnects
	img, stats, err := renderer.NewRenderer(loaded.Scene, config, logger).Render(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	rendered, err := img.ToImage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	if req.Format == "json" {
		writeJSON(w, http.StatusOK, RenderResponse{
			RenderID:  renderID,
			Scene:     loaded.ID,
			Width:     img.Width,
			Height:    img.Height,
			ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
			Stats: Stats{
				TotalPixels:      stats.TotalPixels,
				TotalSamples:     stats.TotalSamples,
				AverageSamples:   stats.AverageSamples,
				RaysTraced:       stats.RaysTraced,
				Tiles:            stats.Tiles,
				AverageLuminance: stats.AverageLuminance,
				ElapsedMs:        stats.Elapsed.Milliseconds(),
			},
		})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Id", renderID)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses and validates the query parameters of a render request
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene"), Format: values.Get("format")}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if err := checkSceneName(req.Scene); err != nil {
		return nil, err
	}
	switch req.Format {
	case "":
		req.Format = "png"
	case "png", "json":
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}

	var err error
	if req.Bounces, err = parseIntParam(values, "bounces", 0, 50); err != nil {
		return nil, err
	}
	if req.IncidentRays, err = parseIntParam(values, "incident", 1, 100); err != nil {
		return nil, err
	}
	if req.PrimaryRays, err = parseIntParam(values, "rays", 1, 10000); err != nil {
		return nil, err
	}
	if value := values.Get("seed"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = &seed
	}
	return req, nil
}

// config merges the request over the scene file settings over the renderer defaults
func (req *RenderRequest) config(settings loaders.RenderSettings) renderer.Config {
	config := renderer.DefaultConfig()
	pickInt(&config.Bounces, req.Bounces, settings.Bounces)
	pickInt(&config.IncidentRays, req.IncidentRays, settings.IncidentRays)
	pickInt(&config.PrimaryRays, req.PrimaryRays, settings.PrimaryRays)
	if req.Seed != nil {
		config.Seed = *req.Seed
	} else if settings.Seed != nil {
		config.Seed = *settings.Seed
	}
	return config
}

func pickInt(dst *int, candidates ...*int) {
	for _, c := range candidates {
		if c != nil {
			*dst = *c
			return
		}
	}
}

// parseIntParam parses an optional integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, min, max int) (*int, error) {
	value := values.Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return nil, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return &parsed, nil
}

// checkSceneName keeps clients to scene names; paths would reach outside the scenes directory
func checkSceneName(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".json") {
		return fmt.Errorf("scene must be a name, not a path: %q", name)
	}
	return nil
}

func sceneErrorStatus(err error) int {
	if errors.Is(err, loaders.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

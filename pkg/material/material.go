package material

import (
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Config describes a surface. EmittedColor and EmittedStrength are only read when Emits is set.
type Config struct {
	Color               Color   // Base color multiplied into rays that hit the surface
	Emits               bool    // Whether the surface is a light source
	EmittedColor        Color   // Color of the emitted light
	EmittedStrength     float64 // Multiplier applied to EmittedColor
	SpecularProbability float64 // Fraction of bounces that mirror-reflect, in [0, 1]
}

// Material is an immutable surface description attached to a primitive
type Material struct {
	Color               Color
	Emits               bool
	EmittedColor        Color
	EmittedStrength     float64
	SpecularProbability float64
}

// New validates cfg and creates a material
func New(cfg Config) (*Material, error) {
	channels := len(cfg.Color)
	if channels == 0 {
		return nil, fmt.Errorf("material color has no channels: %w", core.ErrConstruction)
	}
	if cfg.SpecularProbability < 0 || cfg.SpecularProbability > 1 {
		return nil, fmt.Errorf("specular probability %f outside [0, 1]: %w", cfg.SpecularProbability, core.ErrConstruction)
	}

	m := &Material{
		Color:               NewColor(cfg.Color...),
		Emits:               cfg.Emits,
		SpecularProbability: cfg.SpecularProbability,
	}

	if cfg.Emits {
		if len(cfg.EmittedColor) != channels {
			return nil, fmt.Errorf("emitted color has %d channels, material has %d: %w",
				len(cfg.EmittedColor), channels, core.ErrConstruction)
		}
		if cfg.EmittedStrength < 0 {
			return nil, fmt.Errorf("negative emitted strength %f: %w", cfg.EmittedStrength, core.ErrConstruction)
		}
		m.EmittedColor = NewColor(cfg.EmittedColor...)
		m.EmittedStrength = cfg.EmittedStrength
	}

	return m, nil
}

// NewDiffuse creates a non-emitting, purely diffuse material
func NewDiffuse(color Color) (*Material, error) {
	return New(Config{Color: color})
}

// NewLight creates an emitting material with the given base color
func NewLight(color, emitted Color, strength float64) (*Material, error) {
	return New(Config{Color: color, Emits: true, EmittedColor: emitted, EmittedStrength: strength})
}

// Channels returns the channel count of the material
func (m *Material) Channels() int {
	return len(m.Color)
}

// Emission returns EmittedColor * EmittedStrength, or black for non-emitting materials.
// The result is not rescaled.
func (m *Material) Emission() Color {
	out := Black(len(m.Color))
	if !m.Emits {
		return out
	}
	for i := range out {
		out[i] = m.EmittedColor[i] * m.EmittedStrength
	}
	return out
}

package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler provides random numbers for the integrator.
// *rand.Rand satisfies it, so each tile can own an independently seeded generator.
type Sampler interface {
	Float64() float64     // uniform in [0, 1)
	NormFloat64() float64 // standard normal
}

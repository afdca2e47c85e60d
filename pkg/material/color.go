package material

// Color is the light energy a ray carries, one value per channel.
//
// Every operation returns a fresh Color and finishes with Rescale, so results
// never exceed 1 in any channel. Operands must have the same channel count;
// constructors upstream (Material, Scene, Camera) enforce that.
type Color []float64

// NewColor creates a color from channel values
func NewColor(values ...float64) Color {
	c := make(Color, len(values))
	copy(c, values)
	return c
}

// Black returns an all-zero color with the given channel count
func Black(channels int) Color {
	return make(Color, channels)
}

// White returns an all-one color with the given channel count
func White(channels int) Color {
	c := make(Color, channels)
	for i := range c {
		c[i] = 1
	}
	return c
}

// Channels returns the number of channels
func (c Color) Channels() int {
	return len(c)
}

// Max returns the largest channel value, or 0 for an empty color
func (c Color) Max() float64 {
	if len(c) == 0 {
		return 0
	}
	m := c[0]
	for _, v := range c[1:] {
		m = max(m, v)
	}
	return m
}

// Rescale divides the color by its maximum channel when that maximum exceeds 1.
// Hue is preserved; energy is not.
func (c Color) Rescale() Color {
	out := NewColor(c...)
	if m := out.Max(); m > 1 {
		for i := range out {
			out[i] /= m
		}
	}
	return out
}

// Add returns c + other, rescaled
func (c Color) Add(other Color) Color {
	out := make(Color, len(c))
	for i := range c {
		out[i] = c[i] + other[i]
	}
	return out.Rescale()
}

// AddMaterial treats m as a tint and light source: c ⊙ m.Color + m.Emission(), rescaled
func (c Color) AddMaterial(m *Material) Color {
	emission := m.Emission()
	out := make(Color, len(c))
	for i := range c {
		out[i] = c[i]*m.Color[i] + emission[i]
	}
	return out.Rescale()
}

// AddScalar adds s to every channel, rescaled
func (c Color) AddScalar(s float64) Color {
	out := make(Color, len(c))
	for i := range c {
		out[i] = c[i] + s
	}
	return out.Rescale()
}

// Scale multiplies every channel by s, rescaled
func (c Color) Scale(s float64) Color {
	out := make(Color, len(c))
	for i := range c {
		out[i] = c[i] * s
	}
	return out.Rescale()
}

// Multiply returns the elementwise product c ⊙ other, rescaled
func (c Color) Multiply(other Color) Color {
	out := make(Color, len(c))
	for i := range c {
		out[i] = c[i] * other[i]
	}
	return out.Rescale()
}

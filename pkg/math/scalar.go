package math

import "github.com/chewxy/math32"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Damp returns the frame-rate independent blend factor 1 - base^dt.
// A base of 0.001 closes 99.9% of the gap per second.
func Damp(base, dt float32) float32 {
	return 1 - math32.Pow(base, dt)
}

// Color is a linear RGB triple in [0, 1].
type Color [3]float32

// Hex converts a 0xRRGGBB value to a Color.
func Hex(rgb uint32) Color {
	return Color{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// Lerp blends c towards other by t.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		Lerp(c[0], other[0], t),
		Lerp(c[1], other[1], t),
		Lerp(c[2], other[2], t),
	}
}

// Scale multiplies each channel by s.
func (c Color) Scale(s float32) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

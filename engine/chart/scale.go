// Package chart turns aggregated groups into renderable geometry for the
// dashboard's rendering surface. Builders are pure functions of
// (groups, mode, highlight); they never mutate their input and an empty
// input yields empty geometry, never an error.
package chart

import (
	"fmt"
	"math"
)

// NiceMax rounds max up to a tick-friendly boundary, so the y axis tops out
// on a round number the way d3's nice() does.
func NiceMax(max float64) float64 {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return 0
	}
	step := TickStep(max)
	return math.Ceil(max/step) * step
}

// TickStep picks a 1/2/5-scaled step that yields on the order of ten ticks
// over [0, max].
func TickStep(max float64) float64 {
	raw := max / 10
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch frac := raw / mag; {
	case frac >= 5:
		return 10 * mag
	case frac >= 2:
		return 5 * mag
	default:
		return 2 * mag
	}
}

// Ticks returns the axis tick values 0..NiceMax(max).
func Ticks(max float64) []float64 {
	top := NiceMax(max)
	if top == 0 {
		return []float64{0}
	}
	step := TickStep(max)
	var out []float64
	for v := 0.0; v <= top+step/2; v += step {
		out = append(out, v)
	}
	return out
}

// PowColorScale maps a metric onto a white-to-black ramp through a power
// curve. The exponent tunes the response: below 1 it compresses high
// outliers (a few huge regions stop washing out the rest), above 1 it
// spreads differences near the top.
type PowColorScale struct {
	Exponent float64
	Max      float64
}

// Color returns the fill for v as a #rrggbb grey. v at or below zero gets
// the zero-value color (white).
func (s PowColorScale) Color(v float64) string {
	if s.Max <= 0 || v <= 0 {
		return greyHex(0)
	}
	t := math.Pow(v/s.Max, s.Exponent)
	if t > 1 {
		t = 1
	}
	return greyHex(t)
}

// ZeroColor is the fill of a region with no matching records.
func (s PowColorScale) ZeroColor() string { return greyHex(0) }

func greyHex(t float64) string {
	g := int(math.Round(255 * (1 - t)))
	return fmt.Sprintf("#%02x%02x%02x", g, g, g)
}

// bandSlot returns the x offset and bar width for slot i of n across width,
// with the 0.2 band padding the bar charts share.
func bandSlot(i, n int, width float64) (x, w float64) {
	if n == 0 {
		return 0, 0
	}
	step := width / float64(n)
	return float64(i)*step + step*0.1, step * 0.8
}

// pointSlot returns the x position for point i of n across width, with half
// a step of outer padding on each side.
func pointSlot(i, n int, width float64) float64 {
	if n == 0 {
		return 0
	}
	step := width / float64(n)
	return (float64(i) + 0.5) * step
}

package chart

import (
	"slices"

	"github.com/AutoScopePT/autoscope-mvp/engine/aggregate"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// PointRadius is the marker size of line chart points.
const PointRadius = 4

// Point is one marker on the line, with its interaction payload.
type Point struct {
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Tooltip Tooltip `json:"tooltip"`
}

// LineChart is the renderable geometry of the bucketed line chart. Points
// run left to right in bucket order; XTicks is thinned to every other
// bucket so dense axes stay readable.
type LineChart struct {
	Title  string      `json:"title"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Mode   domain.Mode `json:"mode"`
	Points []Point     `json:"points"`
	XTicks []string    `json:"x_ticks"`
	YTicks []float64   `json:"y_ticks"`
	YMax   float64     `json:"y_max"`
}

// LineConfig sizes the line chart's plot area.
type LineConfig struct {
	Title  string
	Width  float64
	Height float64
}

// BuildLine renders bucketed groups as a line chart in ascending bucket
// order. A price-mode bucket with no price data contributes no point: the
// line skips it rather than dipping to a fabricated zero.
func BuildLine(groups []aggregate.Group, mode domain.Mode, cfg LineConfig) LineChart {
	groups = slices.Clone(groups)
	aggregate.SortByKeyAsc(groups)

	out := LineChart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Mode:   mode,
	}
	if len(groups) == 0 {
		return out
	}

	var max float64
	for _, g := range groups {
		if v, ok := aggregate.Metric(g, mode); ok && v > max {
			max = v
		}
	}
	out.YMax = NiceMax(max)
	out.YTicks = Ticks(max)

	for i, g := range groups {
		if i%2 == 0 {
			out.XTicks = append(out.XTicks, g.Key.Label)
		}
		v, ok := aggregate.Metric(g, mode)
		if !ok {
			continue
		}
		y := cfg.Height
		if out.YMax > 0 {
			y = cfg.Height - v/out.YMax*cfg.Height
		}
		out.Points = append(out.Points, Point{
			Label:   g.Key.Label,
			X:       pointSlot(i, len(groups), cfg.Width),
			Y:       y,
			Tooltip: tooltipFor(g),
		})
	}
	return out
}

package chart

import (
	"math"
	"slices"

	"github.com/AutoScopePT/autoscope-mvp/engine/aggregate"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// Bar colors shared by the bar charts.
const (
	BarColor         = "steelblue"
	SelectedBarColor = "#324ca8"
)

// Tooltip is the transient payload a rendering surface shows at the pointer
// while a bar, point, axis label, or map region is hovered.
type Tooltip struct {
	Label     string     `json:"label"`
	Count     int        `json:"count"`
	MeanPrice domain.Num `json:"mean_price"`
}

func tooltipFor(g aggregate.Group) Tooltip {
	tt := Tooltip{Label: g.Key.Label, Count: g.Count}
	if g.MeanPrice.Valid {
		tt.MeanPrice = domain.N(math.Round(g.MeanPrice.Float))
	}
	return tt
}

// Bar is one rendered bar with its interaction payload.
type Bar struct {
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Color    string  `json:"color"`
	Selected bool    `json:"selected"`
	Tooltip  Tooltip `json:"tooltip"`
}

// BarChart is the renderable geometry of one bar chart.
type BarChart struct {
	Title  string      `json:"title"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Mode   domain.Mode `json:"mode"`
	Bars   []Bar       `json:"bars"`
	XTicks []string    `json:"x_ticks"`
	YTicks []float64   `json:"y_ticks"`
	YMax   float64     `json:"y_max"`
}

// BarConfig sizes a bar chart's plot area.
type BarConfig struct {
	Title  string
	Width  float64
	Height float64
}

// BuildBars renders groups as a bar chart. The group matching highlight is
// pinned first and drawn in the selected color regardless of its metric;
// the rest sort descending by the active metric. A price-mode group with no
// price data renders as a zero-height bar that still carries its tooltip.
func BuildBars(groups []aggregate.Group, mode domain.Mode, highlight string, cfg BarConfig) BarChart {
	groups = slices.Clone(groups)
	aggregate.SortPinnedDesc(groups, highlight, mode)

	out := BarChart{
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
		x, w := bandSlot(i, len(groups), cfg.Width)
		b := Bar{
			Label:   g.Key.Label,
			X:       x,
			W:       w,
			Y:       cfg.Height,
			Color:   BarColor,
			Tooltip: tooltipFor(g),
		}
		if v, ok := aggregate.Metric(g, mode); ok && out.YMax > 0 {
			b.H = v / out.YMax * cfg.Height
			b.Y = cfg.Height - b.H
		}
		if highlight != "" && g.Key.Label == highlight {
			b.Selected = true
			b.Color = SelectedBarColor
		}
		out.Bars = append(out.Bars, b)
		out.XTicks = append(out.XTicks, g.Key.Label)
	}
	return out
}

package chart

import (
	"github.com/AutoScopePT/autoscope-mvp/engine/aggregate"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/engine/geo"
)

// Color curve exponents per metric. Count distributions have a long tail
// (Lisboa and Porto dwarf the interior districts), so the sub-1 exponent
// keeps small districts visible; price means cluster, so the above-1
// exponent spreads them.
const (
	CountExponent = 0.4
	PriceExponent = 1.2
)

// RegionFill is one map region with its fill and interaction payload.
// Regions with no matching records keep the scale's zero color and are not
// interactive: hovering shows nothing and clicking is a no-op.
type RegionFill struct {
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	Color       string     `json:"color"`
	Count       int        `json:"count"`
	MeanPrice   domain.Num `json:"mean_price"`
	Interactive bool       `json:"interactive"`
	Selected    bool       `json:"selected"`
	Tooltip     Tooltip    `json:"tooltip"`
}

// Choropleth is the renderable geometry of the district map.
type Choropleth struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Mode    domain.Mode  `json:"mode"`
	Regions []RegionFill `json:"regions"`
}

// ChoroplethConfig sizes the map viewport.
type ChoroplethConfig struct {
	Width  float64
	Height float64
}

// BuildChoropleth joins city-aggregated groups against the district
// geometry by canonical name and colors each district through the power
// scale for the active metric. Geometry names with no matching dataset rows
// fall out as zero-count, non-interactive regions rather than errors.
func BuildChoropleth(groups []aggregate.Group, regions []geo.Region, mode domain.Mode, selected string, cfg ChoroplethConfig) Choropleth {
	byKey := make(map[string]aggregate.Group, len(groups))
	for _, g := range groups {
		byKey[geo.Canonical(g.Key.Label)] = g
	}

	var max float64
	for _, g := range groups {
		if v, ok := aggregate.Metric(g, mode); ok && v > max {
			max = v
		}
	}
	exp := CountExponent
	if mode == domain.ModeAveragePrice {
		exp = PriceExponent
	}
	scale := PowColorScale{Exponent: exp, Max: max}

	out := Choropleth{Width: cfg.Width, Height: cfg.Height, Mode: mode}
	selKey := geo.Canonical(selected)
	for _, r := range regions {
		fill := RegionFill{
			Name:  r.Name,
			Path:  r.Path,
			Color: scale.ZeroColor(),
		}
		if g, ok := byKey[r.Key]; ok && g.Count > 0 {
			fill.Count = g.Count
			fill.MeanPrice = g.MeanPrice
			fill.Interactive = true
			fill.Selected = selected != "" && r.Key == selKey
			fill.Tooltip = tooltipFor(g)
			fill.Tooltip.Label = r.Name
			if v, ok := aggregate.Metric(g, mode); ok {
				fill.Color = scale.Color(v)
			}
		}
		out.Regions = append(out.Regions, fill)
	}
	return out
}

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/AutoScopePT/autoscope-mvp/engine/aggregate"
	"github.com/AutoScopePT/autoscope-mvp/engine/chart"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/engine/filter"
	"github.com/AutoScopePT/autoscope-mvp/engine/ingest"
	"github.com/AutoScopePT/autoscope-mvp/pkg/fn"
	"github.com/AutoScopePT/autoscope-mvp/pkg/metrics"
)

// Viewport sizes, matching the layout the rendering surface draws.
const (
	MapWidth      = 400
	MapHeight     = 600
	regionsWidth  = 600
	regionsHeight = 560
	chartWidth    = 600
	chartHeight   = 360
)

// View is one immutable snapshot of everything the rendering surface
// draws. It is recomputed from scratch on every state change; at this
// dataset scale recomputation is cheaper than cache invalidation, which is
// a deliberate scope decision.
type View struct {
	State       filter.State     `json:"state"`
	Brands      []string         `json:"brands"`
	Map         chart.Choropleth `json:"map"`
	Regions     chart.BarChart   `json:"regions"`
	Category    chart.BarChart   `json:"category"`
	Line        chart.LineChart  `json:"line"`
	ModalRegion string           `json:"modal_region,omitempty"`
	Report      ingest.Report    `json:"report"`
}

// Snapshot derives the full dashboard view. Two narrowing depths are
// intentional: the map and region-breakdown chart see the brand-narrowed
// set so every region keeps its relative standing under a brand filter,
// while the category and line charts see the fully narrowed set.
func (c *Controller) Snapshot() (View, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.ready(); err != nil {
		return View{}, err
	}

	start := time.Now()
	state := c.state

	brandSet := filter.Narrow(c.listings, state.BrandOnly())
	fullSet := filter.Narrow(c.listings, state)

	cityGroups := aggregate.Aggregate(brandSet, domain.ColCity, nil)
	categoryGroups := aggregate.Aggregate(fullSet, state.CategoryColumn, aggregate.ForColumn(state.CategoryColumn))
	lineGroups := aggregate.Aggregate(fullSet, state.LineColumn, aggregate.ForColumn(state.LineColumn))

	place := state.Region
	if place == filter.All {
		place = "Portugal"
	}

	charts := fn.FanOut(
		func() any {
			return chart.BuildChoropleth(cityGroups, c.regions, state.Mode, state.Region,
				chart.ChoroplethConfig{Width: MapWidth, Height: MapHeight})
		},
		func() any {
			return chart.BuildBars(cityGroups, state.Mode, state.Region,
				chart.BarConfig{Title: "Data Across Regions", Width: regionsWidth, Height: regionsHeight})
		},
		func() any {
			return chart.BuildBars(categoryGroups, state.Mode, "",
				chart.BarConfig{
					Title:  fmt.Sprintf("%s by %s for %s", modeLabel(state.Mode), columnLabel(state.CategoryColumn), place),
					Width:  chartWidth,
					Height: chartHeight,
				})
		},
		func() any {
			return chart.BuildLine(lineGroups, state.Mode,
				chart.LineConfig{
					Title:  fmt.Sprintf("%s by %s for %s", modeLabel(state.Mode), columnLabel(state.LineColumn), place),
					Width:  chartWidth,
					Height: chartHeight,
				})
		},
	)

	view := View{
		State:       state,
		Brands:      filter.Brands(c.listings),
		Map:         charts[0].(chart.Choropleth),
		Regions:     charts[1].(chart.BarChart),
		Category:    charts[2].(chart.BarChart),
		Line:        charts[3].(chart.LineChart),
		ModalRegion: c.modalRegion,
		Report:      c.report,
	}

	if c.reg != nil {
		c.reg.Counter("dashboard_recompute_total", "view snapshots computed").Inc()
		c.reg.Histogram("dashboard_recompute_seconds", "view snapshot latency", metrics.DefaultBuckets).Since(start)
	}
	return view, nil
}

// Listings returns the modal content: listings in the modal's region under
// the current brand filter, with an optional case-insensitive title search.
// An empty slice when no modal is open.
func (c *Controller) Listings(q string) []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.modalRegion == "" || c.ready() != nil {
		return nil
	}
	scope := c.state
	scope.Region = c.modalRegion
	q = strings.ToLower(q)
	return fn.Filter(filter.Narrow(c.listings, scope), func(l domain.Listing) bool {
		return q == "" || strings.Contains(strings.ToLower(l.Title), q)
	})
}

func modeLabel(m domain.Mode) string {
	if m == domain.ModeAveragePrice {
		return "Average Price"
	}
	return "Listings"
}

func columnLabel(col domain.ColumnKey) string {
	switch col {
	case domain.ColSeller:
		return "Seller"
	case domain.ColGasType:
		return "Gas Type"
	case domain.ColGearBox:
		return "Gear Box"
	case domain.ColBrand:
		return "Brand"
	case domain.ColYear:
		return "Year"
	case domain.ColKilometer:
		return "Kilometer"
	case domain.ColHorsepower:
		return "Horsepower"
	case domain.ColEngineSize:
		return "Engine Size"
	}
	return string(col)
}

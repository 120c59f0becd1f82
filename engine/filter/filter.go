// Package filter holds the user-controlled selector state and the pure
// narrowing function that derives a working subset of the dataset.
package filter

import (
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/pkg/fn"
)

// All is the sentinel for an unset region or brand selector.
const All = ""

// State is the full set of orthogonal selectors. Region and Brand are
// either a value observed in the dataset or All. CategoryColumn and
// LineColumn are the active grouping dimensions of the two column-selectable
// charts. State is a value type; the dashboard controller owns the single
// mutable instance.
type State struct {
	Region         string           `json:"region"`
	Brand          string           `json:"brand"`
	Mode           domain.Mode      `json:"mode"`
	CategoryColumn domain.ColumnKey `json:"category_column"`
	LineColumn     domain.ColumnKey `json:"line_column"`
}

// Default is the state the dashboard opens with: everything unfiltered,
// counting listings, category chart by seller, line chart by kilometers.
func Default() State {
	return State{
		Region:         All,
		Brand:          All,
		Mode:           domain.ModeListings,
		CategoryColumn: domain.ColSeller,
		LineColumn:     domain.ColKilometer,
	}
}

// Matches reports whether l passes the region and brand selectors.
func (s State) Matches(l domain.Listing) bool {
	if s.Region != All && l.City != s.Region {
		return false
	}
	if s.Brand != All && l.Brand != s.Brand {
		return false
	}
	return true
}

// BrandOnly returns a copy of s with the region selector cleared. The map
// and region-breakdown charts narrow by brand only, so every region keeps
// its relative standing while a brand filter is applied.
func (s State) BrandOnly() State {
	s.Region = All
	return s
}

// Narrow returns the listings passing s, preserving input order. It is a
// stable filter, never a sort, and is idempotent by construction.
func Narrow(listings []domain.Listing, s State) []domain.Listing {
	return fn.Filter(listings, s.Matches)
}

// Brands returns the distinct brands of the dataset in first-seen order,
// for the brand selector dropdown.
func Brands(listings []domain.Listing) []string {
	return fn.Map(
		fn.UniqueBy(listings, func(l domain.Listing) string { return l.Brand }),
		func(l domain.Listing) string { return l.Brand },
	)
}

package aggregate

import (
	"math"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// Bucketer maps a continuous value onto its bucket representative before
// grouping, so line and bar charts keep a tractable number of buckets.
type Bucketer func(float64) float64

// RoundToNearest buckets to the nearest multiple of width.
func RoundToNearest(width float64) Bucketer {
	return func(v float64) float64 {
		return math.Round(v/width) * width
	}
}

// Bucket widths are fixed by domain knowledge, not user-configurable.
// Year stays unbucketed: each distinct year is its own group.
var bucketWidths = map[domain.ColumnKey]float64{
	domain.ColKilometer:  10000,
	domain.ColHorsepower: 10,
	domain.ColEngineSize: 100,
}

// ForColumn returns the standard bucketer for a column, or nil when the
// column groups on raw values.
func ForColumn(col domain.ColumnKey) Bucketer {
	w, ok := bucketWidths[col]
	if !ok {
		return nil
	}
	return RoundToNearest(w)
}

// Package aggregate collapses a filtered listing subset into per-group
// summary rows. Every chart reuses the same engine with a different grouping
// column, bucketing rule, and sort policy.
package aggregate

import (
	"strconv"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// Key identifies one group. Continuous columns carry the bucketed value so
// callers can order buckets numerically; discrete columns order by label.
type Key struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value,omitempty"`
	Numeric bool    `json:"numeric,omitempty"`
}

// DiscreteKey builds a label key.
func DiscreteKey(label string) Key { return Key{Label: label} }

// NumericKey builds a bucketed-value key.
func NumericKey(v float64) Key {
	return Key{Label: strconv.FormatFloat(v, 'f', -1, 64), Value: v, Numeric: true}
}

// Group is one summary row. MeanPrice is not available when every record in
// the group lacks a price; price-based charts render such groups as "no
// price data", never crash.
type Group struct {
	Key       Key        `json:"key"`
	Count     int        `json:"count"`
	MeanPrice domain.Num `json:"mean_price"`
}

// Aggregate partitions listings by the given column, bucketing continuous
// values through b first when b is non-nil, and emits one Group per distinct
// key in first-seen order. Records whose continuous value is not available
// are excluded entirely (they must not collapse into bucket zero). The
// engine makes no ordering promise beyond determinism; callers apply a sort
// policy.
func Aggregate(listings []domain.Listing, col domain.ColumnKey, b Bucketer) []Group {
	type acc struct {
		count    int
		priceSum float64
		priced   int
	}

	var order []Key
	accs := make(map[Key]*acc)

	observe := func(k Key, l domain.Listing) {
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
			order = append(order, k)
		}
		a.count++
		if l.Price.Valid {
			a.priceSum += l.Price.Float
			a.priced++
		}
	}

	for _, l := range listings {
		switch col.Kind() {
		case domain.KindDiscrete:
			observe(DiscreteKey(col.Discrete(l)), l)
		case domain.KindContinuous:
			v, ok := col.Continuous(l)
			if !ok {
				continue
			}
			if b != nil {
				v = b(v)
			}
			observe(NumericKey(v), l)
		}
	}

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		a := accs[k]
		g := Group{Key: k, Count: a.count}
		if a.priced > 0 {
			g.MeanPrice = domain.N(a.priceSum / float64(a.priced))
		}
		groups = append(groups, g)
	}
	return groups
}

// Metric returns the value a group contributes to the active metric axis.
// ok is false for a price-mode group with no price data.
func Metric(g Group, mode domain.Mode) (v float64, ok bool) {
	if mode == domain.ModeAveragePrice {
		return g.MeanPrice.Float, g.MeanPrice.Valid
	}
	return float64(g.Count), true
}

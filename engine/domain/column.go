package domain

// ColumnKey names a listing column a chart may group by. Grouping goes
// through the typed accessors below, never through free-form string
// indexing into a record.
type ColumnKey string

const (
	ColBrand      ColumnKey = "brand"
	ColCity       ColumnKey = "city"
	ColSeller     ColumnKey = "seller"
	ColGasType    ColumnKey = "gas_type"
	ColGearBox    ColumnKey = "gear_box"
	ColYear       ColumnKey = "year"
	ColKilometer  ColumnKey = "kilometer"
	ColHorsepower ColumnKey = "horsepower"
	ColEngineSize ColumnKey = "engine_size"
)

// ColumnKind separates columns whose values are category labels from
// columns whose values are measurements that get bucketed before grouping.
type ColumnKind int

const (
	KindDiscrete ColumnKind = iota
	KindContinuous
)

var columnKinds = map[ColumnKey]ColumnKind{
	ColBrand:      KindDiscrete,
	ColCity:       KindDiscrete,
	ColSeller:     KindDiscrete,
	ColGasType:    KindDiscrete,
	ColGearBox:    KindDiscrete,
	ColYear:       KindContinuous,
	ColKilometer:  KindContinuous,
	ColHorsepower: KindContinuous,
	ColEngineSize: KindContinuous,
}

// Valid reports whether c is a recognised column.
func (c ColumnKey) Valid() bool {
	_, ok := columnKinds[c]
	return ok
}

// Kind returns the column kind. Unknown columns are treated as discrete;
// callers should have validated with Valid first.
func (c ColumnKey) Kind() ColumnKind {
	return columnKinds[c]
}

// Discrete returns the label value of a discrete column.
func (c ColumnKey) Discrete(l Listing) string {
	switch c {
	case ColBrand:
		return l.Brand
	case ColCity:
		return l.City
	case ColSeller:
		return l.Seller
	case ColGasType:
		return l.GasType
	case ColGearBox:
		return l.GearBox
	}
	return ""
}

// Continuous returns the measurement of a continuous column. ok is false
// when the value is not available; such records are excluded from any
// aggregation over this column.
func (c ColumnKey) Continuous(l Listing) (v float64, ok bool) {
	var n Num
	switch c {
	case ColYear:
		n = l.Year
	case ColKilometer:
		n = l.Kilometer
	case ColHorsepower:
		n = l.Horsepower
	case ColEngineSize:
		n = l.EngineSize
	default:
		return 0, false
	}
	return n.Float, n.Valid
}

// CategoryColumns are the dimensions the category bar chart may group by.
var CategoryColumns = []ColumnKey{ColSeller, ColGasType, ColGearBox, ColBrand, ColYear}

// LineColumns are the continuous dimensions the line chart may group by.
var LineColumns = []ColumnKey{ColKilometer, ColHorsepower, ColEngineSize, ColYear}

// ColumnIn reports whether c is in the given set.
func ColumnIn(c ColumnKey, set []ColumnKey) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

// Package geo loads the district geometry the choropleth renders and owns
// the canonical form of region names. The dataset's city strings and the
// geometry's district names come from different sources, so both sides of
// the join are normalized (Unicode-decomposed, accent-stripped, case-folded)
// before matching; an exact string join would silently zero out any region
// whose spelling differs.
package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonical returns the join key for a region or city name: accents
// stripped, case folded, surrounding space trimmed. "Évora" and " evora "
// canonicalize to the same key.
func Canonical(name string) string {
	s, _, err := transform.String(foldTransformer, name)
	if err != nil {
		s = name
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Region is one named district shape, projected into pixel space as an SVG
// path. Key is the canonical join key for matching dataset cities.
type Region struct {
	Name string `json:"name"`
	Key  string `json:"-"`
	Path string `json:"path"`
}

// feature mirrors the subset of GeoJSON the district file uses.
type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

// Load parses a GeoJSON feature collection and projects every district into
// a width x height viewport with a fitted Mercator projection. Features
// without a recognisable name property are dropped.
func Load(r io.Reader, width, height float64) ([]Region, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	type shaped struct {
		name  string
		rings [][][2]float64
	}
	var shapes []shaped

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, f := range fc.Features {
		name := featureName(f.Properties)
		if name == "" {
			continue
		}
		rings, err := decodeRings(f.Geometry.Type, f.Geometry.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("decode geometry %q: %w", name, err)
		}
		for ri, ring := range rings {
			for pi, pt := range ring {
				x, y := mercator(pt[0], pt[1])
				rings[ri][pi] = [2]float64{x, y}
				minX, maxX = math.Min(minX, x), math.Max(maxX, x)
				minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			}
		}
		shapes = append(shapes, shaped{name: name, rings: rings})
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("decode geometry: no named features")
	}

	// Uniform scale fitting the projected bounding box into the viewport.
	scale := math.Min(width/(maxX-minX), height/(maxY-minY))
	regions := make([]Region, 0, len(shapes))
	for _, s := range shapes {
		var b strings.Builder
		for _, ring := range s.rings {
			for i, pt := range ring {
				cmd := byte('L')
				if i == 0 {
					cmd = 'M'
				}
				fmt.Fprintf(&b, "%c%.1f,%.1f", cmd, (pt[0]-minX)*scale, (pt[1]-minY)*scale)
			}
			b.WriteByte('Z')
		}
		regions = append(regions, Region{Name: s.name, Key: Canonical(s.name), Path: b.String()})
	}
	return regions, nil
}

// featureName picks the district name out of the feature properties. The
// district file uses NAME_1.
func featureName(props map[string]any) string {
	for _, key := range []string{"NAME_1", "name", "NAME"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func decodeRings(geomType string, raw json.RawMessage) ([][][2]float64, error) {
	switch geomType {
	case "Polygon":
		var poly [][][2]float64
		if err := json.Unmarshal(raw, &poly); err != nil {
			return nil, err
		}
		return poly, nil
	case "MultiPolygon":
		var multi [][][][2]float64
		if err := json.Unmarshal(raw, &multi); err != nil {
			return nil, err
		}
		var rings [][][2]float64
		for _, poly := range multi {
			rings = append(rings, poly...)
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", geomType)
	}
}

// mercator projects lon/lat degrees onto the plane, y growing downward so
// north renders at the top of the viewport.
func mercator(lon, lat float64) (x, y float64) {
	x = lon * math.Pi / 180
	phi := lat * math.Pi / 180
	y = -math.Log(math.Tan(math.Pi/4 + phi/2))
	return x, y
}

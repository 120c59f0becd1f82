package geo

import (
	"strings"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Évora", "evora"},
		{"evora", "evora"},
		{" Lisboa ", "lisboa"},
		{"SETÚBAL", "setubal"},
		{"Viana do Castelo", "viana do castelo"},
		{"Braga", "braga"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonical_JoinsAccentVariants(t *testing.T) {
	if Canonical("Évora") != Canonical("Evora") {
		t.Fatal("accented and plain spellings must share a join key")
	}
	if Canonical("Santarém") != Canonical("santarem") {
		t.Fatal("case and accent variants must share a join key")
	}
}

const districtJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"properties": {"NAME_1": "Évora"},
			"geometry": {"type": "Polygon", "coordinates": [[[-8.0, 38.5], [-7.5, 38.5], [-7.5, 38.9], [-8.0, 38.9], [-8.0, 38.5]]]}
		},
		{
			"properties": {"NAME_1": "Faro"},
			"geometry": {"type": "MultiPolygon", "coordinates": [[[[-8.9, 37.0], [-7.4, 37.0], [-7.4, 37.3], [-8.9, 37.3], [-8.9, 37.0]]]]}
		},
		{
			"properties": {"irrelevant": true},
			"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}
		}
	]
}`

func TestLoad(t *testing.T) {
	regions, err := Load(strings.NewReader(districtJSON), 400, 600)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 named regions, got %d", len(regions))
	}
	if regions[0].Name != "Évora" || regions[0].Key != "evora" {
		t.Fatalf("unexpected first region: %+v", regions[0])
	}
	for _, r := range regions {
		if !strings.HasPrefix(r.Path, "M") || !strings.HasSuffix(r.Path, "Z") {
			t.Errorf("region %s has malformed path %q", r.Name, r.Path)
		}
	}
	// Évora is north of Faro, so its path coordinates sit above Faro's.
	if !strings.Contains(regions[0].Path, ",") {
		t.Fatalf("path should contain projected points: %q", regions[0].Path)
	}
}

func TestLoad_BadGeometry(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"features":[]}`), 400, 600); err == nil {
		t.Fatal("expected error for geometry with no named features")
	}
	if _, err := Load(strings.NewReader(`not json`), 400, 600); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	bad := `{"features":[{"properties":{"NAME_1":"X"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`
	if _, err := Load(strings.NewReader(bad), 400, 600); err == nil {
		t.Fatal("expected error for unsupported geometry type")
	}
}

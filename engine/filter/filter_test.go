package filter

import (
	"reflect"
	"testing"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

func listing(city, brand, title string) domain.Listing {
	return domain.Listing{City: city, Brand: brand, Title: title, Price: domain.N(10000)}
}

func dataset() []domain.Listing {
	return []domain.Listing{
		listing("Lisboa", "Renault", "Clio"),
		listing("Porto", "Peugeot", "208"),
		listing("Lisboa", "Peugeot", "308"),
		listing("Faro", "Renault", "Megane"),
	}
}

func TestNarrow_Region(t *testing.T) {
	got := Narrow(dataset(), State{Region: "Lisboa"})
	if len(got) != 2 || got[0].Title != "Clio" || got[1].Title != "308" {
		t.Fatalf("unexpected narrow result: %+v", got)
	}
}

func TestNarrow_RegionAndBrand(t *testing.T) {
	got := Narrow(dataset(), State{Region: "Lisboa", Brand: "Peugeot"})
	if len(got) != 1 || got[0].Title != "308" {
		t.Fatalf("unexpected narrow result: %+v", got)
	}
}

func TestNarrow_AllPassesEverything(t *testing.T) {
	ds := dataset()
	got := Narrow(ds, State{})
	if !reflect.DeepEqual(got, ds) {
		t.Fatal("unfiltered narrow must return the full set in order")
	}
}

func TestNarrow_Idempotent(t *testing.T) {
	states := []State{
		{},
		{Region: "Lisboa"},
		{Brand: "Renault"},
		{Region: "Porto", Brand: "Peugeot"},
		{Region: "Braga"}, // no matches
	}
	for _, s := range states {
		once := Narrow(dataset(), s)
		twice := Narrow(once, s)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("narrow not idempotent for %+v: %v vs %v", s, once, twice)
		}
	}
}

func TestNarrow_PreservesOrder(t *testing.T) {
	got := Narrow(dataset(), State{Brand: "Renault"})
	if len(got) != 2 || got[0].City != "Lisboa" || got[1].City != "Faro" {
		t.Fatalf("narrow must preserve input order, got %+v", got)
	}
}

func TestBrandOnly(t *testing.T) {
	s := State{Region: "Porto", Brand: "Peugeot", Mode: domain.ModeAveragePrice}
	b := s.BrandOnly()
	if b.Region != All || b.Brand != "Peugeot" || b.Mode != domain.ModeAveragePrice {
		t.Fatalf("BrandOnly should clear only the region: %+v", b)
	}
	if s.Region != "Porto" {
		t.Fatal("BrandOnly must not mutate the receiver")
	}
}

func TestBrands_DistinctFirstSeen(t *testing.T) {
	got := Brands(dataset())
	want := []string{"Renault", "Peugeot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.Region != All || d.Brand != All {
		t.Fatal("default state must be unfiltered")
	}
	if d.Mode != domain.ModeListings {
		t.Fatal("default mode must be listings")
	}
	if d.CategoryColumn != domain.ColSeller || d.LineColumn != domain.ColKilometer {
		t.Fatalf("unexpected default columns: %+v", d)
	}
}

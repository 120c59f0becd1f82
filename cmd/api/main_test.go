package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AutoScopePT/autoscope-mvp/engine/dashboard"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/engine/geo"
	"github.com/AutoScopePT/autoscope-mvp/engine/ingest"
)

func testController(t *testing.T) *dashboard.Controller {
	t.Helper()
	regions := []geo.Region{
		{Name: "Lisboa", Key: geo.Canonical("Lisboa"), Path: "M0 0L1 0L1 1Z"},
		{Name: "Porto", Key: geo.Canonical("Porto"), Path: "M2 0L3 0L3 1Z"},
	}
	c := dashboard.New(regions, dashboard.Options{})
	c.SetDataset(ingest.Dataset{
		Listings: []domain.Listing{
			{Brand: "Renault", City: "Lisboa", Title: "Renault Clio", Price: domain.N(9000), Seller: "Dealer"},
			{Brand: "Peugeot", City: "Porto", Title: "Peugeot 208", Price: domain.N(11000), Seller: "Private"},
		},
		Report: ingest.Report{Rows: 2, Kept: 2},
	})
	return c
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestHandleDashboard(t *testing.T) {
	ctrl := testController(t)
	rec := httptest.NewRecorder()
	handleDashboard(ctrl, discardLogger())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var view dashboard.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.State.Mode != domain.ModeListings {
		t.Errorf("mode = %q, want listings", view.State.Mode)
	}
	if len(view.Brands) != 2 {
		t.Errorf("brands = %v, want 2", view.Brands)
	}
}

func TestHandleDashboardLoading(t *testing.T) {
	ctrl := dashboard.New(nil, dashboard.Options{})
	rec := httptest.NewRecorder()
	handleDashboard(ctrl, discardLogger())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleEvent(t *testing.T) {
	ctrl := testController(t)
	h := handleEvent(ctrl, discardLogger())

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body)))
		return rec
	}

	if rec := post(`{"type":"set_brand","target":"Renault"}`); rec.Code != http.StatusOK {
		t.Fatalf("set_brand status = %d: %s", rec.Code, rec.Body)
	}
	if got := ctrl.State().Brand; got != "Renault" {
		t.Errorf("brand = %q, want Renault", got)
	}

	if rec := post(`{"type":"set_brand","target":"Lada"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown brand status = %d, want 422", rec.Code)
	}
	if rec := post(`{"type":"set_mode","target":"median_price"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown mode status = %d, want 422", rec.Code)
	}
	if rec := post(`{"type":"warp"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}
	if rec := post(`{`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	if rec := post(`{"type":"click_region","target":"Lisboa"}`); rec.Code != http.StatusOK {
		t.Fatalf("click_region status = %d", rec.Code)
	}
	if got := ctrl.State().Region; got != "Lisboa" {
		t.Errorf("region = %q, want Lisboa", got)
	}

	// The response carries the post-interaction view.
	rec := post(`{"type":"set_mode","target":"average_price"}`)
	var view dashboard.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.State.Mode != domain.ModeAveragePrice {
		t.Errorf("returned mode = %q, want average_price", view.State.Mode)
	}
}

func TestHandleListings(t *testing.T) {
	ctrl := testController(t)
	h := handleListings(ctrl)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))
	var resp ListingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Listings) != 0 {
		t.Errorf("listings with no modal = %d, want 0", len(resp.Listings))
	}

	if err := ctrl.OpenListings("Lisboa"); err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/listings?q=clio", nil))
	resp = ListingsResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Listings) != 1 || resp.Listings[0].Title != "Renault Clio" {
		t.Errorf("listings = %+v, want the Clio", resp.Listings)
	}
	if resp.Query != "clio" {
		t.Errorf("query echoed = %q", resp.Query)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATASET_URL", "https://example.org/cars.csv")
	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want default 8080", cfg.Port)
	}
	if cfg.DatasetURL != "https://example.org/cars.csv" {
		t.Errorf("dataset url = %q", cfg.DatasetURL)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("cors origin = %q, want *", cfg.CORSOrigin)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

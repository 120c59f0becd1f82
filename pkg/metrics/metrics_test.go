package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndGauge(t *testing.T) {
	r := New()
	c := r.Counter("rows_total", "rows seen")
	c.Inc()
	c.Add(2)
	if c.Value() != 3 {
		t.Fatalf("expected 3, got %d", c.Value())
	}

	g := r.Gauge("dataset_size", "listings loaded")
	g.Set(100)
	g.Inc()
	g.Dec()
	if g.Value() != 100 {
		t.Fatalf("expected 100, got %d", g.Value())
	}
}

func TestSameNameReturnsSameMetric(t *testing.T) {
	r := New()
	if r.Counter("x", "") != r.Counter("x", "") {
		t.Fatal("same name must return the same counter")
	}
}

func TestLabeledSeries(t *testing.T) {
	r := New()
	r.Counter(WithLabels("events_total", "type", "click_region"), "events").Inc()
	r.Counter(WithLabels("events_total", "type", "set_brand"), "events").Add(2)

	out := r.Render()
	if !strings.Contains(out, `events_total{type="click_region"} 1`) {
		t.Fatalf("missing labeled series:\n%s", out)
	}
	if !strings.Contains(out, `events_total{type="set_brand"} 2`) {
		t.Fatalf("missing labeled series:\n%s", out)
	}
	if strings.Count(out, "# TYPE events_total counter") != 1 {
		t.Fatalf("labeled series must share one TYPE line:\n%s", out)
	}
}

func TestHistogramRender(t *testing.T) {
	r := New()
	h := r.Histogram("recompute_seconds", "recompute latency", []float64{0.01, 0.1, 1})
	h.Observe(0.005)
	h.Observe(0.05)
	h.Observe(5)

	out := r.Render()
	for _, want := range []string{
		`recompute_seconds_bucket{le="0.01"} 1`,
		`recompute_seconds_bucket{le="0.1"} 2`,
		`recompute_seconds_bucket{le="1"} 2`,
		`recompute_seconds_bucket{le="+Inf"} 3`,
		`recompute_seconds_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("ok_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok_total 1") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// Package ingest turns the published listings CSV into the typed dataset
// the dashboard aggregates over. The dataset loads once at startup through
// a fetch → parse → normalize pipeline; a NATS reload event re-runs it.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/pkg/fn"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Sentinel errors for the ingest failure taxonomy. Any of these leaves the
// dashboard without a dataset; a partial dataset is never produced.
var (
	ErrFetch = errors.New("dataset fetch failed")
	ErrParse = errors.New("dataset parse failed")
)

// Dataset is the immutable result of one ingest run.
type Dataset struct {
	Listings []domain.Listing `json:"-"`
	Report   Report           `json:"report"`
	LoadedAt time.Time        `json:"loaded_at"`
}

// Fetcher retrieves the raw CSV bytes over HTTP with retry and a polite
// request rate.
type Fetcher struct {
	Client  *http.Client
	Limiter *rate.Limiter
	Retry   fn.RetryOpts
}

// NewFetcher builds a Fetcher with traced transport and default retry.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Limiter: rate.NewLimiter(rate.Limit(1), 2),
		Retry:   fn.DefaultRetry,
	}
}

// Fetch GETs the dataset and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	r := fn.Retry(ctx, f.Retry, func(ctx context.Context) fn.Result[[]byte] {
		if err := f.Limiter.Wait(ctx); err != nil {
			return fn.Err[[]byte](err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fn.Err[[]byte](err)
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return fn.Err[[]byte](err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fn.Errf[[]byte]("unexpected status %d", resp.StatusCode)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			return fn.Err[[]byte](err)
		}
		return fn.Ok(buf.Bytes())
	})
	body, err := r.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	return body, nil
}

// --- Pipeline stages ---

// Parse decodes CSV bytes into raw rows.
var Parse fn.Stage[[]byte, []RawRow] = func(_ context.Context, body []byte) fn.Result[[]RawRow] {
	return fn.FromPair(ParseCSV(bytes.NewReader(body)))
}

// NormalizeStage turns raw rows into a Dataset.
var NormalizeStage fn.Stage[[]RawRow, Dataset] = fn.MapStage(func(rows []RawRow) Dataset {
	listings, rep := Normalize(rows)
	return Dataset{Listings: listings, Report: rep, LoadedAt: time.Now().UTC()}
})

// NewPipeline composes the fetch, parse and normalize stages with tracing
// spans around each.
func NewPipeline(f *Fetcher) fn.Stage[string, Dataset] {
	fetch := fn.TracedStage("ingest.fetch", func(ctx context.Context, url string) fn.Result[[]byte] {
		return fn.FromPair(f.Fetch(ctx, url))
	})
	return fn.Then(fetch, fn.Then(
		fn.TracedStage("ingest.parse", Parse),
		fn.TracedStage("ingest.normalize", NormalizeStage),
	))
}

// Load runs a full ingest from an http(s) URL or a local file path.
func Load(ctx context.Context, f *Fetcher, source string) (Dataset, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewPipeline(f)(ctx, source).Unwrap()
	}
	body, err := os.ReadFile(source)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %w", ErrFetch, source, err)
	}
	return fn.Then(
		fn.TracedStage("ingest.parse", Parse),
		fn.TracedStage("ingest.normalize", NormalizeStage),
	)(ctx, body).Unwrap()
}

// Package dashboard owns the filter state and the ingested dataset, and
// derives every chart view from them. It is the single writer: chart
// consumers get immutable snapshots and send change intents back as events,
// so the update flow stays race-free by construction.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AutoScopePT/autoscope-mvp/engine/aggregate"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/engine/filter"
	"github.com/AutoScopePT/autoscope-mvp/engine/geo"
	"github.com/AutoScopePT/autoscope-mvp/engine/ingest"
	"github.com/AutoScopePT/autoscope-mvp/pkg/metrics"
	"github.com/nats-io/nats.go"
)

// Phase is the dataset lifecycle. No chart renders before Ready; an ingest
// failure blocks the whole dashboard rather than showing a partial dataset.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Dashboard readiness errors.
var (
	ErrLoading      = errors.New("dataset still loading")
	ErrLoadFailed   = errors.New("dataset load failed")
	ErrUnknownBrand = errors.New("unknown brand")
)

// Options configures optional controller collaborators.
type Options struct {
	Logger  *slog.Logger
	Conn    *nats.Conn        // event bus; nil disables publishing
	Metrics *metrics.Registry // nil disables instrumentation
}

// Controller is the selection/navigation controller: the one owner of the
// mutable FilterState and dataset.
type Controller struct {
	log     *slog.Logger
	nc      *nats.Conn
	reg     *metrics.Registry
	regions []geo.Region

	mu          sync.RWMutex
	phase       Phase
	loadErr     error
	listings    []domain.Listing
	report      ingest.Report
	state       filter.State
	modalRegion string // region of the open listings modal, "" when closed
}

// New creates a loading-phase controller over the given district geometry.
func New(regions []geo.Region, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		log:     log,
		nc:      opts.Conn,
		reg:     opts.Metrics,
		regions: regions,
		phase:   PhaseLoading,
		state:   filter.Default(),
	}
}

// StartLoad runs the one-shot dataset ingest in the background. The
// dashboard stays in the loading phase until it resolves.
func (c *Controller) StartLoad(ctx context.Context, f *ingest.Fetcher, source string) {
	go c.load(ctx, f, source)
}

// Reload re-runs the ingest synchronously; the NATS reload consumer calls
// this. The current dataset keeps serving until the new one lands.
func (c *Controller) Reload(ctx context.Context, f *ingest.Fetcher, source string) {
	c.load(ctx, f, source)
}

func (c *Controller) load(ctx context.Context, f *ingest.Fetcher, source string) {
	ds, err := ingest.Load(ctx, f, source)
	if err != nil {
		c.log.Error("dataset load failed", "source", source, "err", err)
		c.mu.Lock()
		if c.phase != PhaseReady {
			c.phase = PhaseFailed
			c.loadErr = err
		}
		c.mu.Unlock()
		return
	}
	c.SetDataset(ds)
}

// SetDataset installs a freshly ingested dataset and resets nothing else:
// the user's filters survive a reload.
func (c *Controller) SetDataset(ds ingest.Dataset) {
	c.mu.Lock()
	c.listings = ds.Listings
	c.report = ds.Report
	c.phase = PhaseReady
	c.loadErr = nil
	c.mu.Unlock()

	c.log.Info("dataset ready",
		"listings", len(ds.Listings),
		"skipped", ds.Report.Skipped,
		"unparsed_numbers", ds.Report.UnparsedNumbers,
	)
	if c.reg != nil {
		c.reg.Gauge("dashboard_dataset_size", "listings in the active dataset").Set(int64(len(ds.Listings)))
		c.reg.Counter("ingest_rows_total", "raw rows seen by ingest").Add(int64(ds.Report.Rows))
		c.reg.Counter("ingest_rows_skipped_total", "malformed rows dropped at ingest").Add(int64(ds.Report.Skipped))
	}
}

func (c *Controller) ready() error {
	switch c.phase {
	case PhaseReady:
		return nil
	case PhaseFailed:
		return fmt.Errorf("%w: %w", ErrLoadFailed, c.loadErr)
	default:
		return ErrLoading
	}
}

// State returns the current filter state.
func (c *Controller) State() filter.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetBrand selects a brand, or clears the selector with filter.All. An
// unknown brand is rejected so a stale dropdown cannot corrupt the state.
func (c *Controller) SetBrand(brand string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	if brand != filter.All {
		known := false
		for _, b := range filter.Brands(c.listings) {
			if b == brand {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownBrand, brand)
		}
	}
	c.state.Brand = brand
	c.record(EventSetBrand, brand)
	return nil
}

// SetMode switches charts between listing counts and mean prices.
func (c *Controller) SetMode(m domain.Mode) error {
	if err := domain.ValidateMode(m); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = m
	c.record(EventSetMode, string(m))
	return nil
}

// SetCategoryColumn picks the category chart's grouping dimension.
func (c *Controller) SetCategoryColumn(col domain.ColumnKey) error {
	if err := domain.ValidateColumn(col, domain.CategoryColumns); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CategoryColumn = col
	c.record(EventSetColumn, string(col))
	return nil
}

// SetLineColumn picks the line chart's bucketed dimension.
func (c *Controller) SetLineColumn(col domain.ColumnKey) error {
	if err := domain.ValidateColumn(col, domain.LineColumns); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LineColumn = col
	c.record(EventSetColumn, string(col))
	return nil
}

// ClickRegion toggles the map's region filter. Clicking the selected
// region again clears it. A name with no matching listings under the
// current brand filter is a no-op (zero-count map regions are not
// interactive), as is a name absent from the dataset entirely. Returns
// whether the state changed.
func (c *Controller) ClickRegion(name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return false, err
	}

	key := geo.Canonical(name)
	if key == geo.Canonical(c.state.Region) && c.state.Region != filter.All {
		c.state.Region = filter.All
		c.record(EventClickRegion, name)
		return true, nil
	}

	// Resolve the geometry name to the dataset's own city spelling; the
	// narrowing function joins on exact city strings.
	city, count := c.cityForKeyLocked(key)
	if count == 0 {
		return false, nil
	}
	c.state.Region = city
	c.record(EventClickRegion, name)
	return true, nil
}

// cityForKeyLocked finds the dataset city matching a canonical region key
// within the brand-narrowed set. Must hold mu.
func (c *Controller) cityForKeyLocked(key string) (string, int) {
	brandSet := filter.Narrow(c.listings, c.state.BrandOnly())
	for _, g := range aggregate.Aggregate(brandSet, domain.ColCity, nil) {
		if geo.Canonical(g.Key.Label) == key {
			return g.Key.Label, g.Count
		}
	}
	return "", 0
}

// OpenListings opens the listings modal for a region (a bar click on the
// region-breakdown chart). The modal scope is the region plus the current
// brand filter.
func (c *Controller) OpenListings(region string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	city, count := c.cityForKeyLocked(geo.Canonical(region))
	if count == 0 {
		return nil
	}
	c.modalRegion = city
	c.record(EventOpenListings, city)
	return nil
}

// CloseListings dismisses the modal.
func (c *Controller) CloseListings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalRegion = ""
}

package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AutoScopePT/autoscope-mvp/pkg/metrics"
	"github.com/AutoScopePT/autoscope-mvp/pkg/natsutil"
)

// EventsSubject carries every user interaction the controller applies.
const EventsSubject = "dashboard.events"

// Interaction event types.
const (
	EventSetBrand     = "set_brand"
	EventSetMode      = "set_mode"
	EventSetColumn    = "set_column"
	EventClickRegion  = "click_region"
	EventOpenListings = "open_listings"
)

// Event is the wire form of an applied interaction. Target is the value
// the interaction selected (brand name, mode, column key, region).
type Event struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Target string    `json:"target"`
	At     time.Time `json:"at"`
}

// record publishes an applied interaction to the event bus. Publishing is
// best effort: a missing connection or a publish error never fails the
// interaction itself.
func (c *Controller) record(typ, target string) {
	if c.reg != nil {
		c.reg.Counter(metrics.WithLabels("dashboard_events_total", "type", typ),
			"applied dashboard interactions").Inc()
	}
	if c.nc == nil {
		return
	}
	ev := Event{
		ID:     uuid.NewString(),
		Type:   typ,
		Target: target,
		At:     time.Now().UTC(),
	}
	if err := natsutil.Publish(context.Background(), c.nc, EventsSubject, ev); err != nil {
		c.log.Warn("event publish failed", "type", typ, "err", err)
	}
}

package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/AutoScopePT/autoscope-mvp/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

// ReloadSubject is the NATS subject that triggers a dataset refetch.
const ReloadSubject = "dashboard.dataset.reload"

// ReloadRequest asks the dashboard to refetch its dataset.
type ReloadRequest struct {
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// StartReloadConsumer subscribes to ReloadSubject and invokes reload for
// each request. The reload function owns serialization; overlapping
// requests are its problem to coalesce.
func StartReloadConsumer(nc *nats.Conn, log *slog.Logger, reload func(context.Context)) (*nats.Subscription, error) {
	if log == nil {
		log = slog.Default()
	}
	return natsutil.Subscribe(nc, ReloadSubject, func(ctx context.Context, req ReloadRequest) {
		log.Info("dataset reload requested", "reason", req.Reason)
		reload(ctx)
	})
}

// Command ingest validates a car-listings CSV and optionally asks a running
// dashboard to reload it. It runs the same fetch and normalization pipeline
// as the API server, so a dataset that passes here will load there.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AutoScopePT/autoscope-mvp/engine/filter"
	"github.com/AutoScopePT/autoscope-mvp/engine/ingest"
	"github.com/AutoScopePT/autoscope-mvp/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

func main() {
	var (
		source  = flag.String("source", "data/cars.csv", "CSV file path or http(s) URL")
		natsURL = flag.String("nats", "", "NATS URL; when set, publish a dataset reload request after validation")
		reason  = flag.String("reason", "manual ingest", "reason recorded on the reload request")
		asJSON  = flag.Bool("json", false, "print the report as JSON")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *source, *natsURL, *reason, *asJSON); err != nil {
		log.Error("ingest failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, source, natsURL, reason string, asJSON bool) error {
	started := time.Now()
	ds, err := ingest.Load(ctx, ingest.NewFetcher(), source)
	if err != nil {
		return err
	}

	log.Info("dataset validated",
		"source", source,
		"rows", ds.Report.Rows,
		"kept", ds.Report.Kept,
		"skipped", ds.Report.Skipped,
		"unparsed_numbers", ds.Report.UnparsedNumbers,
		"brands", len(filter.Brands(ds.Listings)),
		"took", time.Since(started).Round(time.Millisecond).String(),
	)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds.Report); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s: %d rows, %d kept, %d skipped, %d unparsed number fields\n",
			source, ds.Report.Rows, ds.Report.Kept, ds.Report.Skipped, ds.Report.UnparsedNumbers)
	}

	if natsURL == "" {
		return nil
	}

	nc, err := nats.Connect(natsURL, nats.Name("autoscope-ingest"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	req := ingest.ReloadRequest{Reason: reason, RequestedAt: time.Now().UTC()}
	if err := natsutil.Publish(ctx, nc, ingest.ReloadSubject, req); err != nil {
		return fmt.Errorf("publish reload: %w", err)
	}
	if err := nc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	log.Info("reload requested", "subject", ingest.ReloadSubject, "reason", reason)
	return nil
}

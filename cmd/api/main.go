// Package main implements the AutoScope dashboard API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/AutoScopePT/autoscope-mvp/engine/dashboard"
	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
	"github.com/AutoScopePT/autoscope-mvp/engine/geo"
	"github.com/AutoScopePT/autoscope-mvp/engine/ingest"
	"github.com/AutoScopePT/autoscope-mvp/pkg/metrics"
	"github.com/AutoScopePT/autoscope-mvp/pkg/mid"
	"github.com/nats-io/nats.go"
)

// Config holds all environment-based configuration.
type Config struct {
	Port         string
	DatasetURL   string
	GeometryPath string
	NATSURL      string
	CORSOrigin   string
}

func loadConfig() Config {
	return Config{
		Port:         envOr("PORT", "8080"),
		DatasetURL:   envOr("DATASET_URL", "data/cars.csv"),
		GeometryPath: envOr("GEOMETRY_PATH", "data/distritos.json"),
		NATSURL:      envOr("NATS_URL", nats.DefaultURL),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- District geometry ---
	geoFile, err := os.Open(cfg.GeometryPath)
	if err != nil {
		return fmt.Errorf("open geometry: %w", err)
	}
	regions, err := geo.Load(geoFile, dashboard.MapWidth, dashboard.MapHeight)
	geoFile.Close()
	if err != nil {
		return fmt.Errorf("load geometry: %w", err)
	}

	// --- Connect to NATS (optional) ---
	// The dashboard works without the event bus; reloads and interaction
	// events just go dark.
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("autoscope-api"))
	if err != nil {
		logger.Warn("nats unavailable, event publishing disabled", "url", cfg.NATSURL, "err", err)
		nc = nil
	} else {
		defer nc.Close()
	}

	// --- Build controller ---
	reg := metrics.New()
	ctrl := dashboard.New(regions, dashboard.Options{
		Logger:  logger,
		Conn:    nc,
		Metrics: reg,
	})

	fetcher := ingest.NewFetcher()
	ctrl.StartLoad(ctx, fetcher, cfg.DatasetURL)

	if nc != nil {
		sub, err := ingest.StartReloadConsumer(nc, logger, func(ctx context.Context) {
			ctrl.Reload(ctx, fetcher, cfg.DatasetURL)
		})
		if err != nil {
			return fmt.Errorf("reload consumer: %w", err)
		}
		defer sub.Unsubscribe()
	}

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/dashboard", handleDashboard(ctrl, logger))
	mux.HandleFunc("GET /api/listings", handleListings(ctrl))
	mux.Handle("POST /api/events", mid.Chain(
		handleEvent(ctrl, logger),
		mid.RateLimit(rate.NewLimiter(rate.Limit(20), 40)),
	))
	mux.Handle("GET /metrics", reg.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("autoscope-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "dataset", cfg.DatasetURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleDashboard(ctrl *dashboard.Controller, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeView(w, ctrl, logger)
	}
}

// ListingsResponse is the JSON response for GET /api/listings.
type ListingsResponse struct {
	Region   string           `json:"region"`
	Query    string           `json:"query,omitempty"`
	Listings []domain.Listing `json:"listings"`
}

func handleListings(ctrl *dashboard.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		resp := ListingsResponse{
			Region: ctrl.State().Region,
			Query:  q,
		}
		resp.Listings = ctrl.Listings(q)
		if resp.Listings == nil {
			resp.Listings = []domain.Listing{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// EventRequest is the JSON body for POST /api/events: one user interaction
// to apply to the dashboard state.
type EventRequest struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

func handleEvent(ctrl *dashboard.Controller, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		var err error
		switch req.Type {
		case dashboard.EventSetBrand:
			err = ctrl.SetBrand(req.Target)
		case dashboard.EventSetMode:
			err = ctrl.SetMode(domain.Mode(req.Target))
		case "set_category_column":
			err = ctrl.SetCategoryColumn(domain.ColumnKey(req.Target))
		case "set_line_column":
			err = ctrl.SetLineColumn(domain.ColumnKey(req.Target))
		case dashboard.EventClickRegion:
			_, err = ctrl.ClickRegion(req.Target)
		case dashboard.EventOpenListings:
			err = ctrl.OpenListings(req.Target)
		case "close_listings":
			ctrl.CloseListings()
		default:
			http.Error(w, `{"error":"unknown event type"}`, http.StatusBadRequest)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeView(w, ctrl, logger)
	}
}

func writeView(w http.ResponseWriter, ctrl *dashboard.Controller, logger *slog.Logger) {
	view, err := ctrl.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		logger.Error("encode view failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, dashboard.ErrLoading):
		status = http.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrLoadFailed):
		status = http.StatusBadGateway
	case errors.Is(err, dashboard.ErrUnknownBrand),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrColumnNotValid),
		errors.Is(err, domain.ErrUnknownColumn):
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

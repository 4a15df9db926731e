package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/pipeline"
)

// StatsSource exposes pipeline counters.
type StatsSource interface {
	Snapshot() pipeline.StatsSnapshot
}

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	// Checks maps a dependency name ("kafka", "graph") to its probe.
	Checks map[string]HealthService
	Stats  StatsSource
}

// NewRouter wires the ops routes every binary exposes.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		names := make([]string, 0, len(deps.Checks))
		for name := range deps.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		failures := map[string]string{}
		for _, name := range names {
			if err := deps.Checks[name].Probe(ctx); err != nil {
				logger.Error("health probe failed", "dependency", name, "error", err)
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
			payload["errors"] = failures
		}

		respondJSON(w, status, payload)
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		if deps.Stats == nil {
			respondJSON(w, http.StatusOK, pipeline.StatsSnapshot{})
			return
		}
		respondJSON(w, http.StatusOK, deps.Stats.Snapshot())
	})

	return loggingMiddleware(logger, mux)
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

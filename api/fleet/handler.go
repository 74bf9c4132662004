// Package fleet exposes the dispatcher snapshot over HTTP for dashboards
// and scripts.
package fleet

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	corefleet "github.com/kilianp07/taxifleet/core/fleet"
)

// SnapshotProvider yields the current fleet view.
type SnapshotProvider interface {
	Snapshot() corefleet.FleetSnapshot
}

// NewStatusHandler returns an HTTP handler exposing the fleet via
// GET /api/fleet/status. The optional state query parameter filters taxis.
func NewStatusHandler(provider SnapshotProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := provider.Snapshot()
		if state := r.URL.Query().Get("state"); state != "" {
			taxis := snap.Taxis[:0]
			for _, t := range snap.Taxis {
				if t.State == state {
					taxis = append(taxis, t)
				}
			}
			snap.Taxis = taxis
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// StartServer serves the status handler on addr until the context is
// canceled.
func StartServer(ctx context.Context, addr string, provider SnapshotProvider) error {
	mux := http.NewServeMux()
	mux.Handle("/api/fleet/status", NewStatusHandler(provider))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Package health serves the liveness endpoint polled by the uptime monitor,
// together with readiness and Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Reports if the update loop is running
type ReadyFunc func() bool

func Routes(ready ReadyFunc) http.Handler {
	r := chi.NewRouter()

	r.Get("/", Alive)
	r.Head("/", Alive)
	r.Get("/healthz", Healthz)
	r.Get("/readyz", Readyz(ready))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Alive answers the uptime monitor
func Alive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("I'm alive"))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func Readyz(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, map[string]string{"status": "ready"}
		if ready == nil || !ready() {
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "not_ready"}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Serve the routes on addr until the context is done
func Serve(ctx context.Context, addr string, ready ReadyFunc) error {

	server := &http.Server{
		Addr:              addr,
		Handler:           Routes(ready),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msg(fmt.Sprintf("Liveness server listening on %s", addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("liveness server stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

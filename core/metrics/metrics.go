// Package metrics exposes Prometheus instrumentation for the bot runtime.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled Telegram updates.",
		},
		[]string{"handler", "outcome"},
	)

	updateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Handler latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notifications_total",
			Help: "Urgent-need notifications by delivery result.",
		},
		[]string{"result"},
	)

	registerOnce sync.Once
)

// Init registers the collectors in the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(updatesTotal, updateDuration, notificationsTotal)
	})
}

// ObserveUpdate records one handled update.
func ObserveUpdate(handler, outcome string, took time.Duration) {
	updatesTotal.WithLabelValues(handler, outcome).Inc()
	updateDuration.WithLabelValues(handler).Observe(took.Seconds())
}

// ObserveNotification records a single broadcast delivery attempt.
func ObserveNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}

// Serve runs the /metrics endpoint until ctx is cancelled.
// A blank listen address disables the endpoint.
func Serve(ctx context.Context, listen string) error {
	if listen == "" {
		return nil
	}
	Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

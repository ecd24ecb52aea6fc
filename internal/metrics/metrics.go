// Package metrics records store activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/subhstories/clientmanager/internal/domain/client"
)

// Recorder implements client.Observer.
type Recorder struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	saves     *prometheus.CounterVec
	saveTime  prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientmanager",
			Name:      "mutations_total",
			Help:      "Store mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientmanager",
			Name:      "saves_total",
			Help:      "Whole-document saves by outcome.",
		}, []string{"outcome"}),
		saveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clientmanager",
			Name:      "save_duration_seconds",
			Help:      "Time spent writing the backing store.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	r.registry.MustRegister(r.mutations, r.saves, r.saveTime)
	r.registry.MustRegister(collectors.NewGoCollector())
	return r
}

// ObserveMutation counts a mutation attempt.
func (r *Recorder) ObserveMutation(op string, err error) {
	r.mutations.WithLabelValues(op, Outcome(err)).Inc()
}

// ObserveSave counts a save and records its duration.
func (r *Recorder) ObserveSave(elapsed time.Duration, err error) {
	r.saves.WithLabelValues(Outcome(err)).Inc()
	r.saveTime.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome labels err by its domain category.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, client.ErrValidation):
		return "invalid"
	case errors.Is(err, client.ErrNotFound):
		return "not_found"
	case errors.Is(err, client.ErrWrite):
		return "write_error"
	default:
		return "error"
	}
}

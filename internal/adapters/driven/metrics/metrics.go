// Package metrics provides a Prometheus implementation of driven.MetricsRecorder.
//
// Metrics are registered on a private registry so that tests and multiple
// servers in one process never collide. Handler exposes that registry for
// the /metrics endpoint served by `changegear mcp serve --port`.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
)

// Namespace for all metrics
const namespace = "changegear"

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder records search telemetry as Prometheus metrics.
// All operations are safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	// calculations counts runs by outcome (completed, cancelled).
	calculations *prometheus.CounterVec

	// candidates counts processed candidates by result (found, skipped, discarded).
	candidates *prometheus.CounterVec

	// active tracks runs that have started but not finished.
	active prometheus.Gauge

	// lastTotal is the theoretical candidate count of the latest run.
	lastTotal prometheus.Gauge

	// advances counts engine Advance calls.
	advances prometheus.Counter

	// stepDuration measures each budgeted slice.
	stepDuration prometheus.Histogram

	// duration measures the total search time of completed runs.
	duration prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry, including the
// standard Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newRecorder(reg)
}

func newRecorder(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Gear train searches by outcome",
		}, []string{"outcome"}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidate trains processed by result",
		}, []string{"result"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_calculations",
			Help:      "Searches currently running",
		}),
		lastTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_search_candidates",
			Help:      "Theoretical candidate count of the most recent search",
		}),
		advances: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "advances_total",
			Help:      "Engine steps performed",
		}),
		stepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock time of each budgeted search slice",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Search time of completed calculations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// CalculationStarted records a new run.
func (r *Recorder) CalculationStarted(total uint64) {
	r.active.Inc()
	r.lastTotal.Set(float64(total))
}

// StepCompleted records one budgeted slice.
func (r *Recorder) StepCompleted(advances int, elapsed time.Duration) {
	r.advances.Add(float64(advances))
	r.stepDuration.Observe(elapsed.Seconds())
}

// CalculationFinished records the counters of a finished run.
func (r *Recorder) CalculationFinished(progress domain.Progress, elapsed time.Duration) {
	r.active.Dec()
	r.calculations.WithLabelValues("completed").Inc()
	r.candidates.WithLabelValues("found").Add(float64(progress.Found))
	r.candidates.WithLabelValues("skipped").Add(float64(progress.Skipped))
	r.candidates.WithLabelValues("discarded").Add(float64(progress.Discarded))
	r.duration.Observe(elapsed.Seconds())
}

// CalculationCancelled records an abandoned run.
func (r *Recorder) CalculationCancelled() {
	r.active.Dec()
	r.calculations.WithLabelValues("cancelled").Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

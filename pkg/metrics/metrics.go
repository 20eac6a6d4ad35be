package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Validation metrics
	ValidationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubelab_validation_runs_total",
			Help: "Total number of step validations by criteria type and outcome",
		},
		[]string{"type", "outcome"},
	)

	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubelab_checks_total",
			Help: "Total number of executed checks by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	ValidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubelab_validation_duration_seconds",
			Help:    "Step validation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Infrastructure metrics
	InfraAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kubelab_infra_available",
			Help: "Whether a subsystem probe succeeded (1 = available, 0 = unavailable)",
		},
		[]string{"subsystem"},
	)

	ImageBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubelab_image_builds_total",
			Help: "Total number of image builds by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ValidationRunsTotal)
	prometheus.MustRegister(ChecksTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(InfraAvailable)
	prometheus.MustRegister(ImageBuildsTotal)
}

// SetInfraAvailable records a subsystem probe result in both the gauge and
// the component health endpoint
func SetInfraAvailable(subsystem string, available bool) {
	value := 0.0
	message := "probe failed"
	if available {
		value = 1.0
		message = "reachable"
	}
	InfraAvailable.WithLabelValues(subsystem).Set(value)
	UpdateComponent(subsystem, available, message)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Kind is the flavour of the metrics backend.
type Kind int

const (
	UnknownKind Kind = iota
	CodaHaleKind
	PrometheusKind
	AllKind
)

func (k Kind) String() string {
	switch k {
	case CodaHaleKind:
		return "codahale"
	case PrometheusKind:
		return "prometheus"
	case AllKind:
		return "all"
	default:
		return "unknown"
	}
}

// ParseMetricsKind returns the flavour from its name, as used in the
// configuration: codahale, prometheus or all.
func ParseMetricsKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "codahale":
		return CodaHaleKind, nil
	case "prometheus":
		return PrometheusKind, nil
	case "all":
		return AllKind, nil
	default:
		return UnknownKind, fmt.Errorf("invalid metrics flavour: %s", s)
	}
}

// Metrics is the interface of the metrics backends.
type Metrics interface {
	MeasureSince(key string, start time.Time)
	IncCounter(key string)
	IncCounterBy(key string, value int64)
	UpdateGauge(key string, value float64)
	RegisterHandler(path string, mux *http.ServeMux)
}

// Options for initializing metrics collection.
type Options struct {

	// Format selects the backend.
	Format Kind

	// Common prefix for the keys of the different collected metrics.
	// For Prometheus, it is used as the namespace.
	Prefix string

	// Use an exponentially decaying sample in the CodaHale timers,
	// instead of a uniform one.
	UseExpDecaySample bool

	// Buckets of the Prometheus histograms. The Prometheus defaults are
	// used when not set.
	HistogramBuckets []float64

	// The Prometheus registry to register the metrics with. A new one is
	// created when not set.
	PrometheusRegistry *prometheus.Registry

	// If set, Go runtime metrics are collected in addition to the filter
	// chain metrics.
	EnableRuntimeMetrics bool
}

// NewMetrics returns the backend selected by the options. An unknown
// format returns a backend discarding every value.
func NewMetrics(o Options) Metrics {
	switch o.Format {
	case CodaHaleKind:
		return NewCodaHale(o)
	case PrometheusKind:
		return NewPrometheus(o)
	case AllKind:
		return NewAll(o)
	default:
		return NewVoid()
	}
}

// NewDefaultHandler returns a handler serving the metrics at the given
// path.
func NewDefaultHandler(m Metrics, path string) http.Handler {
	mux := http.NewServeMux()
	m.RegisterHandler(path, mux)
	return mux
}

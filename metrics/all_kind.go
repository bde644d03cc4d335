package metrics

import (
	"net/http"
	"time"
)

// All records into both the Prometheus and the CodaHale backends.
type All struct {
	prometheus *Prometheus
	codaHale   *CodaHale
}

var _ Metrics = (*All)(nil)

func NewAll(o Options) *All {
	return &All{
		prometheus: NewPrometheus(o),
		codaHale:   NewCodaHale(o),
	}
}

func (a *All) MeasureSince(key string, start time.Time) {
	a.prometheus.MeasureSince(key, start)
	a.codaHale.MeasureSince(key, start)
}

func (a *All) IncCounter(key string) {
	a.prometheus.IncCounter(key)
	a.codaHale.IncCounter(key)
}

func (a *All) IncCounterBy(key string, value int64) {
	a.prometheus.IncCounterBy(key, value)
	a.codaHale.IncCounterBy(key, value)
}

func (a *All) UpdateGauge(key string, v float64) {
	a.prometheus.UpdateGauge(key, v)
	a.codaHale.UpdateGauge(key, v)
}

// RegisterHandler serves the Prometheus metrics at path, and the CodaHale
// ones under path + "/codahale/".
func (a *All) RegisterHandler(path string, mux *http.ServeMux) {
	a.prometheus.RegisterHandler(path, mux)
	a.codaHale.RegisterHandler(path+"/codahale/", mux)
}

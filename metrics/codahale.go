package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

const (
	defaultUniformReservoirSize  = 1024
	defaultExpDecayReservoirSize = 1028
	defaultExpDecayAlpha         = 0.015
)

// CodaHale is the CodaHale format backend, implements Metrics interface in
// DropWizard's CodaHale metrics format.
type CodaHale struct {
	reg           metrics.Registry
	createTimer   func() metrics.Timer
	createCounter func() metrics.Counter
	createGauge   func() metrics.GaugeFloat64
	options       Options
	handler       http.Handler
}

var _ Metrics = (*CodaHale)(nil)

// NewCodaHale returns a new CodaHale backend of metrics.
func NewCodaHale(o Options) *CodaHale {
	c := &CodaHale{}
	c.reg = metrics.NewRegistry()

	createSample := newUniformSample
	if o.UseExpDecaySample {
		createSample = newExpDecaySample
	}

	c.createTimer = func() metrics.Timer {
		return metrics.NewCustomTimer(metrics.NewHistogram(createSample()), metrics.NewMeter())
	}

	c.createCounter = metrics.NewCounter
	c.createGauge = metrics.NewGaugeFloat64
	c.options = o

	if o.EnableRuntimeMetrics {
		metrics.RegisterRuntimeMemStats(c.reg)
		go metrics.CaptureRuntimeMemStats(c.reg, 5*time.Second)
	}

	return c
}

// NewVoid returns a backend that discards every value.
func NewVoid() *CodaHale {
	c := &CodaHale{}
	c.reg = metrics.NewRegistry()
	c.createTimer = func() metrics.Timer { return metrics.NilTimer{} }
	c.createCounter = func() metrics.Counter { return metrics.NilCounter{} }
	c.createGauge = func() metrics.GaugeFloat64 { return metrics.NilGaugeFloat64{} }
	return c
}

func newUniformSample() metrics.Sample {
	return metrics.NewUniformSample(defaultUniformReservoirSize)
}

func newExpDecaySample() metrics.Sample {
	return metrics.NewExpDecaySample(defaultExpDecayReservoirSize, defaultExpDecayAlpha)
}

// Registry returns the underlying registry.
func (c *CodaHale) Registry() metrics.Registry { return c.reg }

func (c *CodaHale) getTimer(key string) metrics.Timer {
	return c.reg.GetOrRegister(key, c.createTimer).(metrics.Timer)
}

func (c *CodaHale) getCounter(key string) metrics.Counter {
	return c.reg.GetOrRegister(key, c.createCounter).(metrics.Counter)
}

func (c *CodaHale) getGauge(key string) metrics.GaugeFloat64 {
	return c.reg.GetOrRegister(key, c.createGauge).(metrics.GaugeFloat64)
}

func (c *CodaHale) MeasureSince(key string, start time.Time) {
	c.getTimer(key).UpdateSince(start)
}

func (c *CodaHale) IncCounter(key string) {
	c.getCounter(key).Inc(1)
}

func (c *CodaHale) IncCounterBy(key string, value int64) {
	c.getCounter(key).Inc(value)
}

func (c *CodaHale) UpdateGauge(key string, v float64) {
	c.getGauge(key).Update(v)
}

func (c *CodaHale) RegisterHandler(path string, mux *http.ServeMux) {
	if c.handler == nil {
		c.handler = &codaHaleMetricsHandler{path: path, registry: c.reg, options: c.options}
	}

	mux.Handle(path, c.handler)
}

type codaHaleMetricsHandler struct {
	path     string
	registry metrics.Registry
	options  Options
}

func (c *codaHaleMetricsHandler) sendMetrics(w http.ResponseWriter, p string) {
	_, k := path.Split(p)
	m := filterMetrics(c.registry, c.options.Prefix, k)
	if len(m) == 0 {
		http.NotFound(w, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(m)
}

func (c *codaHaleMetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	c.sendMetrics(w, strings.TrimPrefix(r.URL.Path, c.path))
}

func filterMetrics(reg metrics.Registry, prefix, key string) codaHaleMetrics {
	m := make(codaHaleMetrics)
	canonicalKey := strings.TrimPrefix(key, prefix)
	if mi := reg.Get(canonicalKey); mi != nil {
		m[key] = mi
		return m
	}

	reg.Each(func(name string, i any) {
		if key == "" || strings.HasPrefix(name, canonicalKey) {
			m[prefix+name] = i
		}
	})

	return m
}

type codaHaleMetrics map[string]any

func (cm codaHaleMetrics) MarshalJSON() ([]byte, error) {
	data := make(map[string]map[string]any)
	for name, metric := range cm {
		values := make(map[string]any)
		var family string

		switch m := metric.(type) {
		case metrics.GaugeFloat64:
			family = "gauges"
			values["value"] = m.Snapshot().Value()
		case metrics.Timer:
			family = "timers"
			t := m.Snapshot()
			ps := t.Percentiles([]float64{0.5, 0.75, 0.95, 0.99, 0.999})
			values["count"] = t.Count()
			values["min"] = t.Min()
			values["max"] = t.Max()
			values["mean"] = t.Mean()
			values["stddev"] = t.StdDev()
			values["median"] = ps[0]
			values["75%"] = ps[1]
			values["95%"] = ps[2]
			values["99%"] = ps[3]
			values["99.9%"] = ps[4]
			values["1m.rate"] = t.Rate1()
			values["mean.rate"] = t.RateMean()
		case metrics.Counter:
			family = "counters"
			values["count"] = m.Snapshot().Count()
		default:
			family = "unknown"
			values["error"] = fmt.Sprintf("unknown metrics type %T", m)
		}

		if data[family] == nil {
			data[family] = make(map[string]any)
		}

		data[family][name] = values
	}

	return json.Marshal(data)
}

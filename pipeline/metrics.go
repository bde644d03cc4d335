package pipeline

import (
	"time"

	"github.com/zalando/msgfilter/metrics"
	"github.com/zalando/msgfilter/txn"
)

const (
	KeyCreated           = "filterchain.created"
	KeyCloned            = "filterchain.cloned"
	KeyDetachTransaction = "filterchain.detach.transaction"
	KeyDetachHandler     = "filterchain.detach.handler"

	eventPrefix = "filterchain.event."
)

const (
	eventHeaders       = eventPrefix + "headers"
	eventBody          = eventPrefix + "body"
	eventChunkHeader   = eventPrefix + "chunkheader"
	eventChunkComplete = eventPrefix + "chunkcomplete"
	eventTrailers      = eventPrefix + "trailers"
	eventEOM           = eventPrefix + "eom"
	eventUpgrade       = eventPrefix + "upgrade"
	eventError         = eventPrefix + "error"
	eventEgressPaused  = eventPrefix + "egresspaused"
	eventEgressResumed = eventPrefix + "egressresumed"
	eventPushed        = eventPrefix + "pushed"
	eventExTransaction = eventPrefix + "ex"
)

// EventKey returns the metrics key measuring an event, e.g. "body".
func EventKey(event string) string { return eventPrefix + event }

// meter is registered with the transaction in front of the head of the
// chain, and measures the events passing through the chain.
type meter struct {
	next     txn.Handler
	metrics  metrics.Metrics
	detached bool
}

var _ txn.Handler = (*meter)(nil)

func (m *meter) measure(key string, start time.Time) {
	m.metrics.MeasureSince(key, start)
}

func (m *meter) SetTransaction(t txn.Transaction) {
	m.detached = false
	m.next.SetTransaction(t)
}

func (m *meter) DetachTransaction() {
	if !m.detached {
		m.detached = true
		m.metrics.IncCounter(KeyDetachTransaction)
	}

	m.next.DetachTransaction()
}

func (m *meter) OnHeadersComplete(msg *txn.Message) {
	defer m.measure(eventHeaders, time.Now())
	m.next.OnHeadersComplete(msg)
}

func (m *meter) OnBody(p []byte) {
	defer m.measure(eventBody, time.Now())
	m.next.OnBody(p)
}

func (m *meter) OnChunkHeader(length int) {
	defer m.measure(eventChunkHeader, time.Now())
	m.next.OnChunkHeader(length)
}

func (m *meter) OnChunkComplete() {
	defer m.measure(eventChunkComplete, time.Now())
	m.next.OnChunkComplete()
}

func (m *meter) OnTrailers(h txn.Header) {
	defer m.measure(eventTrailers, time.Now())
	m.next.OnTrailers(h)
}

func (m *meter) OnEOM() {
	defer m.measure(eventEOM, time.Now())
	m.next.OnEOM()
}

func (m *meter) OnUpgrade(p txn.UpgradeProtocol) {
	defer m.measure(eventUpgrade, time.Now())
	m.next.OnUpgrade(p)
}

func (m *meter) OnError(err *txn.Error) {
	defer m.measure(eventError, time.Now())
	m.next.OnError(err)
}

func (m *meter) OnEgressPaused() {
	defer m.measure(eventEgressPaused, time.Now())
	m.next.OnEgressPaused()
}

func (m *meter) OnEgressResumed() {
	defer m.measure(eventEgressResumed, time.Now())
	m.next.OnEgressResumed()
}

func (m *meter) OnPushedTransaction(t txn.Transaction) {
	defer m.measure(eventPushed, time.Now())
	m.next.OnPushedTransaction(t)
}

func (m *meter) OnExTransaction(t txn.Transaction) {
	defer m.measure(eventExTransaction, time.Now())
	m.next.OnExTransaction(t)
}

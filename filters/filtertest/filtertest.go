// Package filtertest provides test doubles for the collaborators of a
// filter chain: a transaction, an application handler, and filters that
// record what they see.
package filtertest

import (
	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/txn"
)

// Event kinds recorded by Handler and Filter.
const (
	SetTransaction    = "setTransaction"
	DetachTransaction = "detachTransaction"
	HeadersComplete   = "headersComplete"
	Body              = "body"
	ChunkHeader       = "chunkHeader"
	ChunkComplete     = "chunkComplete"
	Trailers          = "trailers"
	EOM               = "eom"
	Upgrade           = "upgrade"
	Error             = "error"
	EgressPaused      = "egressPaused"
	EgressResumed     = "egressResumed"
	PushedTransaction = "pushedTransaction"
	ExTransaction     = "exTransaction"
)

// Event is a single call received by a Handler.
type Event struct {
	Kind        string
	Message     *txn.Message
	Body        []byte
	Length      int
	Header      txn.Header
	Upgrade     txn.UpgradeProtocol
	Err         *txn.Error
	Transaction txn.Transaction
}

// Handler is an application handler recording every call.
type Handler struct {
	Events      []Event
	Transaction txn.Transaction
}

var _ txn.Handler = (*Handler)(nil)

func (h *Handler) add(e Event) { h.Events = append(h.Events, e) }

func (h *Handler) SetTransaction(t txn.Transaction) {
	h.Transaction = t
	h.add(Event{Kind: SetTransaction, Transaction: t})
}

func (h *Handler) DetachTransaction() {
	h.Transaction = nil
	h.add(Event{Kind: DetachTransaction})
}

func (h *Handler) OnHeadersComplete(m *txn.Message) { h.add(Event{Kind: HeadersComplete, Message: m}) }
func (h *Handler) OnBody(p []byte)                  { h.add(Event{Kind: Body, Body: p}) }
func (h *Handler) OnChunkHeader(length int)         { h.add(Event{Kind: ChunkHeader, Length: length}) }
func (h *Handler) OnChunkComplete()                 { h.add(Event{Kind: ChunkComplete}) }
func (h *Handler) OnTrailers(t txn.Header)          { h.add(Event{Kind: Trailers, Header: t}) }
func (h *Handler) OnEOM()                           { h.add(Event{Kind: EOM}) }
func (h *Handler) OnUpgrade(p txn.UpgradeProtocol)  { h.add(Event{Kind: Upgrade, Upgrade: p}) }
func (h *Handler) OnError(err *txn.Error)           { h.add(Event{Kind: Error, Err: err}) }
func (h *Handler) OnEgressPaused()                  { h.add(Event{Kind: EgressPaused}) }
func (h *Handler) OnEgressResumed()                 { h.add(Event{Kind: EgressResumed}) }

func (h *Handler) OnPushedTransaction(t txn.Transaction) {
	h.add(Event{Kind: PushedTransaction, Transaction: t})
}

func (h *Handler) OnExTransaction(t txn.Transaction) {
	h.add(Event{Kind: ExTransaction, Transaction: t})
}

// Kinds returns the kinds of the recorded events in order.
func (h *Handler) Kinds() []string {
	k := make([]string, len(h.Events))
	for i, e := range h.Events {
		k[i] = e.Kind
	}

	return k
}

// Count returns how many events of a kind were recorded.
func (h *Handler) Count(kind string) int {
	var n int
	for _, e := range h.Events {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

// BodyBytes returns the concatenated body received by the handler.
func (h *Handler) BodyBytes() []byte {
	var b []byte
	for _, e := range h.Events {
		if e.Kind == Body {
			b = append(b, e.Body...)
		}
	}

	return b
}

// Transaction is a transaction that records the calls of its handler
// registration and ingress flow control. Like a real transaction, it calls
// SetTransaction on a newly registered handler.
type Transaction struct {
	Handler         txn.Handler
	SetHandlerCalls int
	PauseCalls      int
	ResumeCalls     int
	Paused          bool
}

var _ txn.Transaction = (*Transaction)(nil)

func (t *Transaction) SetHandler(h txn.Handler) {
	t.SetHandlerCalls++
	t.Handler = h
	if h != nil {
		h.SetTransaction(t)
	}
}

func (t *Transaction) PauseIngress() {
	t.PauseCalls++
	t.Paused = true
}

func (t *Transaction) ResumeIngress() {
	t.ResumeCalls++
	t.Paused = false
}

// Detach tells the registered handler that the transaction releases
// itself, and forgets the handler.
func (t *Transaction) Detach() {
	if t.Handler == nil {
		return
	}

	h := t.Handler
	t.Handler = nil
	h.DetachTransaction()
}

// Filter is a pass-through filter recording the overridable events it was
// called with.
type Filter struct {
	filters.Base
	FilterName string
	Args       []any
	Seen       []string
}

func (f *Filter) Name() string {
	if f.FilterName == "" {
		return f.Base.Name()
	}

	return f.FilterName
}

// Clone returns a filter with the same name and arguments, but without the
// recorded events.
func (f *Filter) Clone() filters.Filter {
	return &Filter{FilterName: f.FilterName, Args: f.Args}
}

func (f *Filter) see(kind string) { f.Seen = append(f.Seen, kind) }

func (f *Filter) OnHeadersComplete(m *txn.Message) {
	f.see(HeadersComplete)
	f.Base.OnHeadersComplete(m)
}

func (f *Filter) OnBody(p []byte) {
	f.see(Body)
	f.Base.OnBody(p)
}

func (f *Filter) OnChunkHeader(length int) {
	f.see(ChunkHeader)
	f.Base.OnChunkHeader(length)
}

func (f *Filter) OnChunkComplete() {
	f.see(ChunkComplete)
	f.Base.OnChunkComplete()
}

func (f *Filter) OnTrailers(h txn.Header) {
	f.see(Trailers)
	f.Base.OnTrailers(h)
}

func (f *Filter) OnEOM() {
	f.see(EOM)
	f.Base.OnEOM()
}

func (f *Filter) OnUpgrade(p txn.UpgradeProtocol) {
	f.see(Upgrade)
	f.Base.OnUpgrade(p)
}

func (f *Filter) OnError(err *txn.Error) {
	f.see(Error)
	f.Base.OnError(err)
}

// Spec creates Filter instances with the name of the spec.
type Spec struct {
	SpecName string
}

func (s *Spec) Name() string { return s.SpecName }

func (s *Spec) CreateFilter(args []any) (filters.Filter, error) {
	return &Filter{FilterName: s.SpecName, Args: args}, nil
}

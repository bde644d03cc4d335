package filters

import (
	"fmt"

	"github.com/zalando/msgfilter/txn"
)

// link is the handler that the producer of a filter delivers the events to.
// The overridable events go to the filter, the bookkeeping events are
// handled by the base only.
type link struct {
	b *Base
}

var _ txn.Handler = (*link)(nil)

func (l *link) OnHeadersComplete(m *txn.Message) {
	l.b.checkAlive()
	l.b.self.OnHeadersComplete(m)
}

func (l *link) OnBody(p []byte) {
	l.b.checkAlive()
	l.b.received += uint64(len(p))
	l.b.self.OnBody(p)
}

func (l *link) OnChunkHeader(length int) {
	l.b.checkAlive()
	l.b.self.OnChunkHeader(length)
}

func (l *link) OnChunkComplete() {
	l.b.checkAlive()
	l.b.self.OnChunkComplete()
}

func (l *link) OnTrailers(h txn.Header) {
	l.b.checkAlive()
	l.b.self.OnTrailers(h)
}

func (l *link) OnEOM() {
	l.b.checkAlive()
	l.b.self.OnEOM()
}

func (l *link) OnUpgrade(p txn.UpgradeProtocol) {
	l.b.checkAlive()
	l.b.self.OnUpgrade(p)
}

func (l *link) OnError(err *txn.Error) {
	l.b.checkAlive()
	l.b.self.OnError(err)
}

func (l *link) SetTransaction(t txn.Transaction)      { l.b.setTransaction(t) }
func (l *link) DetachTransaction()                    { l.b.detachTransaction() }
func (l *link) OnEgressPaused()                       { l.b.Next().OnEgressPaused() }
func (l *link) OnEgressResumed()                      { l.b.Next().OnEgressResumed() }
func (l *link) OnPushedTransaction(t txn.Transaction) { l.b.Next().OnPushedTransaction(t) }
func (l *link) OnExTransaction(t txn.Transaction)     { l.b.Next().OnExTransaction(t) }

// HandlerOf returns the handler that the producer of the filter, either the
// transaction or the previous filter, needs to deliver the events to.
func HandlerOf(f Filter) txn.Handler {
	return bind(f).up
}

// SetNext sets the forward target of a filter. The forward target is set
// exactly once.
func SetNext(f Filter, next txn.Handler) {
	b := bind(f)
	b.checkAlive()
	if next == nil {
		panic(fmt.Sprintf("filters: %s: nil forward target", b.name()))
	}

	if b.next != nil {
		panic(fmt.Sprintf("filters: %s: forward target already set", b.name()))
	}

	b.next = next
}

// SetPrevFilter sets another filter as the backward source of f.
func SetPrevFilter(f, prev Filter) {
	b := bind(f)
	b.checkAlive()
	if prev == nil {
		panic(fmt.Sprintf("filters: %s: nil previous filter", b.name()))
	}

	bind(prev)
	b.prev = filterSource(prev)
}

// SetPrevTransaction sets the transaction as the backward source of f,
// making it the head of the chain.
func SetPrevTransaction(f Filter, t txn.Transaction) {
	b := bind(f)
	b.checkAlive()
	if t == nil {
		panic(fmt.Sprintf("filters: %s: nil transaction", b.name()))
	}

	b.prev = transactionSource(t)
	b.detached = false
}

// Link makes next the forward target of prev, and prev the backward source
// of next.
func Link(prev, next Filter) {
	SetNext(prev, HandlerOf(next))
	SetPrevFilter(next, prev)
}

// DetachHandlerFromTransaction is called by the handler following f when
// it wants to leave the transaction, while the transaction may keep
// living. The call is passed backward through the chain, and the filter
// at the head clears the handler of the transaction. Afterwards, the
// transaction and the handler can be released without notifying each
// other. Calling it again has no effect.
func DetachHandlerFromTransaction(f Filter) {
	bind(f).detachHandler()
}

// Destroy ends the life of a filter. It drops the references of the
// filter, and any later use of the filter through the chain panics.
func Destroy(f Filter) {
	bind(f).destroy()
}

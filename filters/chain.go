package filters

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zalando/msgfilter/txn"
)

// Chain is a set of filters wired between a transaction and its handler.
// The chain doesn't own the filters, the transaction or the handler, it
// only keeps track of how they were connected.
type Chain struct {
	id       string
	txn      txn.Transaction
	handler  txn.Handler
	filters  []Filter
	attached bool
	log      *log.Entry
}

// NewChain wires the filters in the order of the arguments: the first
// filter receives the events of the transaction, the last one forwards them
// to the handler. The filters must be unwired. The chain is not registered
// with the transaction, see Attach.
func NewChain(t txn.Transaction, h txn.Handler, fs ...Filter) *Chain {
	if t == nil {
		panic("filters: chain without transaction")
	}

	if h == nil {
		panic("filters: chain without handler")
	}

	c := &Chain{
		id:      uuid.New().String(),
		txn:     t,
		handler: h,
		filters: fs,
	}

	c.log = log.WithField("chain", c.id)
	for i, f := range fs {
		b := bind(f)
		b.log = c.log.WithField("filter", f.Name())
		if i == 0 {
			SetPrevTransaction(f, t)
		} else {
			Link(fs[i-1], f)
		}
	}

	if len(fs) > 0 {
		SetNext(fs[len(fs)-1], h)
	}

	c.log.Debugf("chain wired with %d filters: %v", len(fs), c)
	return c
}

// ID returns the unique identifier of the chain, used in the logs.
func (c *Chain) ID() string { return c.id }

// Len returns the number of filters in the chain.
func (c *Chain) Len() int { return len(c.filters) }

// Filters returns the filters of the chain, starting at the head.
func (c *Chain) Filters() []Filter { return c.filters }

// Transaction returns the transaction of the chain.
func (c *Chain) Transaction() txn.Transaction { return c.txn }

// Handler returns the application handler at the end of the chain.
func (c *Chain) Handler() txn.Handler { return c.handler }

// Head returns the handler to be registered with the transaction. When the
// chain has no filters, it is the application handler itself.
func (c *Chain) Head() txn.Handler {
	if len(c.filters) == 0 {
		return c.handler
	}

	return HandlerOf(c.filters[0])
}

// Attach registers the head of the chain with the transaction. It needs to
// be called exactly once, a second call panics.
func (c *Chain) Attach() {
	c.markAttached()
	c.txn.SetHandler(c.Head())
}

func (c *Chain) markAttached() {
	if c.attached {
		panic(fmt.Sprintf("filters: chain %s: already attached", c.id))
	}

	if c.txn == nil {
		panic(fmt.Sprintf("filters: chain %s: no transaction to attach to", c.id))
	}

	c.attached = true
}

// MarkAttached records that the chain was registered with its transaction
// by other means than Attach, e.g. behind a wrapping handler. It panics
// when the chain was already attached.
func (c *Chain) MarkAttached() { c.markAttached() }

// DetachHandler is used by the application handler to leave the
// transaction early. See DetachHandlerFromTransaction.
func (c *Chain) DetachHandler() {
	if len(c.filters) == 0 {
		if c.txn != nil {
			c.txn.SetHandler(nil)
			c.txn = nil
		}

		return
	}

	DetachHandlerFromTransaction(c.filters[len(c.filters)-1])
}

// Pause is used by the application handler to pause the events of the
// transaction. It is passed to the last filter, or to the transaction
// when the chain has no filters.
func (c *Chain) Pause() {
	if len(c.filters) == 0 {
		if c.txn != nil {
			c.txn.PauseIngress()
		}

		return
	}

	c.filters[len(c.filters)-1].Pause()
}

// Resume is used by the application handler to resume the events of the
// transaction, telling how many bytes of the body it already accounted for.
func (c *Chain) Resume(offset uint64) {
	if len(c.filters) == 0 {
		if c.txn != nil {
			c.txn.ResumeIngress()
		}

		return
	}

	c.filters[len(c.filters)-1].Resume(offset)
}

// Clone returns a new chain, with the clones of the filters, wired between
// another transaction and handler. It is used for transactions derived
// from the one of the chain, e.g. pushed transactions.
func (c *Chain) Clone(t txn.Transaction, h txn.Handler) *Chain {
	fs := make([]Filter, len(c.filters))
	for i, f := range c.filters {
		fs[i] = f.Clone()
		if fs[i] == nil {
			panic(fmt.Sprintf("filters: %s: nil clone", f.Name()))
		}
	}

	cc := NewChain(t, h, fs...)
	cc.log.Debugf("cloned from chain %s", c.id)
	return cc
}

// Destroy destroys all the filters of the chain. The chain must not be used
// afterwards.
func (c *Chain) Destroy() {
	for _, f := range c.filters {
		Destroy(f)
	}

	c.txn = nil
	c.log.Debug("chain destroyed")
}

func (c *Chain) String() string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name()
	}

	return fmt.Sprintf("%v", names)
}

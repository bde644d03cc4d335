package filters

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zalando/msgfilter/txn"
)

// Base provides the chain linkage and the default behavior of a filter.
// Filters embed it, and shadow the methods of Events, Pause and Resume as
// needed. The zero value is an unwired filter.
type Base struct {
	self       Filter
	up         *link
	next       txn.Handler
	prev       Source
	nextPaused bool
	detached   bool
	offset     uint64
	received   uint64
	life       *lifetime
	log        *log.Entry
}

func (b *Base) base() *Base { return b }

// Name returns DefaultName. Filters shadow it to provide their own name.
func (b *Base) Name() string { return DefaultName }

// Next returns the forward target of the filter. It panics when the filter
// was not wired, or was destroyed.
func (b *Base) Next() txn.Handler {
	b.checkAlive()
	if b.next == nil {
		panic(fmt.Sprintf("filters: %s: forward target not set", b.name()))
	}

	return b.next
}

// Prev returns the backward source of the filter.
func (b *Base) Prev() Source { return b.prev }

// NextPaused tells whether the forward target has paused the filter.
func (b *Base) NextPaused() bool { return b.nextPaused }

// ResumeOffset returns the highest offset accepted by a resume.
func (b *Base) ResumeOffset() uint64 { return b.offset }

// ReceivedBytes returns the number of body bytes delivered to the filter.
func (b *Base) ReceivedBytes() uint64 { return b.received }

func (b *Base) OnHeadersComplete(m *txn.Message) { b.Next().OnHeadersComplete(m) }
func (b *Base) OnBody(p []byte)                  { b.Next().OnBody(p) }
func (b *Base) OnChunkHeader(length int)         { b.Next().OnChunkHeader(length) }
func (b *Base) OnChunkComplete()                 { b.Next().OnChunkComplete() }
func (b *Base) OnTrailers(h txn.Header)          { b.Next().OnTrailers(h) }
func (b *Base) OnEOM()                           { b.Next().OnEOM() }
func (b *Base) OnUpgrade(p txn.UpgradeProtocol)  { b.Next().OnUpgrade(p) }
func (b *Base) OnError(err *txn.Error)           { b.Next().OnError(err) }

// MarkPaused records that the forward target paused the filter, without
// propagating it. Filters that shadow Pause to buffer events use it.
func (b *Base) MarkPaused() {
	b.checkAlive()
	b.nextPaused = true
}

// MarkResumed records that the forward target resumed the filter, without
// propagating it, and returns the accepted offset. Offsets never decrease:
// an offset lower than an earlier accepted one is replaced by the earlier
// one.
func (b *Base) MarkResumed(offset uint64) uint64 {
	b.checkAlive()
	b.nextPaused = false
	if offset < b.offset {
		b.logger().Debugf("resume offset %d lower than accepted offset %d", offset, b.offset)
		return b.offset
	}

	b.offset = offset
	return offset
}

// Pause marks the forward target paused and passes the pause to the
// backward source. At the head of the chain, it pauses the ingress of the
// transaction.
func (b *Base) Pause() {
	b.MarkPaused()
	switch b.prev.kind {
	case SourceFilter:
		b.prev.filter.Pause()
	case SourceTransaction:
		b.prev.txn.PauseIngress()
	}
}

// Resume marks the forward target resumed and passes the resume, with the
// accepted offset, to the backward source. At the head of the chain, it
// resumes the ingress of the transaction.
func (b *Base) Resume(offset uint64) {
	offset = b.MarkResumed(offset)
	switch b.prev.kind {
	case SourceFilter:
		b.prev.filter.Resume(offset)
	case SourceTransaction:
		b.prev.txn.ResumeIngress()
	}
}

// Safety returns a token that tells later whether the filter was destroyed
// in the meantime.
func (b *Base) Safety() Safety {
	if b.life == nil {
		b.life = &lifetime{}
	}

	return Safety{life: b.life}
}

// Destroyed tells whether the filter was destroyed.
func (b *Base) Destroyed() bool {
	return b.life != nil && b.life.destroyed
}

func (b *Base) name() string {
	if b.self == nil {
		return DefaultName
	}

	return b.self.Name()
}

func (b *Base) logger() *log.Entry {
	if b.log == nil {
		b.log = log.WithField("filter", b.name())
	}

	return b.log
}

func (b *Base) checkAlive() {
	if b.Destroyed() {
		panic(fmt.Sprintf("filters: %s: used after destroy", b.name()))
	}
}

// setTransaction runs forward through every node when the chain is
// registered with a transaction, so the detach state is reset here.
func (b *Base) setTransaction(t txn.Transaction) {
	b.detached = false
	b.Next().SetTransaction(t)
}

func (b *Base) detachTransaction() {
	b.checkAlive()
	if b.detached {
		return
	}

	b.detached = true
	if b.prev.kind == SourceTransaction {
		// the transaction releases itself once this call returns
		b.prev = Source{}
		b.logger().Debug("transaction detached")
	}

	if b.next != nil {
		b.next.DetachTransaction()
	}
}

func (b *Base) detachHandler() {
	b.checkAlive()
	switch b.prev.kind {
	case SourceFilter:
		b.prev.filter.base().detachHandler()
	case SourceTransaction:
		t := b.prev.txn
		b.prev = Source{}
		t.SetHandler(nil)
		b.logger().Debug("handler detached from transaction")
	}
}

func (b *Base) destroy() {
	if b.Destroyed() {
		return
	}

	if b.life == nil {
		b.life = &lifetime{}
	}

	b.life.destroyed = true
	b.next = nil
	b.prev = Source{}
}

// bind returns the base of a filter making sure that it knows the filter
// embedding it.
func bind(f Filter) *Base {
	if f == nil {
		panic("filters: nil filter")
	}

	b := f.base()
	if b.self == nil {
		b.self = f
		b.up = &link{b: b}
	}

	return b
}

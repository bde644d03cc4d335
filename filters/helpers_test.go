package filters_test

import (
	"strings"

	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/txn"
)

// compression carries static configuration (level) and per transaction
// state (bytes).
type compression struct {
	filters.Base
	level int
	bytes int
}

func (f *compression) Name() string { return "compression" }

func (f *compression) Clone() filters.Filter { return &compression{level: f.level} }

func (f *compression) OnBody(p []byte) {
	f.bytes += len(p)
	f.Next().OnBody(p)
}

type logging struct {
	filters.Base
	lines []string
}

func (f *logging) Name() string { return "logging" }

func (f *logging) Clone() filters.Filter { return &logging{} }

func (f *logging) OnHeadersComplete(m *txn.Message) {
	f.lines = append(f.lines, m.Method+" "+m.URL)
	f.Next().OnHeadersComplete(m)
}

// rewrite upper cases the value of a header.
type rewrite struct {
	filters.Base
	header string
}

func (f *rewrite) Clone() filters.Filter { return &rewrite{header: f.header} }

func (f *rewrite) OnHeadersComplete(m *txn.Message) {
	m = m.Clone()
	m.Header.Set(f.header, strings.ToUpper(m.Header.Get(f.header)))
	f.Next().OnHeadersComplete(m)
}

// shadowing defines methods with the names of the bookkeeping events. The
// chain must never call them.
type shadowing struct {
	filters.Base
	called []string
}

func (f *shadowing) Clone() filters.Filter { return &shadowing{} }

func (f *shadowing) SetTransaction(txn.Transaction) { f.called = append(f.called, "setTransaction") }
func (f *shadowing) DetachTransaction()             { f.called = append(f.called, "detachTransaction") }
func (f *shadowing) OnEgressPaused()                { f.called = append(f.called, "egressPaused") }
func (f *shadowing) OnEgressResumed()               { f.called = append(f.called, "egressResumed") }

func (f *shadowing) OnPushedTransaction(txn.Transaction) {
	f.called = append(f.called, "pushedTransaction")
}

func (f *shadowing) OnExTransaction(txn.Transaction) {
	f.called = append(f.called, "exTransaction")
}

func testMessage() *txn.Message {
	return &txn.Message{
		Method: "GET",
		URL:    "/foo",
		Proto:  "HTTP/1.1",
		Header: txn.Header{"Accept-Encoding": []string{"gzip"}},
	}
}

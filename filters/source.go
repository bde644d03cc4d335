package filters

import (
	"fmt"

	"github.com/zalando/msgfilter/txn"
)

// SourceKind tells what the backward source of a filter is.
type SourceKind int

const (
	// SourceNone means that the filter has no producer, either because it
	// was not wired yet, or because it was detached.
	SourceNone SourceKind = iota

	// SourceFilter means that the producer is another filter.
	SourceFilter

	// SourceTransaction means that the filter is the head of the chain and
	// its producer is the transaction.
	SourceTransaction
)

func (k SourceKind) String() string {
	switch k {
	case SourceNone:
		return "none"
	case SourceFilter:
		return "filter"
	case SourceTransaction:
		return "transaction"
	default:
		return fmt.Sprintf("source(%d)", int(k))
	}
}

// Source is the backward reference of a filter. It is exactly one of a
// filter, a transaction or nothing.
type Source struct {
	kind   SourceKind
	filter Filter
	txn    txn.Transaction
}

func filterSource(f Filter) Source {
	return Source{kind: SourceFilter, filter: f}
}

func transactionSource(t txn.Transaction) Source {
	return Source{kind: SourceTransaction, txn: t}
}

// Kind returns which variant of the source is set.
func (s Source) Kind() SourceKind { return s.kind }

// Filter returns the producing filter, or nil when the source is not a
// filter.
func (s Source) Filter() Filter {
	if s.kind != SourceFilter {
		return nil
	}

	return s.filter
}

// Transaction returns the producing transaction, or nil when the source is
// not the transaction.
func (s Source) Transaction() txn.Transaction {
	if s.kind != SourceTransaction {
		return nil
	}

	return s.txn
}

func (s Source) String() string { return s.kind.String() }

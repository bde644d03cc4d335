package filters

import (
	"errors"

	"github.com/zalando/msgfilter/txn"
)

// DefaultName is returned by Name for filters that don't provide their own.
const DefaultName = "Unknown"

var (
	// ErrInvalidFilterParameters is returned by Spec.CreateFilter when the
	// arguments don't fit the filter.
	ErrInvalidFilterParameters = errors.New("invalid filter parameters")

	// ErrUnknownFilter is returned when a filter spec is not found in the
	// registry.
	ErrUnknownFilter = errors.New("unknown filter")
)

// Events are the transaction events that a filter may shadow. The default
// implementations in Base pass the event to the forward target unchanged.
type Events interface {
	OnHeadersComplete(*txn.Message)
	OnBody([]byte)
	OnChunkHeader(length int)
	OnChunkComplete()
	OnTrailers(txn.Header)
	OnEOM()
	OnUpgrade(txn.UpgradeProtocol)
	OnError(*txn.Error)
}

// Filter is a member of a filter chain. Implementations need to embed Base.
type Filter interface {
	Events

	// Name identifies the filter in logs and metrics.
	Name() string

	// Clone returns a new, unwired filter with the same configuration.
	// The clone must not share any per transaction state with the
	// original.
	Clone() Filter

	// Pause is called by the forward target when it cannot accept more
	// events.
	Pause()

	// Resume is called by the forward target when it can accept events
	// again. The offset tells how many bytes of the body the caller has
	// already accounted for.
	Resume(offset uint64)

	base() *Base
}

// Spec objects create filter instances from their arguments, typically
// taken from the pipeline configuration.
type Spec interface {

	// Name of the filter as referenced in the configuration.
	Name() string

	// CreateFilter returns a new filter. The arguments are the ones from
	// the configuration, decoded from YAML, so they are strings, ints,
	// float64 values, bools, lists or maps.
	CreateFilter(args []any) (Filter, error)
}

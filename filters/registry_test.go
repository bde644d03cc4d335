package filters_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/filters/filtertest"
)

type failingSpec struct{}

func (failingSpec) Name() string { return "failing" }

func (failingSpec) CreateFilter([]any) (filters.Filter, error) {
	return nil, filters.ErrInvalidFilterParameters
}

func TestRegistry(t *testing.T) {
	r := make(filters.Registry)
	r.Register(&filtertest.Spec{SpecName: "foo"})
	r.Register(&filtertest.Spec{SpecName: "bar"})
	r.Register(failingSpec{})

	f, err := r.CreateFilter("foo", []any{"baz", 3})
	require.NoError(t, err)
	assert.Equal(t, "foo", f.Name())
	assert.Equal(t, []any{"baz", 3}, f.(*filtertest.Filter).Args)

	_, err = r.CreateFilter("qux", nil)
	assert.True(t, errors.Is(err, filters.ErrUnknownFilter))

	_, err = r.CreateFilter("failing", nil)
	assert.True(t, errors.Is(err, filters.ErrInvalidFilterParameters))
	assert.EqualError(t, err, "failed to create filter failing: invalid filter parameters")
}

func TestRegistryReplaces(t *testing.T) {
	r := make(filters.Registry)
	first := &filtertest.Spec{SpecName: "foo"}
	second := &filtertest.Spec{SpecName: "foo"}
	r.Register(first)
	r.Register(second)

	assert.Len(t, r, 1)
	assert.Same(t, second, r["foo"])
}

package pipeline_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando/msgfilter/config"
	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/filters/filtertest"
	"github.com/zalando/msgfilter/logging/loggingtest"
	"github.com/zalando/msgfilter/metrics/metricstest"
	"github.com/zalando/msgfilter/pipeline"
	"github.com/zalando/msgfilter/txn"
)

type levelSpec struct{}

type level struct {
	filters.Base
	level int
}

func (levelSpec) Name() string { return "level" }

func (levelSpec) CreateFilter(args []any) (filters.Filter, error) {
	a := filters.Args(args)
	l := a.OptionalInt(6)
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", filters.ErrInvalidFilterParameters, err)
	}

	return &level{level: l}, nil
}

func (f *level) Name() string          { return "level" }
func (f *level) Clone() filters.Filter { return &level{level: f.level} }

func testRegistry() filters.Registry {
	r := make(filters.Registry)
	r.Register(&filtertest.Spec{SpecName: "first"})
	r.Register(&filtertest.Spec{SpecName: "second"})
	r.Register(levelSpec{})
	return r
}

func testPipelines() config.Pipelines {
	return config.Pipelines{
		"default": {
			{Name: "first"},
			{Name: "level", Args: []any{9}},
			{Name: "second"},
		},
		"short": {
			{Name: "second"},
		},
		"empty": {},
	}
}

type fixture struct {
	factory *pipeline.Factory
	metrics *metricstest.MockMetrics
	log     *loggingtest.TestLogger
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	m := &metricstest.MockMetrics{}
	l := loggingtest.New()
	f, err := pipeline.New(pipeline.Options{
		Registry:  testRegistry(),
		Pipelines: testPipelines(),
		Default:   "default",
		Metrics:   m,
		Log:       l,
	})

	require.NoError(t, err)
	return fixture{factory: f, metrics: m, log: l}
}

func names(fs []filters.Filter) []string {
	var n []string
	for _, f := range fs {
		n = append(n, f.Name())
	}

	return n
}

func prevKind(f filters.Filter) filters.SourceKind {
	return f.(interface{ Prev() filters.Source }).Prev().Kind()
}

func TestAttach(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	c, err := fx.factory.Attach(tr, h)
	require.NoError(t, err)

	assert.Equal(t, "default", c.Pipeline())
	assert.Equal(t, []string{"first", "level", "second"}, names(c.Filters()))
	assert.Equal(t, 9, c.Filters()[1].(*level).level)

	assert.Same(t, c.Head(), tr.Handler)
	assert.Equal(t, 1, tr.SetHandlerCalls)
	assert.Same(t, tr, h.Transaction)
	assert.Equal(t, []string{filtertest.SetTransaction}, h.Kinds())
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyCreated))

	tr.Handler.OnHeadersComplete(&txn.Message{Method: "GET", URL: "/"})
	tr.Handler.OnBody([]byte("foo"))
	tr.Handler.OnEOM()

	assert.Equal(t, []byte("foo"), h.BodyBytes())
	assert.Equal(t, []string{filtertest.HeadersComplete, filtertest.Body, filtertest.EOM}, c.Filters()[0].(*filtertest.Filter).Seen)
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("headers")))
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("body")))
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("eom")))
	assert.Equal(t, 1, fx.log.Count("created from pipeline default"))
}

func TestAttachPipeline(t *testing.T) {
	fx := newFixture(t)

	c, err := fx.factory.AttachPipeline("short", &filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, names(c.Filters()))

	c, err = fx.factory.AttachPipeline("empty", &filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	_, err = fx.factory.AttachPipeline("missing", &filtertest.Transaction{}, &filtertest.Handler{})
	assert.True(t, errors.Is(err, config.ErrNoPipeline))
	assert.Equal(t, int64(2), fx.metrics.Counter(pipeline.KeyCreated))
}

func TestEmptyPipelinePassesEvents(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	_, err := fx.factory.AttachPipeline("empty", tr, h)
	require.NoError(t, err)

	tr.Handler.OnBody([]byte("bar"))
	tr.Handler.OnEgressPaused()
	assert.Equal(t, []string{filtertest.SetTransaction, filtertest.Body, filtertest.EgressPaused}, h.Kinds())
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("egresspaused")))
}

func TestFreshFiltersPerTransaction(t *testing.T) {
	fx := newFixture(t)

	c1, err := fx.factory.Attach(&filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)
	c2, err := fx.factory.Attach(&filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)

	for i := range c1.Filters() {
		assert.NotSame(t, c1.Filters()[i], c2.Filters()[i])
	}

	assert.NotEqual(t, c1.ID(), c2.ID())
}

func TestNoPipelines(t *testing.T) {
	f, err := pipeline.New(pipeline.Options{Default: "default"})
	require.NoError(t, err)

	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}
	c, err := f.Attach(tr, h)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	tr.Handler.OnEOM()
	assert.Equal(t, []string{filtertest.SetTransaction, filtertest.EOM}, h.Kinds())

	_, err = f.AttachPipeline("other", tr, h)
	assert.True(t, errors.Is(err, config.ErrNoPipeline))
}

func TestInvalidPipelines(t *testing.T) {
	for _, tt := range []struct {
		name      string
		pipelines config.Pipelines
		def       string
		err       error
	}{{
		name:      "unknown filter",
		pipelines: config.Pipelines{"default": {{Name: "missing"}}},
		def:       "default",
		err:       filters.ErrUnknownFilter,
	}, {
		name:      "invalid arguments",
		pipelines: config.Pipelines{"default": {{Name: "level", Args: []any{"high"}}}},
		def:       "default",
		err:       filters.ErrInvalidFilterParameters,
	}, {
		name:      "too many arguments",
		pipelines: config.Pipelines{"default": {{Name: "level", Args: []any{1, 2}}}},
		def:       "default",
		err:       filters.ErrInvalidFilterParameters,
	}, {
		name:      "missing default",
		pipelines: config.Pipelines{"other": {{Name: "first"}}},
		def:       "default",
		err:       config.ErrNoPipeline,
	}} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.New(pipeline.Options{
				Registry:  testRegistry(),
				Pipelines: tt.pipelines,
				Default:   tt.def,
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), err.Error())
		})
	}
}

func TestDetachTransaction(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	c, err := fx.factory.Attach(tr, h)
	require.NoError(t, err)

	tr.Detach()
	tr.Detach()

	assert.Equal(t, 1, h.Count(filtertest.DetachTransaction))
	assert.Nil(t, h.Transaction)
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyDetachTransaction))
	assert.Equal(t, filters.SourceNone, prevKind(c.Filters()[0]))
}

func TestDetachHandler(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	c, err := fx.factory.Attach(tr, h)
	require.NoError(t, err)

	c.DetachHandler()

	assert.Nil(t, tr.Handler)
	assert.Equal(t, 2, tr.SetHandlerCalls)
	assert.Equal(t, 0, h.Count(filtertest.DetachTransaction))
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyDetachHandler))
	assert.Equal(t, filters.SourceNone, prevKind(c.Filters()[0]))
}

func TestFlowControl(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}

	c, err := fx.factory.Attach(tr, &filtertest.Handler{})
	require.NoError(t, err)

	c.Pause()
	assert.True(t, tr.Paused)

	c.Resume(3)
	assert.False(t, tr.Paused)
	for _, f := range c.Filters() {
		assert.Equal(t, uint64(3), f.(interface{ ResumeOffset() uint64 }).ResumeOffset())
	}
}

func TestDerive(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	parent, err := fx.factory.Attach(tr, h)
	require.NoError(t, err)

	pushed := &filtertest.Transaction{}
	tr.Handler.OnPushedTransaction(pushed)
	require.Equal(t, 1, h.Count(filtertest.PushedTransaction))
	assert.Same(t, pushed, h.Events[len(h.Events)-1].Transaction)

	ph := &filtertest.Handler{}
	derived := parent.Derive(pushed, ph)

	assert.Equal(t, "default", derived.Pipeline())
	assert.Equal(t, names(parent.Filters()), names(derived.Filters()))
	assert.Equal(t, 9, derived.Filters()[1].(*level).level)
	for i := range parent.Filters() {
		assert.NotSame(t, parent.Filters()[i], derived.Filters()[i])
	}

	assert.Same(t, derived.Head(), pushed.Handler)
	assert.Same(t, pushed, ph.Transaction)
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyCloned))
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyCreated))

	pushed.Handler.OnBody([]byte("pushed"))
	assert.Equal(t, []byte("pushed"), ph.BodyBytes())
	assert.Empty(t, h.BodyBytes())
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("pushed")))
	assert.Equal(t, 1, fx.log.Count("derived from chain "+parent.ID()))
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	require.NoError(t, cfg.ParseArgs("msgfilter", []string{"-config-file", "../config/testdata/test.yaml"}))

	r := make(filters.Registry)
	r.Register(&filtertest.Spec{SpecName: "compress"})
	r.Register(&filtertest.Spec{SpecName: "accessLog"})

	f, err := pipeline.NewFromConfig(cfg, r, &metricstest.MockMetrics{})
	require.NoError(t, err)

	c, err := f.Attach(&filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, "upstream", c.Pipeline())
	assert.Equal(t, []string{"compress", "accessLog"}, names(c.Filters()))
	assert.Equal(t, []any{6}, c.Filters()[0].(*filtertest.Filter).Args)
}

func TestCloneIsDerive(t *testing.T) {
	fx := newFixture(t)
	parent, err := fx.factory.Attach(&filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)

	ex := &filtertest.Transaction{}
	eh := &filtertest.Handler{}
	c := parent.Clone(ex, eh)

	assert.Same(t, c.Head(), ex.Handler)
	assert.Same(t, ex, eh.Transaction)
	assert.Equal(t, "default", c.Pipeline())
	assert.Equal(t, int64(1), fx.metrics.Counter(pipeline.KeyCloned))

	ex.Handler.OnEOM()
	assert.Equal(t, 1, fx.metrics.Measures(pipeline.EventKey("eom")))
}

func TestAttachTwice(t *testing.T) {
	fx := newFixture(t)
	c, err := fx.factory.Attach(&filtertest.Transaction{}, &filtertest.Handler{})
	require.NoError(t, err)

	assert.Panics(t, func() { c.Attach() })
	assert.Panics(t, func() { c.Chain.Attach() })
}

func TestReattachCountsEveryDetach(t *testing.T) {
	fx := newFixture(t)
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}

	c, err := fx.factory.Attach(tr, h)
	require.NoError(t, err)
	tr.Detach()

	other := &filtertest.Transaction{}
	filters.SetPrevTransaction(c.Filters()[0], other)
	other.SetHandler(c.Head())
	other.Detach()

	assert.Equal(t, 2, h.Count(filtertest.DetachTransaction))
	assert.Equal(t, int64(2), fx.metrics.Counter(pipeline.KeyDetachTransaction))
}

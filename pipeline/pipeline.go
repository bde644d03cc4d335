package pipeline

import (
	"fmt"

	"github.com/zalando/msgfilter/config"
	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/logging"
	"github.com/zalando/msgfilter/metrics"
	"github.com/zalando/msgfilter/txn"
)

// Options to initialize the Factory.
type Options struct {

	// Registry of the filter specs referenced by the pipelines.
	Registry filters.Registry

	// Pipelines to build the chains from.
	Pipelines config.Pipelines

	// Default is the name of the pipeline used by Attach. When there are
	// no pipelines configured, Attach registers the handler with the
	// transaction without filters.
	Default string

	// Metrics backend. When not set, the metrics are discarded.
	Metrics metrics.Metrics

	// Log is used to log the chain lifecycle. When not set, the default
	// application log is used.
	Log logging.Logger
}

// Factory creates the filter chains of the transactions.
type Factory struct {
	registry  filters.Registry
	pipelines config.Pipelines
	def       string
	metrics   metrics.Metrics
	log       logging.Logger
}

// New returns a Factory. It creates the filters of every pipeline once, to
// report invalid definitions early.
func New(o Options) (*Factory, error) {
	f := &Factory{
		registry:  o.Registry,
		pipelines: o.Pipelines,
		def:       o.Default,
		metrics:   o.Metrics,
		log:       o.Log,
	}

	if f.registry == nil {
		f.registry = make(filters.Registry)
	}

	if f.metrics == nil {
		f.metrics = metrics.NewVoid()
	}

	if f.log == nil {
		f.log = logging.New()
	}

	for _, name := range f.pipelines.Names() {
		if _, err := f.Build(name); err != nil {
			return nil, err
		}

		f.log.Debugf("pipeline %s: %v", name, f.pipelines[name])
	}

	if len(f.pipelines) > 0 {
		if _, err := f.pipelines.Get(f.def); err != nil {
			return nil, fmt.Errorf("invalid default pipeline: %w", err)
		}
	}

	return f, nil
}

// NewFromConfig returns a Factory from the pipelines of the configuration.
func NewFromConfig(c *config.Config, r filters.Registry, m metrics.Metrics) (*Factory, error) {
	return New(Options{
		Registry:  r,
		Pipelines: c.Pipelines,
		Default:   c.DefaultPipeline,
		Metrics:   m,
	})
}

// Build creates new, unwired filters of a pipeline.
func (f *Factory) Build(name string) ([]filters.Filter, error) {
	if len(f.pipelines) == 0 && name == f.def {
		return nil, nil
	}

	defs, err := f.pipelines.Get(name)
	if err != nil {
		return nil, err
	}

	fs := make([]filters.Filter, 0, len(defs))
	for _, d := range defs {
		flt, err := f.registry.CreateFilter(d.Name, d.Args)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: %w", name, err)
		}

		fs = append(fs, flt)
	}

	return fs, nil
}

// Attach builds a chain from the default pipeline and registers it with
// the transaction.
func (f *Factory) Attach(t txn.Transaction, h txn.Handler) (*Chain, error) {
	return f.AttachPipeline(f.def, t, h)
}

// AttachPipeline builds a chain from the named pipeline and registers it
// with the transaction.
func (f *Factory) AttachPipeline(name string, t txn.Transaction, h txn.Handler) (*Chain, error) {
	fs, err := f.Build(name)
	if err != nil {
		return nil, err
	}

	c := f.wrap(name, filters.NewChain(t, h, fs...))
	f.metrics.IncCounter(KeyCreated)
	f.log.Debugf("chain %s created from pipeline %s: %v", c.ID(), name, c)

	c.Attach()
	return c, nil
}

// Derive returns the chain of a transaction derived from the one of the
// parent chain, e.g. a pushed transaction. The filters are the clones of
// the filters of the parent, and the chain is registered with the derived
// transaction.
func (f *Factory) Derive(parent *Chain, t txn.Transaction, h txn.Handler) *Chain {
	c := f.wrap(parent.pipeline, parent.Chain.Clone(t, h))
	f.metrics.IncCounter(KeyCloned)
	f.log.Debugf("chain %s derived from chain %s", c.ID(), parent.ID())

	c.Attach()
	return c
}

func (f *Factory) wrap(pipeline string, fc *filters.Chain) *Chain {
	c := &Chain{
		Chain:    fc,
		factory:  f,
		pipeline: pipeline,
	}

	c.meter = &meter{next: fc.Head(), metrics: f.metrics}
	return c
}

// Chain is a filter chain created by the Factory.
type Chain struct {
	*filters.Chain
	factory  *Factory
	pipeline string
	meter    *meter
}

// Pipeline returns the name of the pipeline that the chain was built from.
func (c *Chain) Pipeline() string { return c.pipeline }

// Head returns the handler registered with the transaction.
func (c *Chain) Head() txn.Handler { return c.meter }

// Attach registers the chain with the transaction.
func (c *Chain) Attach() {
	c.MarkAttached()
	c.Transaction().SetHandler(c.meter)
}

// Clone returns the chain of a derived transaction, and it is the same as
// Derive: the clone is counted, measured and registered with t.
func (c *Chain) Clone(t txn.Transaction, h txn.Handler) *Chain {
	return c.Derive(t, h)
}

// DetachHandler is used by the application handler to leave the
// transaction early.
func (c *Chain) DetachHandler() {
	c.factory.metrics.IncCounter(KeyDetachHandler)
	c.factory.log.Debugf("chain %s: handler detached", c.ID())
	c.Chain.DetachHandler()
}

// Derive is a shortcut for Factory.Derive.
func (c *Chain) Derive(t txn.Transaction, h txn.Handler) *Chain {
	return c.factory.Derive(c, t, h)
}

/*
Package pipeline builds the filter chains of the transactions from the
configured pipelines.

A pipeline is a named list of filter definitions. The Factory creates the
filters of a pipeline from a filters.Registry for every transaction, wires
them between the transaction and the application handler, and registers
the chain with the transaction:

	f, err := pipeline.New(pipeline.Options{
		Registry:  registry,
		Pipelines: cfg.Pipelines,
		Default:   cfg.DefaultPipeline,
		Metrics:   m,
	})
	if err != nil {
		return err
	}

	c, err := f.Attach(t, h)

When the transaction notifies the handler of a pushed or extended
transaction, the handler derives the chain of the new transaction from its
own with Derive. The derived chain clones the filters of the parent.

The Factory records the following metrics:

	filterchain.created
	filterchain.cloned
	filterchain.detach.transaction
	filterchain.detach.handler
	filterchain.event.<event>

where the last one measures how long the events take to pass through the
chain, by event: headers, body, chunkheader, chunkcomplete, trailers, eom,
upgrade, error, egresspaused, egressresumed, pushed and ex.
*/
package pipeline

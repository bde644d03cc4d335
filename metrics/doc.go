/*
Package metrics implements the collection of the filter chain metrics.

Two backends are available. The CodaHale backend uses the Go
implementation of the Coda Hale metrics library:

https://github.com/rcrowley/go-metrics

and serves the current values as JSON. The Prometheus backend uses:

https://github.com/prometheus/client_golang

and records every key as a label of the custom counter, gauge and
histogram vectors. Both can be enabled at the same time.

The keys recorded by the pipeline package are documented there.
*/
package metrics

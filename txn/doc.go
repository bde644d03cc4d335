/*
Package txn defines the contracts between an HTTP transaction, the
application handler consuming its events, and anything spliced in between.

A Transaction produces protocol events and delivers them, in order, to
exactly one Handler. The handler registered with a transaction may be the
application handler itself, or the head of a filter chain built with the
filters package. In either case the transaction calls SetTransaction once,
after the handler was registered, and DetachTransaction once, right before
it releases itself.

Payload types are kept deliberately small: a Message carries the header
section of a request or response, body data is passed as byte slices and
protocol errors arrive as *Error values.
*/
package txn

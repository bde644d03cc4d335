/*
Package filters implements the message filter chain spliced between an HTTP
transaction and its application handler.

Filters

A filter is a handler of transaction events that knows its neighbours in
the chain. It has a forward target, the next consumer of the events, which
is either another filter or the application handler, and a backward source,
the producer of its events, which is either another filter or the
transaction itself.

To implement a filter, embed Base, and shadow only the event methods that
are relevant for the filter. All the other events are passed through to the
forward target unchanged:

    type headerLog struct {
        filters.Base
        log logging.Logger
    }

    func (f *headerLog) OnHeadersComplete(m *txn.Message) {
        f.log.Infof("%s %s", m.Method, m.URL)
        f.Next().OnHeadersComplete(m)
    }

    func (f *headerLog) Clone() filters.Filter {
        return &headerLog{log: f.log}
    }

Only the overridable events, listed by the Events interface, are delivered
to the filter itself. The bookkeeping events of the transaction handler
interface (set and detach transaction, egress paused and resumed, pushed
and ex transactions) are handled by the chain link returned by HandlerOf,
and always forwarded to the next consumer. Methods with the same names on a
concrete filter are never called by the chain.

Detaching

The objects in a chain don't own each other. A chain can be severed from
two sides:

When the transaction releases itself, it calls DetachTransaction on its
handler. The call travels forward through all the filters, and the filter
that references the transaction as its backward source drops this
reference.

When the application handler wants to leave a transaction that keeps
living, it calls DetachHandlerFromTransaction on the filter before it. The
call travels backward, and the filter referencing the transaction clears the
handler registration of the transaction and drops the reference.

After either of these, the transaction and the chain may go away
independently. Both calls are idempotent.

Flow control

When a consumer cannot accept more events, it calls Pause on the filter
before it, and Resume when it can continue. These calls travel backward and
reach the transaction as PauseIngress and ResumeIngress. A filter may
shadow them, e.g. to buffer instead.

Liveness

Filters are not reference counted. A caller holding a filter across a call
that may end the filter's life can take a Safety token before the call and
check it afterwards.

Threading

A chain is driven by the single event loop of its transaction. There is no
locking inside a chain. Different chains may be used concurrently.
*/
package filters

package txn

// Handler receives the events of a single transaction.
type Handler interface {

	// SetTransaction is called once, when the handler was registered with
	// the transaction.
	SetTransaction(Transaction)

	// DetachTransaction is called once when the transaction releases
	// itself. After it returns, the transaction must not be used anymore.
	DetachTransaction()

	// OnHeadersComplete is called when the header section of the message
	// was received.
	OnHeadersComplete(*Message)

	// OnBody is called with the next piece of the message body.
	OnBody([]byte)

	// OnChunkHeader is called when a chunk of the given length starts.
	OnChunkHeader(length int)

	// OnChunkComplete is called when the current chunk was received.
	OnChunkComplete()

	// OnTrailers is called with the trailer section of the message.
	OnTrailers(Header)

	// OnEOM is called when the message is complete.
	OnEOM()

	// OnUpgrade is called when the transaction switched protocols.
	OnUpgrade(UpgradeProtocol)

	// OnError is called when the transaction failed.
	OnError(*Error)

	// OnEgressPaused tells the handler to stop sending.
	OnEgressPaused()

	// OnEgressResumed tells the handler that it can send again.
	OnEgressResumed()

	// OnPushedTransaction is called when the transaction received a
	// pushed transaction.
	OnPushedTransaction(Transaction)

	// OnExTransaction is called when the transaction received an
	// extended transaction.
	OnExTransaction(Transaction)
}

// Transaction is the producer of the events and the owner of the handler
// registration.
type Transaction interface {

	// SetHandler registers the handler receiving the events. Passing nil
	// clears the registration, after which the transaction does not call
	// the previous handler anymore.
	SetHandler(Handler)

	// PauseIngress stops the delivery of ingress events.
	PauseIngress()

	// ResumeIngress restarts the delivery of ingress events.
	ResumeIngress()
}

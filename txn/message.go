package txn

import (
	"fmt"
	"net/http"
)

// Header is the header or trailer section of a message.
type Header = http.Header

// Message is the header section of a request or a response.
type Message struct {
	Method     string
	URL        string
	StatusCode int
	Proto      string
	Header     Header
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}

	c := *m
	c.Header = m.Header.Clone()
	return &c
}

// IsRequest tells whether the message is a request.
func (m *Message) IsRequest() bool {
	return m.Method != ""
}

// UpgradeProtocol is the protocol a transaction upgraded to.
type UpgradeProtocol int

const (
	UpgradeTCP UpgradeProtocol = iota
	UpgradeTLS
	UpgradeWebSocket
)

func (p UpgradeProtocol) String() string {
	switch p {
	case UpgradeTCP:
		return "tcp"
	case UpgradeTLS:
		return "tls"
	case UpgradeWebSocket:
		return "websocket"
	default:
		return fmt.Sprintf("upgrade(%d)", int(p))
	}
}

// Direction tells which side of the transaction an error belongs to.
type Direction int

const (
	Ingress Direction = iota
	Egress
	IngressAndEgress
)

func (d Direction) String() string {
	switch d {
	case Ingress:
		return "ingress"
	case Egress:
		return "egress"
	default:
		return "ingress and egress"
	}
}

// Error is a protocol error of a transaction.
type Error struct {
	Direction  Direction
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Direction, e.StatusCode, msg)
	}

	return fmt.Sprintf("%s error: %s", e.Direction, msg)
}

func (e *Error) Unwrap() error { return e.Err }

package websocket

import (
	"sync/atomic"
)

// sessionState tracks a connection through its lifecycle. closed is terminal
// and reachable from every other state.
type sessionState int32

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateActive
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAuthenticating:
		return "authenticating"
	case stateActive:
		return "active"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (c *Client) setState(s sessionState) {
	atomic.StoreInt32(&c.state, int32(s))
}

func (c *Client) getState() sessionState {
	return sessionState(atomic.LoadInt32(&c.state))
}

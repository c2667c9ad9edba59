package client

// State is the connection state of a Multiplexer.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	// StateClosed is terminal and only reached through Close or context cancel.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

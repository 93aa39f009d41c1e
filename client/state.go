package client

// ConnectionState identifies where the transport is in its lifecycle.
// Exactly one state holds at a time; Closed is terminal.
type ConnectionState int32

const (
	// Disconnected means no connection exists and none is being made.
	Disconnected ConnectionState = iota

	// Connecting means the initial handshake is in flight.
	Connecting

	// Connected means the read loop is consuming the stream.
	Connected

	// Reconnecting means a read error occurred and the backoff loop is
	// trying to re-establish the stream.
	Reconnecting

	// Closed means Close was called. Terminal.
	Closed
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Package client implements the AG-UI streaming transport: one long-lived
// HTTP connection carrying Server-Sent Events, decoded into wire events and
// delivered through a bounded queue.
//
// A [Client] owns a connection state machine (Disconnected, Connecting,
// Connected, Reconnecting, Closed). [Client.Connect] issues the streaming
// GET and spawns a background read loop; read errors drive automatic
// reconnection with exponential backoff when enabled. Caller-initiated
// cancellation is distinguished from network failure and never triggers a
// reconnect.
//
// Backpressure is explicit: when the event queue stays full past a grace
// period the incoming event is dropped and a warning logged, rather than
// stalling the stream or killing the connection.
//
// # Usage
//
//	c, err := client.New(client.Config{
//	    Endpoint: "http://localhost:8080/api/agent",
//	    Headers:  map[string]string{"Authorization": "Bearer ..."},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for ev := range c.Events() {
//	    handle(ev)
//	}
//
// Health counters (bytes, frames, events, drops, parse errors, reconnect
// attempts, event rate) are available as a point-in-time snapshot via
// [Client.Health] and can be exported through OpenTelemetry with
// [Client.InstrumentMetrics]; they never affect correctness.
package client

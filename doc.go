// Package agwire provides the shared data model for the agwire runtime, a
// client-side implementation of the AG-UI protocol.
//
// AG-UI is a streamed, event-based wire protocol that lets a frontend observe
// an AI agent's execution (message generation, tool invocation, and state
// mutation) in real time over a single long-lived HTTP response. The agwire
// runtime consumes that stream and turns it into a consistent read model.
//
// # Packages
//
// The runtime is split into focused packages:
//
//   - [github.com/agwire/agwire/event]: the wire event model and JSON codec
//   - [github.com/agwire/agwire/sse]: Server-Sent Events framing
//   - [github.com/agwire/agwire/client]: the streaming transport with
//     reconnection, backpressure, and health tracking
//   - [github.com/agwire/agwire/run]: the event accumulator and state
//     synchronizer that assembles deltas into finished messages, tool calls,
//     and reconciled application state
//   - [github.com/agwire/agwire/state]: RFC 6902 JSON Patch application
//   - [github.com/agwire/agwire/store]: read-model persistence
//   - [github.com/agwire/agwire/mcp]: bridging frontend tool calls to MCP
//     servers
//
// # Basic Usage
//
// Connect to an AG-UI endpoint and consume the reconciled view:
//
//	c, err := client.New(client.Config{Endpoint: "http://localhost:8080/api/agent"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	proc := run.NewProcessor(run.Config{})
//	proc.OnFlush(func(v *run.View) { render(v) })
//	proc.Run(ctx, c.Events())
//
// The root package holds the entities those packages exchange: [Message],
// [ToolCall], the role and status enumerations, ID generators, and the typed
// error taxonomy ([TransportError], [DecodingError], [ProtocolViolationError],
// and friends).
package agwire

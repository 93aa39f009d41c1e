package agwire

import (
	"fmt"
	"time"
)

// TransportError reports a failed HTTP exchange: a refused connection or a
// non-2xx response on the streaming endpoint.
type TransportError struct {
	// Endpoint is the URL the transport was talking to.
	Endpoint string
	// StatusCode is the HTTP status, 0 when the connection never completed.
	StatusCode int
	// Err is the underlying error, nil for pure status failures.
	Err error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("transport: %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError reports a connect, read, or shutdown deadline being exceeded.
type TimeoutError struct {
	// Op names the operation that timed out ("connect", "read", "close").
	Op string
	// Timeout is the deadline that was exceeded.
	Timeout time.Duration
	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %s exceeded %s", e.Op, e.Timeout)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error { return e.Err }

// CancellationError reports a caller-initiated cancellation. It is
// distinguished from network failures so the transport never reconnects in
// response to one.
type CancellationError struct {
	// Op names the operation that was cancelled.
	Op string
	// Err is the context error that triggered the cancellation.
	Err error
}

// Error returns the error message.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying context error.
func (e *CancellationError) Unwrap() error { return e.Err }

// DecodingError reports a frame whose payload could not be decoded into an
// event: malformed JSON or an unknown type discriminator.
type DecodingError struct {
	// Msg describes what failed.
	Msg string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message.
func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Msg, e.Err)
	}
	return "decode: " + e.Msg
}

// Unwrap returns the underlying error.
func (e *DecodingError) Unwrap() error { return e.Err }

// ValidationError reports a well-formed event payload that violates a field
// constraint, such as an empty delta or a missing required identifier.
type ValidationError struct {
	// Field names the offending field in its camelCase wire form.
	Field string
	// Msg describes the constraint that was violated.
	Msg string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: field %q: %s", e.Field, e.Msg)
}

// Lifecycle rules reported by ProtocolViolationError.
const (
	RuleRunLifecycle      = "run-lifecycle"
	RuleMessageLifecycle  = "message-lifecycle"
	RuleToolCallLifecycle = "tool-call-lifecycle"
)

// ProtocolViolationError reports an event that arrived out of order with
// respect to the run, message, or tool-call lifecycle.
type ProtocolViolationError struct {
	// Rule identifies the violated ordering rule, one of the Rule constants.
	Rule string
	// Msg describes the violation.
	Msg string
}

// Error returns the error message.
func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation (%s): %s", e.Rule, e.Msg)
}

// StateSyncError reports a STATE_DELTA whose JSON Patch failed to apply. The
// whole delta is rejected; state is left at its pre-delta value.
type StateSyncError struct {
	// OpIndex is the zero-based index of the failing operation.
	OpIndex int
	// Path is the JSON Pointer path of the failing operation.
	Path string
	// Err is the underlying patch error.
	Err error
}

// Error returns the error message.
func (e *StateSyncError) Error() string {
	return fmt.Sprintf("state sync: op %d at %q: %v", e.OpIndex, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StateSyncError) Unwrap() error { return e.Err }

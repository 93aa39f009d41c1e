// Package run assembles the AG-UI event stream into a consistent read model.
//
// An [Accumulator] owns the state of one run: it enforces the run, message,
// and tool-call lifecycles, concatenates streaming deltas into finished
// messages and tool calls, and keeps the run's application state synchronized
// through STATE_SNAPSHOT and STATE_DELTA events. Lifecycle violations and
// failed patches surface as typed errors; they never corrupt the model, and a
// later well-formed event sequence proceeds cleanly.
//
// A [Processor] drives accumulators from a transport event channel: it
// creates one accumulator per thread on RUN_STARTED, routes events to the
// open run, destroys the accumulator on RUN_FINISHED or RUN_ERROR, and
// notifies subscribers with a fresh [View] snapshot after every applied
// event. Exactly one goroutine feeds a processor, so no run is ever mutated
// concurrently.
package run

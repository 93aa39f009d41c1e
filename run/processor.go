package run

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/event"
)

// Config configures a Processor.
type Config struct {
	// Logger receives warnings for errors no OnError subscriber handles.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Processor drives run accumulators from a transport event stream. It opens
// one accumulator per thread on RUN_STARTED, routes every other event to the
// currently open run, and notifies flush subscribers with a detached [View]
// after each applied event. Lifecycle and state-sync errors go to error
// subscribers and never stop the stream.
type Processor struct {
	logger *slog.Logger

	mu       sync.Mutex
	accums   map[string]*Accumulator
	current  *Accumulator
	flushFns []func(*View)
	errFns   []func(error)
}

// NewProcessor creates a processor with no open runs.
func NewProcessor(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		accums: make(map[string]*Accumulator),
	}
}

// OnFlush registers fn to be called with a snapshot after every applied
// event. The final snapshot of a run has Finished set. Subscribers must not
// mutate the view.
func (p *Processor) OnFlush(fn func(*View)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushFns = append(p.flushFns, fn)
}

// OnError registers fn to receive decoding, lifecycle, and state-sync errors.
// With no subscriber, errors are logged at warning level.
func (p *Processor) OnError(fn func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errFns = append(p.errFns, fn)
}

// Run consumes events until the channel closes or ctx is cancelled. It is
// the single consumer of the channel; call it from exactly one goroutine.
func (p *Processor) Run(ctx context.Context, events <-chan event.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.Process(ev)
		}
	}
}

// Process applies one event, routing it to the right accumulator. Errors are
// delivered to subscribers rather than returned so a malformed sequence never
// interrupts the stream.
func (p *Processor) Process(ev event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := ev.(type) {
	case *event.RunStarted:
		if open, ok := p.accums[e.ThreadID]; ok {
			p.report(&agwire.ProtocolViolationError{
				Rule: agwire.RuleRunLifecycle,
				Msg:  fmt.Sprintf("RUN_STARTED %s on thread %s while run %s is open", e.RunID, e.ThreadID, open.runID),
			})
			return
		}
		a := NewAccumulator(e.ThreadID, e.RunID)
		p.accums[e.ThreadID] = a
		p.current = a
		p.flush(a)

	case *event.RunFinished:
		a, ok := p.accums[e.ThreadID]
		if !ok || a.runID != e.RunID {
			p.report(&agwire.ProtocolViolationError{
				Rule: agwire.RuleRunLifecycle,
				Msg:  fmt.Sprintf("RUN_FINISHED for run %s on thread %s with no matching RUN_STARTED", e.RunID, e.ThreadID),
			})
			return
		}
		p.applyAndClose(a, ev)

	case *event.RunError:
		// RUN_ERROR carries no identifiers; it terminates the open run.
		if p.current == nil {
			p.report(&agwire.ProtocolViolationError{
				Rule: agwire.RuleRunLifecycle,
				Msg:  "RUN_ERROR with no open run",
			})
			return
		}
		p.applyAndClose(p.current, ev)

	default:
		if p.current == nil {
			p.report(&agwire.ProtocolViolationError{
				Rule: agwire.RuleRunLifecycle,
				Msg:  fmt.Sprintf("event %s outside an open run", ev.Type()),
			})
			return
		}
		if err := p.current.Apply(ev); err != nil {
			p.report(err)
			return
		}
		p.flush(p.current)
	}
}

// View returns a snapshot of the open run on the given thread, nil if none.
func (p *Processor) View(threadID string) *View {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.accums[threadID]
	if !ok {
		return nil
	}
	return a.View()
}

func (p *Processor) applyAndClose(a *Accumulator, ev event.Event) {
	if err := a.Apply(ev); err != nil {
		p.report(err)
		return
	}
	p.flush(a)
	delete(p.accums, a.threadID)
	if p.current == a {
		p.current = nil
	}
}

func (p *Processor) flush(a *Accumulator) {
	v := a.View()
	for _, fn := range p.flushFns {
		fn(v)
	}
}

func (p *Processor) report(err error) {
	if len(p.errFns) == 0 {
		p.logger.Warn("event rejected", "error", err)
		return
	}
	for _, fn := range p.errFns {
		fn(err)
	}
}

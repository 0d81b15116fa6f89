package audit

import (
	"context"
	"log"
	"sync"
)

const (
	// DefaultCapacity bounds how many events the in-memory ring retains.
	DefaultCapacity = 1000
	// DefaultWindow is the read-back window served by Recent.
	DefaultWindow = 50
)

// Recorder persists events behind the in-memory ring. Implementations
// live in internal/database.
type Recorder interface {
	Record(ctx context.Context, event Event) error
	Recent(ctx context.Context, n int) ([]Event, error)
}

// Ledger is an append-only, arrival-ordered event log. Appends are
// serialized so the sequence counter defines audit truth even under
// concurrent requests. The ring keeps the newest Capacity events in
// memory; an optional Recorder persists every append.
type Ledger struct {
	mu     sync.Mutex
	events []Event
	seq    uint64

	capacity int
	window   int
	recorder Recorder
	sinks    []Sink
	logger   *log.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCapacity sets how many events the ring retains.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithWindow sets the default Recent window.
func WithWindow(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.window = n
		}
	}
}

// WithRecorder attaches a persistence backend.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// WithSink attaches an additional delivery sink.
func WithSink(s Sink) Option {
	return func(l *Ledger) { l.sinks = append(l.sinks, s) }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger creates a ledger with the given options.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		capacity: DefaultCapacity,
		window:   DefaultWindow,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.window > l.capacity {
		l.capacity = l.window
	}
	return l
}

// Append records an event. The sequence number is assigned under the
// lock, so arrival order at the ledger is the recorded order. The
// recorder and sinks run under the same lock; they see events in seq
// order, so persisted order matches ledger order across restarts.
// Append itself never fails; persistence problems are logged and do
// not affect the in-memory record. Events are appended whole or not
// at all; callers build the complete Event before calling.
func (l *Ledger) Append(ctx context.Context, event Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	if len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}

	if l.recorder != nil {
		if err := l.recorder.Record(ctx, event); err != nil {
			l.logger.Printf("audit: failed to persist event %s: %v", event.ID, err)
		}
	}
	for _, sink := range l.sinks {
		sink.Emit(event)
	}
	return event
}

// Recent returns the newest n events in insertion order (oldest of the
// window first). n <= 0 uses the configured default window.
func (l *Ledger) Recent(n int) []Event {
	if n <= 0 {
		n = l.window
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	start := len(l.events) - n
	if start < 0 {
		start = 0
	}
	out := make([]Event, len(l.events)-start)
	copy(out, l.events[start:])
	return out
}

// Window returns the configured default read-back window.
func (l *Ledger) Window() int {
	return l.window
}

// Len returns the number of events currently retained in memory.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Restore loads the newest persisted events into the ring so Recent
// serves history across restarts. Call once at startup before serving.
func (l *Ledger) Restore(ctx context.Context) error {
	if l.recorder == nil {
		return nil
	}
	events, err := l.recorder.Recent(ctx, l.capacity)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = events
	for i := range l.events {
		l.seq++
		l.events[i].Seq = l.seq
	}
	return nil
}

package audit

import (
	"encoding/json"
	"io"
	"sync"
)

// Sink receives every appended event. Sinks are best-effort delivery;
// they must not block the ledger for long.
type Sink interface {
	Emit(event Event)
}

// JSONWriterSink writes events as JSON lines to an io.Writer, one
// event per line. Writes are serialized.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriterSink creates a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

// Emit implements Sink. Encoding errors are dropped; the ledger is the
// source of truth, the sink is an export stream.
func (s *JSONWriterSink) Emit(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}

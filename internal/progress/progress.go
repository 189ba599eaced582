// Package progress defines the message vocabulary the pipeline emits and the
// sinks that consume it. The set of message kinds is closed on the producer
// side; consumers must ignore kinds they do not recognize so the vocabulary
// can grow without breaking them.
package progress

// Severity classifies a status line for display purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Message is the closed sum of everything the pipeline reports. Each kind
// carries its own typed payload.
type Message interface {
	isMessage()
}

// Status is a human-readable status line.
type Status struct {
	Text     string
	Severity Severity
}

// Progress reports completion of the current item, 0..1.
type Progress struct {
	Fraction float64
}

// BatchProgress reports completion of the overall batch, 0..1.
type BatchProgress struct {
	Fraction float64
}

// Finish is the terminal message; exactly one is sent per pipeline run.
type Finish struct {
	Success bool
}

func (Status) isMessage()        {}
func (Progress) isMessage()      {}
func (BatchProgress) isMessage() {}
func (Finish) isMessage()        {}

// Sink receives pipeline messages. Implementations must be safe for use from
// the single pipeline goroutine; they are not called concurrently.
type Sink interface {
	Send(Message)
}

// FuncSink adapts a function to Sink.
type FuncSink func(Message)

// Send implements Sink.
func (f FuncSink) Send(m Message) { f(m) }

// ChannelSink forwards messages to a channel without ever blocking the
// pipeline: when the receiver falls behind, messages are dropped.
type ChannelSink struct {
	ch chan<- Message
}

// NewChannelSink creates a sink that sends to ch.
func NewChannelSink(ch chan<- Message) *ChannelSink {
	return &ChannelSink{ch: ch}
}

// Send implements Sink.
func (s *ChannelSink) Send(m Message) {
	select {
	case s.ch <- m:
	default: // Drop rather than stall the encode loop.
	}
}

// NopSink discards all messages. For tests.
type NopSink struct{}

// Send implements Sink.
func (NopSink) Send(Message) {}

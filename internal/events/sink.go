package events

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives emitted events. Emission happens after state is committed;
// sinks must not call back into the core.
type Sink interface {
	Emit(event Event)
}

// ZapSink logs every event as a structured record.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Emit(event Event) {
	s.logger.Info("event emitted",
		zap.String("event", event.Name()),
		zap.Any("payload", event),
	)
}

// Recorder captures events in order; used by tests and by the read API to
// expose recent activity.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a snapshot of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByName filters the recorded events.
func (r *Recorder) ByName(name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, event := range r.events {
		if event.Name() == name {
			out = append(out, event)
		}
	}
	return out
}

// MultiSink fans out to several sinks.
type MultiSink []Sink

func (m MultiSink) Emit(event Event) {
	for _, sink := range m {
		sink.Emit(event)
	}
}

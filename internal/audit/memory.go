package audit

import (
	"context"
	"sync"
)

// MemRecorder collects events in memory. Used by tests and as the fallback
// when no Kafka brokers are configured.
type MemRecorder struct {
	mu     sync.Mutex
	events []Event
}

func NewMemRecorder() *MemRecorder {
	return &MemRecorder{}
}

func (r *MemRecorder) Record(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *MemRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

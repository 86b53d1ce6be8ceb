package activity

import (
	"context"
	"sync"
)

// Recorder is a Hook that keeps every event it receives. Err, when set, is
// returned from each Notify.
type Recorder struct {
	Err error

	mu     sync.Mutex
	events []Event
}

// Notify records event.
func (r *Recorder) Notify(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NormalizeEvent(event))
	return r.Err
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Verbs lists the verbs of the recorded events.
func (r *Recorder) Verbs() []Verb {
	r.mu.Lock()
	defer r.mu.Unlock()
	verbs := make([]Verb, len(r.events))
	for i, event := range r.events {
		verbs[i] = event.Verb
	}
	return verbs
}

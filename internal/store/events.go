package store

import (
	"sync"
	"time"
)

// Op names a mutation kind.
type Op string

const (
	OpCreated  Op = "created"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"
	OpReplaced Op = "replaced"
)

// Change describes one committed mutation. ID is zero for whole
// collection replacements.
type Change struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         int64     `json:"id,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// listeners fans committed changes out to subscribers. Callbacks run
// synchronously on the mutating goroutine and must not block; anything
// slow should hand off to its own channel.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (l *listeners) add(fn func(Change)) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = map[int]func(Change){}
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners) emit(c Change) {
	l.mu.Lock()
	fns := make([]func(Change), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

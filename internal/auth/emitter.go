package auth

import (
	"sync"

	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/session"
)

// emitter is the change-notification registry shared by the backends.
type emitter struct {
	mu     sync.Mutex
	fns    map[int]func(session.Event, *models.Identity)
	nextID int
}

type subscription struct {
	e  *emitter
	id int
}

func (s *subscription) Unsubscribe() {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	delete(s.e.fns, s.id)
}

func (e *emitter) subscribe(fn func(session.Event, *models.Identity)) session.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fns == nil {
		e.fns = make(map[int]func(session.Event, *models.Identity))
	}
	id := e.nextID
	e.nextID++
	e.fns[id] = fn
	return &subscription{e: e, id: id}
}

func (e *emitter) emit(event session.Event, identity *models.Identity) {
	e.mu.Lock()
	fns := make([]func(session.Event, *models.Identity), 0, len(e.fns))
	for _, fn := range e.fns {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event, identity)
	}
}

func (e *emitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fns)
}

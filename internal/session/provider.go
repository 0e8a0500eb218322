// Package session tracks the signed-in identity of a browser device.
//
// A Provider wraps one auth backend. It starts out loading, resolves once
// the backend reports the current user, and afterwards follows the
// backend's change notifications. Sign-in and sign-out never set the
// identity directly; the notification path is the only writer.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/vrsandeep/nephra-go/internal/models"
)

// ErrNotConfigured is returned by SignIn and SignUp when no auth backend is configured.
var ErrNotConfigured = errors.New("Auth is not configured")

// Event names a change notification from an auth backend.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

// Subscription is a registered change callback on a backend.
type Subscription interface {
	Unsubscribe()
}

// Backend is the capability set of a third-party auth service.
type Backend interface {
	GetUser(ctx context.Context) (*models.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn func(Event, *models.Identity)) Subscription
}

// Listener is a registered identity listener. Close removes it.
type Listener struct {
	p  *Provider
	id int
}

// Close unregisters the listener. It is safe to call more than once.
func (l *Listener) Close() {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	delete(l.p.listeners, l.id)
}

// Provider owns the current identity of one device.
type Provider struct {
	backend Backend

	mu        sync.Mutex
	loading   bool
	identity  *models.Identity
	notified  bool
	listeners map[int]func(*models.Identity)
	nextID    int
	sub       Subscription
	closed    bool
	ready     chan struct{}
	readyOnce sync.Once
}

// NewProvider creates a Provider for backend. A nil backend yields a
// provider that is resolved immediately with no identity.
func NewProvider(backend Backend) *Provider {
	p := &Provider{
		backend:   backend,
		loading:   true,
		listeners: make(map[int]func(*models.Identity)),
		ready:     make(chan struct{}),
	}
	if backend == nil {
		p.resolve(nil)
		return p
	}

	p.sub = backend.OnAuthStateChange(func(_ Event, identity *models.Identity) {
		p.setIdentity(identity)
	})

	go func() {
		identity, err := backend.GetUser(context.Background())
		if err != nil {
			log.Printf("Could not load current user: %v", err)
			identity = nil
		}
		p.resolve(identity)
	}()
	return p
}

// resolve ends the loading state. Only the first call has an effect; a
// notification that arrived earlier is newer than the initial lookup and wins.
func (p *Provider) resolve(identity *models.Identity) {
	p.readyOnce.Do(func() {
		p.mu.Lock()
		if p.loading {
			p.loading = false
			if !p.notified {
				p.identity = identity
			}
		}
		current := p.identity
		fns := p.snapshotLocked()
		p.mu.Unlock()

		close(p.ready)
		for _, fn := range fns {
			fn(current)
		}
	})
}

func (p *Provider) setIdentity(identity *models.Identity) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.identity = identity
	p.notified = true
	fns := p.snapshotLocked()
	p.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func (p *Provider) snapshotLocked() []func(*models.Identity) {
	fns := make([]func(*models.Identity), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// Configured reports whether the provider has an auth backend.
func (p *Provider) Configured() bool {
	return p.backend != nil
}

// Loading reports whether the initial identity lookup is still pending.
func (p *Provider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Ready is closed once the provider has resolved.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Wait blocks until the provider resolves or ctx is done.
func (p *Provider) Wait(ctx context.Context) error {
	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Identity returns the current identity, or nil when signed out or loading.
func (p *Provider) Identity() *models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity
}

// Subscribe registers fn to be called with the identity after every change.
func (p *Provider) Subscribe(fn func(*models.Identity)) *Listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	if !p.closed {
		p.listeners[id] = fn
	}
	return &Listener{p: p, id: id}
}

// SignIn asks the backend to sign in. Identity follows via notification.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	if p.backend == nil {
		return ErrNotConfigured
	}
	return p.backend.SignInWithPassword(ctx, email, password)
}

// SignUp asks the backend to register. Identity follows via notification.
func (p *Provider) SignUp(ctx context.Context, email, password string) error {
	if p.backend == nil {
		return ErrNotConfigured
	}
	return p.backend.SignUp(ctx, email, password)
}

// SignOut asks the backend to sign out. Without a backend it is a no-op.
func (p *Provider) SignOut(ctx context.Context) error {
	if p.backend == nil {
		return nil
	}
	return p.backend.SignOut(ctx)
}

// Close releases the backend subscription and drops every listener.
func (p *Provider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.listeners = make(map[int]func(*models.Identity))
	sub := p.sub
	p.sub = nil
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// ListenerCount returns the number of registered listeners.
func (p *Provider) ListenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

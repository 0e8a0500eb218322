package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// BackendFactory builds the auth backend of a device. It returns nil when
// no auth backend is configured.
type BackendFactory func(deviceID string) Backend

// Manager hands out one Provider per device. Providers live in a bounded
// LRU cache; an evicted provider is closed, releasing its subscriptions.
type Manager struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *Provider]
	factory  BackendFactory
	onCreate []func(deviceID string, p *Provider)
}

// NewManager creates a Manager holding at most size providers.
func NewManager(size int, factory BackendFactory) (*Manager, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.NewWithEvict[string, *Provider](size, func(_ string, p *Provider) {
		p.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Manager{cache: cache, factory: factory}, nil
}

// OnCreate registers fn to run for every newly created provider.
func (m *Manager) OnCreate(fn func(deviceID string, p *Provider)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCreate = append(m.onCreate, fn)
}

// Get returns the provider of deviceID, creating it on first use.
func (m *Manager) Get(deviceID string) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.cache.Get(deviceID); ok {
		return p
	}

	var backend Backend
	if m.factory != nil {
		backend = m.factory(deviceID)
	}
	p := NewProvider(backend)
	for _, fn := range m.onCreate {
		fn(deviceID, p)
	}
	m.cache.Add(deviceID, p)
	return p
}

// Peek returns the provider of deviceID without creating one.
func (m *Manager) Peek(deviceID string) (*Provider, bool) {
	return m.cache.Peek(deviceID)
}

// Len returns the number of live providers.
func (m *Manager) Len() int {
	return m.cache.Len()
}

// Close closes every provider.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Purge()
}

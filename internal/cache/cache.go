package cache

import (
	"sync"
	"time"

	"amlyspay/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

var _ Cache[string] = (*LRUCache[string])(nil)

// Cleaner is implemented by caches whose expired entries can be swept.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps expired entries from every registered cache on an interval.
type Manager struct {
	mu      sync.Mutex
	caches  map[string]Cleaner
	names   []string
	logger  *log.Logger
	stop    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
}

// NewManager creates a manager logging sweeps through logger.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		caches: make(map[string]Cleaner),
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds c under name. Registering a name twice replaces the earlier cache.
func (m *Manager) Register(name string, c Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.caches[name]; !exists {
		m.names = append(m.names, name)
	}
	m.caches[name] = c
}

// Sweep cleans every registered cache once and returns the removed count per name.
func (m *Manager) Sweep() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := make(map[string]int, len(m.caches))
	for _, name := range m.names {
		if n := m.caches[name].CleanExpired(); n > 0 {
			removed[name] = n
			m.logger.Debug("Expired cache entries removed", "cache", name, log.FieldCount, n)
		}
	}
	return removed
}

// StartCleanup begins periodic sweeps. It is a no-op after the first call.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.stopped || interval <= 0 {
		return
	}
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}

// Stop ends the cleanup loop and waits for it to exit. Safe to call more than once.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	started := m.started
	close(m.stop)
	m.mu.Unlock()

	if started {
		<-m.done
	}
}

package session

import (
	"context"
	"sync"
	"time"
)

// Store persists sessions. Update is the only mutation path: it loads or
// creates the session, applies fn under the store's exclusive hold on that
// session, and persists the result. Get returns nil, nil for a missing
// session.
type Store interface {
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
	Close()
}

// MemoryStore is the single-node Store. All access goes through one mutex;
// sessions are cloned on the way out so readers never observe a partial
// update.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Update loads or creates the session, applies fn and returns a clone of
// the result. fn returning an error leaves the stored session untouched.
func (m *MemoryStore) Update(_ context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[id]
	if !ok {
		current = New(id)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.sessions[id] = working
	return working.Clone(), nil
}

// Get returns a clone of the session, or nil when absent.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Delete removes a session. Deleting a missing session is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// IDs snapshots the current session IDs.
func (m *MemoryStore) IDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Len reports the live session count.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() {}

// Finalizer receives a session snapshot when its conversation has gone
// idle with the scam latch set and no report dispatched yet.
type Finalizer func(*Session)

// Sweeper walks the store on a fixed period, finalizing idle confirmed
// sessions and deleting expired ones.
type Sweeper struct {
	store        Store
	interval     time.Duration
	idleFinalize time.Duration
	idleExpire   time.Duration
	finalize     Finalizer

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSweeper builds a sweeper; call Start to begin sweeping.
func NewSweeper(store Store, interval, idleFinalize, idleExpire time.Duration, finalize Finalizer) *Sweeper {
	return &Sweeper{
		store:        store,
		interval:     interval,
		idleFinalize: idleFinalize,
		idleExpire:   idleExpire,
		finalize:     finalize,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (w *Sweeper) Start() {
	go w.loop()
}

// Stop halts the loop and waits for the in-flight sweep to finish.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	<-w.done
}

func (w *Sweeper) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(context.Background())
		case <-w.stop:
			return
		}
	}
}

// Sweep runs one pass over every session. Exposed for tests and for a
// final pass during shutdown.
func (w *Sweeper) Sweep(ctx context.Context) {
	ids, err := w.store.IDs(ctx)
	if err != nil {
		return
	}
	now := time.Now()
	for _, id := range ids {
		s, err := w.store.Get(ctx, id)
		if err != nil || s == nil {
			continue
		}
		idle := now.Sub(s.LastActivity)

		if idle > w.idleFinalize && s.ScamDetected && !s.ReportSent && w.finalize != nil {
			var snapshot *Session
			_, err := w.store.Update(ctx, id, func(live *Session) error {
				if live.ReportSent {
					return nil
				}
				live.ReportSent = true
				snapshot = live.Clone()
				return nil
			})
			if err == nil && snapshot != nil {
				w.finalize(snapshot)
			}
		}

		if idle > w.idleExpire {
			_ = w.store.Delete(ctx, id)
		}
	}
}

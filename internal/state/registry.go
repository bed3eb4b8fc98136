package state

import (
	"context"
	"sync"

	"github.com/isdl/storefront-gateway/pkg/logger"
)

// Session bundles the state containers owned by one browser session: cart,
// user identity, catalog preference, and the upstream credential cookie. All
// mutations go through these methods; the internal mutex is what makes the
// "hosting environment serializes state-mutating calls" rule hold in a
// multi-request server.
type Session struct {
	mu             sync.Mutex
	restoreOnce    sync.Once
	cart           *Cart
	user           UserSession
	pref           Preference
	upstreamCookie string
}

func newSession() *Session {
	return &Session{
		cart: NewCart(),
		pref: DefaultPreference(),
	}
}

func (s *Session) AddItem(item LineItem) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(item)
	return s.cart.Snapshot()
}

func (s *Session) DecrementQuantity(id string) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.DecrementQuantity(id)
	return s.cart.Snapshot()
}

func (s *Session) RemoveItem(id string) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(id)
	return s.cart.Snapshot()
}

func (s *Session) EmptyCart() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Empty()
	return s.cart.Snapshot()
}

func (s *Session) Cart() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

func (s *Session) RestoreCart(snap CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Restore(snap)
}

// SetUser replaces the session identity wholesale.
func (s *Session) SetUser(user UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// ClearUser resets the identity to anonymous.
func (s *Session) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = UserSession{}
}

func (s *Session) User() UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetProductType replaces the catalog filter wholesale, without validation.
func (s *Session) SetProductType(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref.ShowProductTypes = category
}

func (s *Session) ProductType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref.ShowProductTypes
}

// SetUpstreamCookie stores the upstream API's credential cookie header.
func (s *Session) SetUpstreamCookie(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upstreamCookie = cookie
}

func (s *Session) UpstreamCookie() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstreamCookie
}

// Registry maps session ids to their state containers. Sessions live for the
// process lifetime unless dropped; cart contents additionally round-trip
// through the snapshot store when one is configured.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	snapshots SnapshotStore
	logg      *logger.Logger
}

func NewRegistry(snapshots SnapshotStore, logg *logger.Logger) *Registry {
	if snapshots == nil {
		snapshots = NoopSnapshotStore{}
	}
	return &Registry{
		sessions:  map[string]*Session{},
		snapshots: snapshots,
		logg:      logg,
	}
}

// GetOrCreate returns the session for the id, creating it on first use and
// restoring a persisted cart snapshot when the store has one.
func (r *Registry) GetOrCreate(ctx context.Context, id string) *Session {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		if sess, ok = r.sessions[id]; !ok {
			sess = newSession()
			r.sessions[id] = sess
		}
		r.mu.Unlock()
	}

	// Every caller funnels through the session's restore gate: sync.Once
	// blocks concurrent callers until the first one finishes, so no
	// mutation can land before the persisted snapshot is applied, and a
	// session that already restored never re-restores.
	sess.restoreOnce.Do(func() {
		snap, found, err := r.snapshots.Load(ctx, id)
		if err != nil {
			if r.logg != nil {
				r.logg.Warn(r.logg.WithSessionID(ctx, id), "cart snapshot load failed")
			}
			return
		}
		if found {
			sess.RestoreCart(snap)
		}
	})
	return sess
}

// Lookup returns the session without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Drop forgets the session and its persisted cart.
func (r *Registry) Drop(ctx context.Context, id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if err := r.snapshots.Drop(ctx, id); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithSessionID(ctx, id), "cart snapshot drop failed")
	}
}

// PersistCart writes the snapshot through to the store, best effort: a store
// failure is logged and the in-memory state stays authoritative.
func (r *Registry) PersistCart(ctx context.Context, id string, snap CartSnapshot) {
	if err := r.snapshots.Save(ctx, id, snap); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithSessionID(ctx, id), "cart snapshot save failed")
	}
}

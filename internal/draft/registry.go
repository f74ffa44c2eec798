package draft

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"resume-builder/internal/navigator"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/util"
)

// DefaultMaxSessions bounds the sessions kept in memory per process.
const DefaultMaxSessions = 4096

// Session is the editing state of one owner.
type Session struct {
	Store *Store
	Nav   *navigator.Navigator
}

// Reset clears the draft and returns the wizard to the first step.
func (s *Session) Reset(ctx context.Context) Change {
	ch := s.Store.Reset(ctx)
	s.Nav.Reset()
	return ch
}

// Registry hands out one Session per owner, each on its own key namespace.
// Sessions are cached up to a fixed count, least recently used first out;
// an evicted owner keeps the durable draft and loses only the wizard step
// and template choice.
type Registry struct {
	mu       sync.Mutex
	storage  kv.Storage
	sessions *lru.Cache
}

func NewRegistry(storage kv.Storage) *Registry {
	return NewRegistrySize(storage, DefaultMaxSessions)
}

// NewRegistrySize is NewRegistry with a custom session cap.
func NewRegistrySize(storage kv.Storage, maxSessions int) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Registry{storage: storage, sessions: lru.New(maxSessions)}
}

// Session returns the owner's session. A cached session is reloaded from
// storage first, so edits made by other processes sharing the storage are
// never overwritten by a stale copy.
func (r *Registry) Session(ctx context.Context, owner string) (*Session, []Warning) {
	r.mu.Lock()
	cached, ok := r.sessions.Get(owner)
	if !ok {
		defer r.mu.Unlock()
		store, warnings := Open(ctx, kv.WithNamespace(r.storage, util.OwnerKey(owner)))
		s := &Session{Store: store, Nav: navigator.New()}
		r.sessions.Add(owner, s)
		return s, warnings
	}
	r.mu.Unlock()

	s := cached.(*Session)
	return s, s.Store.Reload(ctx)
}

// Len reports how many sessions are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

// Forget drops the in-memory session. Durable data is kept.
func (r *Registry) Forget(owner string) {
	r.mu.Lock()
	r.sessions.Remove(owner)
	r.mu.Unlock()
}

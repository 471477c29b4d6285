package quizroom

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Identity is the (id, name) pair representing one participant for the
// duration of a tab session. Once created, the id stays stable across
// reconnects within that session.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IdentityStore is session-scoped identity persistence. Implementations are
// expected to be cheap and local (the browser equivalent is sessionStorage);
// nothing else survives a reload.
type IdentityStore interface {
	Load() (Identity, bool)
	Save(Identity)
}

// MemoryStore keeps the identity for the lifetime of the process.
type MemoryStore struct {
	mu sync.Mutex
	id Identity
	ok bool
}

// NewMemoryStore returns an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.ok
}

func (s *MemoryStore) Save(id Identity) {
	s.mu.Lock()
	s.id = id
	s.ok = true
	s.mu.Unlock()
}

// EnsureIdentity loads the stored identity or, on first visit, generates and
// persists a fresh one. Ids only need to be practically collision-free within
// one server's session table, so a UUID is more than enough.
func EnsureIdentity(store IdentityStore) Identity {
	if id, ok := store.Load(); ok && id.ID != "" {
		if id.Name == "" {
			id.Name = defaultName()
			store.Save(id)
		}
		return id
	}
	id := Identity{
		ID:   "user_" + uuid.NewString(),
		Name: defaultName(),
	}
	store.Save(id)
	return id
}

// RequireIdentity loads the stored identity for screens that need one. If it
// is missing it redirects to the lobby immediately, with no network call, and
// reports false.
func RequireIdentity(store IdentityStore, nav Navigator) (Identity, bool) {
	id, ok := store.Load()
	if !ok || id.ID == "" {
		nav.GoToLobby()
		return Identity{}, false
	}
	return id, true
}

func defaultName() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return "User-" + suffix
}

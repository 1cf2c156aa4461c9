package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory principal stores
// ---------------------------------------------------------------------------

type touch struct {
	id int64
	at time.Time
}

type stubAdminStore struct {
	mu       sync.Mutex
	byID     map[int64]*domain.AdminPrincipal
	err      error // returned by every lookup when set
	touchErr error
	touched  chan touch
}

func newStubAdminStore(admins ...*domain.AdminPrincipal) *stubAdminStore {
	s := &stubAdminStore{byID: make(map[int64]*domain.AdminPrincipal), touched: make(chan touch, 16)}
	for _, a := range admins {
		s.byID[a.ID] = a
	}
	return s
}

func (s *stubAdminStore) GetByEmail(_ context.Context, email string) (*domain.AdminPrincipal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, a := range s.byID {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (s *stubAdminStore) GetByID(_ context.Context, id int64) (*domain.AdminPrincipal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *stubAdminStore) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	if s.touchErr == nil {
		if a, ok := s.byID[id]; ok {
			a.LastLogin = &at
		}
	}
	err := s.touchErr
	s.mu.Unlock()
	s.touched <- touch{id: id, at: at}
	return err
}

type stubUserStore struct {
	mu       sync.Mutex
	byID     map[int64]*domain.UserPrincipal
	err      error
	touchErr error
	touched  chan touch
}

func newStubUserStore(users ...*domain.UserPrincipal) *stubUserStore {
	s := &stubUserStore{byID: make(map[int64]*domain.UserPrincipal), touched: make(chan touch, 16)}
	for _, u := range users {
		s.byID[u.ID] = u
	}
	return s
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.UserPrincipal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*domain.UserPrincipal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubUserStore) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	if s.touchErr == nil {
		if u, ok := s.byID[id]; ok {
			u.LastLogin = &at
		}
	}
	err := s.touchErr
	s.mu.Unlock()
	s.touched <- touch{id: id, at: at}
	return err
}

// update mutates a stored user in place, simulating an external change.
func (s *stubUserStore) update(id int64, fn func(*domain.UserPrincipal)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.byID[id])
}

func (s *stubUserStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// ---------------------------------------------------------------------------
// Hasher: stored form is "h:" + secret, so tests need no real key derivation.
// ---------------------------------------------------------------------------

type stubHasher struct {
	mu       sync.Mutex
	verifies int
	err      error
}

func fakeHash(secret string) string { return "h:" + secret }

func (h *stubHasher) Hash(_ context.Context, secret string) (string, error) {
	return fakeHash(secret), h.err
}

func (h *stubHasher) Verify(_ context.Context, stored, secret string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	if h.err != nil {
		return false, h.err
	}
	return stored == fakeHash(secret), nil
}

// ---------------------------------------------------------------------------
// Session repository
// ---------------------------------------------------------------------------

type stubSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.Descriptor
	malformed map[string]bool
	ttls      map[string]time.Duration
	saveErr   error
	loadErr   error
	refreshed int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions:  make(map[string]domain.Descriptor),
		malformed: make(map[string]bool),
		ttls:      make(map[string]time.Duration),
	}
}

func (r *stubSessionRepo) Save(_ context.Context, id string, d domain.Descriptor, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sessions[id] = d
	r.ttls[id] = ttl
	return nil
}

func (r *stubSessionRepo) Load(_ context.Context, id string) (domain.Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return domain.Descriptor{}, r.loadErr
	}
	if r.malformed[id] {
		return domain.Descriptor{}, domain.ErrMalformedSession
	}
	d, ok := r.sessions[id]
	if !ok {
		return domain.Descriptor{}, domain.ErrSessionNotFound
	}
	return d, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	delete(r.malformed, id)
	return nil
}

func (r *stubSessionRepo) Refresh(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	r.ttls[id] = ttl
	r.refreshed++
	return nil
}

func (r *stubSessionRepo) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("connection refused")

func admin(id int64, email, secret string) *domain.AdminPrincipal {
	return &domain.AdminPrincipal{Identity: domain.Identity{
		ID: id, Email: email, PasswordHash: fakeHash(secret), IsActive: true,
	}}
}

func user(id int64, email, secret string, role domain.Role) *domain.UserPrincipal {
	return &domain.UserPrincipal{
		Identity: domain.Identity{ID: id, Email: email, PasswordHash: fakeHash(secret), IsActive: true},
		Role:     role,
	}
}

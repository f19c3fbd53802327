package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/shortlink"
	"github.com/avelaro/shortly/internal/verification"
)

// MemoryAccountStore is an in-memory implementation of account.Repository.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account // id -> account
}

// NewMemoryAccountStore creates a new in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]*account.Account)}
}

func (m *MemoryAccountStore) Create(_ context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return account.ErrEmailTaken
		}

		if existing.Username == a.Username {
			return account.ErrUsernameTaken
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	clone := *a
	m.accounts[a.ID] = &clone

	return nil
}

func (m *MemoryAccountStore) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Email == email {
			clone := *a

			return &clone, nil
		}
	}

	return nil, account.ErrNotFound
}

func (m *MemoryAccountStore) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Username == username {
			clone := *a

			return &clone, nil
		}
	}

	return nil, account.ErrNotFound
}

func (m *MemoryAccountStore) SetEmailVerified(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == email {
			a.EmailVerified = true

			return nil
		}
	}

	return account.ErrNotFound
}

func (m *MemoryAccountStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.accounts, id)

	return nil
}

var _ account.Repository = (*MemoryAccountStore)(nil)

// MemoryVerificationStore is an in-memory implementation of
// verification.Repository.
type MemoryVerificationStore struct {
	mu       sync.RWMutex
	requests map[string]*verification.Request // email -> request
}

// NewMemoryVerificationStore creates a new in-memory verification store.
func NewMemoryVerificationStore() *MemoryVerificationStore {
	return &MemoryVerificationStore{requests: make(map[string]*verification.Request)}
}

func (m *MemoryVerificationStore) GetByEmail(_ context.Context, email string) (*verification.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[email]
	if !ok {
		return nil, verification.ErrNotFound
	}

	clone := *req

	return &clone, nil
}

func (m *MemoryVerificationStore) GetByToken(_ context.Context, token string) (*verification.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, req := range m.requests {
		if req.Token == token {
			clone := *req

			return &clone, nil
		}
	}

	return nil, verification.ErrNotFound
}

func (m *MemoryVerificationStore) Upsert(_ context.Context, req *verification.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *req
	m.requests[req.Email] = &clone

	return nil
}

func (m *MemoryVerificationStore) DeleteByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.requests, email)

	return nil
}

var _ verification.Repository = (*MemoryVerificationStore)(nil)

// MemoryLinkStore is an in-memory implementation of shortlink.Repository.
type MemoryLinkStore struct {
	mu    sync.RWMutex
	links map[string]*shortlink.ShortLink // code -> link
}

// NewMemoryLinkStore creates a new in-memory short link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[string]*shortlink.ShortLink)}
}

func (m *MemoryLinkStore) Create(_ context.Context, link *shortlink.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortlink.ErrCodeExists
	}

	for _, existing := range m.links {
		if existing.LongURL == link.LongURL && existing.OwnerID == link.OwnerID {
			return shortlink.ErrDuplicateURL
		}
	}

	clone := *link
	m.links[link.Code] = &clone

	return nil
}

func (m *MemoryLinkStore) GetByLongURL(_ context.Context, longURL, ownerID string) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if link.LongURL == longURL && link.OwnerID == ownerID {
			clone := *link

			return &clone, nil
		}
	}

	return nil, shortlink.ErrNotFound
}

func (m *MemoryLinkStore) GetByCode(_ context.Context, code, ownerID string) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok || link.OwnerID != ownerID {
		return nil, shortlink.ErrNotFound
	}

	clone := *link

	return &clone, nil
}

func (m *MemoryLinkStore) ListByOwner(_ context.Context, ownerID string) ([]shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []shortlink.ShortLink

	for _, link := range m.links {
		if link.OwnerID == ownerID {
			links = append(links, *link)
		}
	}

	return links, nil
}

func (m *MemoryLinkStore) DeleteByCode(_ context.Context, code, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[code]
	if !ok || link.OwnerID != ownerID {
		return shortlink.ErrNotFound
	}

	delete(m.links, code)

	return nil
}

func (m *MemoryLinkStore) Resolve(_ context.Context, code string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return "", shortlink.ErrNotFound
	}

	return link.LongURL, nil
}

var _ shortlink.Repository = (*MemoryLinkStore)(nil)

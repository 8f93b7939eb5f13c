package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository/memstore"
)

// fakeSessionCache is a map-backed SessionCache that counts calls.
type fakeSessionCache struct {
	mu       sync.Mutex
	entries  map[string]*model.User
	deleted  []string
	getErr   error
	getCalls int
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{entries: make(map[string]*model.User)}
}

func (f *fakeSessionCache) GetSession(_ context.Context, tokenHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[tokenHash], nil
}

func (f *fakeSessionCache) SetSession(_ context.Context, tokenHash string, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.entries[tokenHash] = &u
	return nil
}

func (f *fakeSessionCache) DeleteSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, tokenHash)
	f.deleted = append(f.deleted, tokenHash)
	return nil
}

func (f *fakeSessionCache) has(tokenHash string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[tokenHash]
	return ok
}

var errCacheDown = errors.New("cache down")

type serviceTestEnv struct {
	store    *memstore.Store
	sessions *fakeSessionCache
	metrics  *metrics.InMemoryRecorder
	users    *UserService
	contacts *ContactService
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	store := memstore.New()
	sessions := newFakeSessionCache()
	recorder := metrics.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceTestEnv{
		store:    store,
		sessions: sessions,
		metrics:  recorder,
		users:    NewUserService(store, sessions, recorder, logger),
		contacts: NewContactService(store, recorder, PageOptions{}),
	}
}

// registerAndLogin creates a user and returns its live session.
func (e *serviceTestEnv) registerAndLogin(t *testing.T, username string) *model.Session {
	t.Helper()
	ctx := context.Background()

	_, err := e.users.Register(ctx, RegisterInput{Username: username, Password: "rahasia", Name: username})
	require.NoError(t, err)

	session, err := e.users.Login(ctx, LoginInput{Username: username, Password: "rahasia"})
	require.NoError(t, err)
	return session
}

func strPtr(s string) *string {
	return &s
}

// interleavingStore runs afterTokenRead once, right after the first token
// lookup returns, to stage a concurrent session change.
type interleavingStore struct {
	*memstore.Store
	afterTokenRead func(user *model.User)
}

func (s *interleavingStore) GetUserByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	user, err := s.Store.GetUserByTokenHash(ctx, tokenHash)
	if err == nil && s.afterTokenRead != nil {
		hook := s.afterTokenRead
		s.afterTokenRead = nil
		hook(user)
	}
	return user, err
}

// Package memstore is an in-memory implementation of the user and contact
// stores for tests. It mirrors the Postgres repository's semantics and errors.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// Store holds users and contacts behind a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	contacts map[string]*model.Contact
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		contacts: make(map[string]*model.Contact),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ============================================================================
// Users
// ============================================================================

// CreateUser stores a copy of user.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}

	s.users[user.ID] = cloneUser(user)
	return nil
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByTokenHash returns the user holding the token digest.
func (s *Store) GetUserByTokenHash(_ context.Context, tokenHash string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.TokenHash != nil && *user.TokenHash == tokenHash {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdateUserProfile replaces the user's name, password hash and updated_at.
func (s *Store) UpdateUserProfile(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

// SetUserToken replaces the user's token digest; nil clears it.
func (s *Store) SetUserToken(_ context.Context, userID string, tokenHash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.TokenHash = clonePtr(tokenHash)
	return nil
}

// ============================================================================
// Contacts
// ============================================================================

// CreateContact stores a copy of contact.
func (s *Store) CreateContact(_ context.Context, contact *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts[contact.ID] = cloneContact(contact)
	return nil
}

// GetContact returns the contact if it exists and belongs to ownerID.
func (s *Store) GetContact(_ context.Context, ownerID, id string) (*model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok || contact.UserID != ownerID {
		return nil, repository.ErrContactNotFound
	}
	return cloneContact(contact), nil
}

// UpdateContact replaces the mutable fields of an owned contact.
func (s *Store) UpdateContact(_ context.Context, contact *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.contacts[contact.ID]
	if !ok || stored.UserID != contact.UserID {
		return repository.ErrContactNotFound
	}
	stored.FirstName = contact.FirstName
	stored.LastName = clonePtr(contact.LastName)
	stored.Email = clonePtr(contact.Email)
	stored.Phone = clonePtr(contact.Phone)
	stored.UpdatedAt = contact.UpdatedAt
	return nil
}

// DeleteContact removes an owned contact.
func (s *Store) DeleteContact(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.contacts[id]
	if !ok || stored.UserID != ownerID {
		return repository.ErrContactNotFound
	}
	delete(s.contacts, id)
	return nil
}

// SearchContacts returns one page of matches ordered by id and the total
// match count.
func (s *Store) SearchContacts(_ context.Context, filter model.ContactFilter) ([]*model.Contact, int, error) {
	s.mu.RLock()
	matches := make([]*model.Contact, 0)
	for _, contact := range s.contacts {
		if matchesFilter(contact, filter) {
			matches = append(matches, cloneContact(contact))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	start := filter.Offset()
	if start >= total {
		return []*model.Contact{}, total, nil
	}
	end := min(start+filter.Size, total)

	return matches[start:end], total, nil
}

func matchesFilter(c *model.Contact, f model.ContactFilter) bool {
	if c.UserID != f.OwnerID {
		return false
	}
	if f.Name != "" && !containsFold(c.FirstName, f.Name) && !containsFoldPtr(c.LastName, f.Name) {
		return false
	}
	if f.Email != "" && !containsFoldPtr(c.Email, f.Email) {
		return false
	}
	if f.Phone != "" && !containsFoldPtr(c.Phone, f.Phone) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsFoldPtr(s *string, substr string) bool {
	return s != nil && containsFold(*s, substr)
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.TokenHash = clonePtr(u.TokenHash)
	return &c
}

func cloneContact(c *model.Contact) *model.Contact {
	cp := *c
	cp.LastName = clonePtr(c.LastName)
	cp.Email = clonePtr(c.Email)
	cp.Phone = clonePtr(c.Phone)
	return &cp
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

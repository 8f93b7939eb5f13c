package service

import (
	"context"

	"github.com/contactly/contactly/internal/model"
)

// UserStore persists users and their session token digests.
// Implemented by repository.Repository and memstore.Store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, user *model.User) error
	SetUserToken(ctx context.Context, userID string, tokenHash *string) error
}

// ContactStore persists owner-scoped contacts.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *model.Contact) error
	GetContact(ctx context.Context, ownerID, id string) (*model.Contact, error)
	UpdateContact(ctx context.Context, contact *model.Contact) error
	DeleteContact(ctx context.Context, ownerID, id string) error
	SearchContacts(ctx context.Context, filter model.ContactFilter) ([]*model.Contact, int, error)
}

// SessionCache caches users resolved from token digests.
// GetSession returns nil, nil on a miss.
type SessionCache interface {
	GetSession(ctx context.Context, tokenHash string) (*model.User, error)
	SetSession(ctx context.Context, tokenHash string, user *model.User) error
	DeleteSession(ctx context.Context, tokenHash string) error
}

type noopSessionCache struct{}

func (noopSessionCache) GetSession(context.Context, string) (*model.User, error) { return nil, nil }

func (noopSessionCache) SetSession(context.Context, string, *model.User) error { return nil }

func (noopSessionCache) DeleteSession(context.Context, string) error { return nil }

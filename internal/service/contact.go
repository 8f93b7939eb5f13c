package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// Page size defaults.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageOptions bounds the page size of contact searches.
type PageOptions struct {
	DefaultSize int
	MaxSize     int
}

// ContactService handles owner-scoped contact management.
type ContactService struct {
	contacts    ContactStore
	metrics     metrics.Recorder
	defaultSize int
	maxSize     int
}

// NewContactService creates a new ContactService.
func NewContactService(contacts ContactStore, recorder metrics.Recorder, opts PageOptions) *ContactService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if opts.DefaultSize <= 0 {
		opts.DefaultSize = DefaultPageSize
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = MaxPageSize
	}
	if opts.DefaultSize > opts.MaxSize {
		opts.DefaultSize = opts.MaxSize
	}
	return &ContactService{
		contacts:    contacts,
		metrics:     recorder,
		defaultSize: opts.DefaultSize,
		maxSize:     opts.MaxSize,
	}
}

// Create adds a contact to the owner's address book.
func (s *ContactService) Create(ctx context.Context, ownerID string, input ContactInput) (*model.Contact, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &model.Contact{
		ID:        ulid.Make().String(),
		UserID:    ownerID,
		FirstName: input.FirstName,
		LastName:  nullIfEmpty(input.LastName),
		Email:     nullIfEmpty(input.Email),
		Phone:     nullIfEmpty(input.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contacts.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.metrics.IncContactCreated()

	return contact, nil
}

// Get returns one of the owner's contacts.
func (s *ContactService) Get(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// Update replaces an owned contact's fields. Nil optional fields keep
// their stored value; empty ones are cleared.
func (s *ContactService) Update(ctx context.Context, ownerID, id string, input ContactInput) (*model.Contact, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	contact, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	contact.FirstName = input.FirstName
	if input.LastName != nil {
		contact.LastName = nullIfEmpty(input.LastName)
	}
	if input.Email != nil {
		contact.Email = nullIfEmpty(input.Email)
	}
	if input.Phone != nil {
		contact.Phone = nullIfEmpty(input.Phone)
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.contacts.UpdateContact(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	s.metrics.IncContactUpdated()

	return contact, nil
}

// Delete permanently removes an owned contact.
func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.contacts.DeleteContact(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.metrics.IncContactDeleted()

	return nil
}

// SearchInput defines the filters and window of a contact search.
// Non-positive Page or Size select the defaults.
type SearchInput struct {
	OwnerID string
	Name    string
	Email   string
	Phone   string
	Page    int
	Size    int
}

// Search returns one page of the owner's matching contacts.
func (s *ContactService) Search(ctx context.Context, input SearchInput) (*model.ContactPage, error) {
	filter := model.ContactFilter{
		OwnerID: input.OwnerID,
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Page:    input.Page,
		Size:    input.Size,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = s.defaultSize
	}
	if filter.Size > s.maxSize {
		filter.Size = s.maxSize
	}

	start := time.Now()
	contacts, total, err := s.contacts.SearchContacts(ctx, filter)
	s.metrics.ObserveSearchDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	return &model.ContactPage{
		Contacts: contacts,
		Total:    total,
		Page:     filter.Page,
		Size:     filter.Size,
	}, nil
}

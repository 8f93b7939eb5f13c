package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/contactly/contactly/internal/model"
)

// Common errors for contact repository operations.
var (
	ErrContactNotFound = errors.New("contact not found")
)

const contactColumns = `id, user_id, first_name, last_name, email, phone, created_at, updated_at`

// CreateContact inserts a new contact into the database.
func (r *Repository) CreateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetContact retrieves a contact by ID, scoped to its owner.
// A contact owned by someone else is reported as ErrContactNotFound.
func (r *Repository) GetContact(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// UpdateContact updates a contact's mutable fields.
// The owner check is part of the WHERE clause.
func (r *Repository) UpdateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

// DeleteContact permanently removes a contact owned by ownerID.
func (r *Repository) DeleteContact(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

// SearchContacts returns one page of the owner's contacts matching the
// filter, plus the total number of matches across all pages.
func (r *Repository) SearchContacts(ctx context.Context, filter model.ContactFilter) ([]*model.Contact, int, error) {
	where := ` WHERE user_id = $1`
	args := []any{filter.OwnerID}
	argIndex := 2

	if filter.Name != "" {
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", argIndex, argIndex)
		args = append(args, likePattern(filter.Name))
		argIndex++
	}

	if filter.Email != "" {
		where += fmt.Sprintf(" AND email ILIKE $%d", argIndex)
		args = append(args, likePattern(filter.Email))
		argIndex++
	}

	if filter.Phone != "" {
		where += fmt.Sprintf(" AND phone ILIKE $%d", argIndex)
		args = append(args, likePattern(filter.Phone))
		argIndex++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	contacts := make([]*model.Contact, 0, filter.Size)
	if total == 0 || filter.Offset() >= total {
		return contacts, total, nil
	}

	query := `SELECT ` + contactColumns + ` FROM contacts` + where +
		fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Size, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, total, nil
}

// likeEscaper escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a search term for a substring match.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// scanContact scans a single row into a Contact model.
func scanContact(row pgx.Row) (*model.Contact, error) {
	var contact model.Contact
	err := row.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

package model

import (
	"math"
	"time"
)

// Contact is a person in a user's address book.
// Only FirstName is mandatory; the remaining fields are nullable.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactFilter narrows a contact search.
// Empty string filters are ignored; all present filters are ANDed.
type ContactFilter struct {
	OwnerID string
	Name    string // matches first_name or last_name
	Email   string
	Phone   string
	Page    int // 1-based
	Size    int
}

// Offset returns the number of rows to skip for the filter's page.
func (f ContactFilter) Offset() int {
	return windowStart(f.Page, f.Size)
}

// windowStart returns (page-1)*size, saturating at math.MaxInt.
func windowStart(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// ContactPage is one window of a contact search.
type ContactPage struct {
	Contacts []*Contact
	Total    int
	Page     int
	Size     int
}

// LastPage returns the number of the last page, never less than 1.
func (p *ContactPage) LastPage() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// From returns the 1-based position of the first record on the page,
// or 0 when the page is empty.
func (p *ContactPage) From() int {
	if len(p.Contacts) == 0 {
		return 0
	}
	start := windowStart(p.Page, p.Size)
	if start > math.MaxInt-1 {
		return math.MaxInt
	}
	return start + 1
}

// To returns the 1-based position of the last record on the page,
// or 0 when the page is empty.
func (p *ContactPage) To() int {
	if len(p.Contacts) == 0 {
		return 0
	}
	start := windowStart(p.Page, p.Size)
	if start > math.MaxInt-len(p.Contacts) {
		return math.MaxInt
	}
	return start + len(p.Contacts)
}

package dto

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/contactly/contactly/internal/model"
)

// NullableString tells an absent JSON field apart from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// Ptr returns nil when the field was absent and "" for an explicit null.
func (n NullableString) Ptr() *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		empty := ""
		return &empty
	}
	return n.Value
}

// ContactRequest represents the body of a contact create or update.
type ContactRequest struct {
	FirstName string         `json:"first_name"`
	LastName  NullableString `json:"last_name"`
	Email     NullableString `json:"email"`
	Phone     NullableString `json:"phone"`
}

// ContactResponse represents a contact in API responses.
type ContactResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// ContactListResponse is one page of a contact search.
type ContactListResponse struct {
	Data  []ContactResponse `json:"data"`
	Meta  PageMeta          `json:"meta"`
	Links PageLinks         `json:"links"`
}

// PageMeta describes the window of a paginated response.
// From and To are null on an empty page.
type PageMeta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

// PageLinks holds relative URLs of neighbouring pages. Prev and Next
// are null at the edges.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// ToContactResponse converts a Contact model to ContactResponse DTO.
func ToContactResponse(contact *model.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
	}
}

// ToContactListResponse builds the paginated envelope. base is the request
// URL; its filters are carried into every page link.
func ToContactListResponse(page *model.ContactPage, base *url.URL) ContactListResponse {
	data := make([]ContactResponse, 0, len(page.Contacts))
	for _, contact := range page.Contacts {
		data = append(data, ToContactResponse(contact))
	}

	meta := PageMeta{
		CurrentPage: page.Page,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
	}
	if len(page.Contacts) > 0 {
		from, to := page.From(), page.To()
		meta.From = &from
		meta.To = &to
	}

	links := PageLinks{
		First: pageURL(base, 1, page.Size),
		Last:  pageURL(base, meta.LastPage, page.Size),
	}
	if page.Page > 1 {
		prev := pageURL(base, min(page.Page-1, meta.LastPage), page.Size)
		links.Prev = &prev
	}
	if page.Page < meta.LastPage {
		next := pageURL(base, page.Page+1, page.Size)
		links.Next = &next
	}

	return ContactListResponse{Data: data, Meta: meta, Links: links}
}

func pageURL(base *url.URL, page, size int) string {
	query := base.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return base.Path + "?" + query.Encode()
}

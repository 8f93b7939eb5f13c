package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field length limits, in characters.
const (
	maxUsernameLength  = 100
	maxPasswordLength  = 100
	maxNameLength      = 100
	maxFirstNameLength = 100
	maxLastNameLength  = 100
	maxEmailLength     = 200
	maxPhoneLength     = 20
)

// fieldErrors accumulates messages per input field.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// required adds an error when value is empty.
func (f fieldErrors) required(field, value string) bool {
	if value == "" {
		f.add(field, fmt.Sprintf("The %s field is required.", label(field)))
		return false
	}
	return true
}

// maxLength adds an error when value is longer than max characters.
func (f fieldErrors) maxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		f.add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), max))
	}
}

// email adds an error when value is not a bare address.
func (f fieldErrors) email(field, value string) {
	if !ValidEmail(value) {
		f.add(field, fmt.Sprintf("The %s field must be a valid email address.", label(field)))
	}
}

// ValidEmail reports whether s is a single bare address like "a@b.c".
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1
}

// trimPtr trims an optional string in place.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// nullIfEmpty maps an empty string to nil.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username string
	Password string
	Name     string
}

// Validate trims the input and checks required fields and lengths.
func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)

	errs := fieldErrors{}
	if errs.required("username", in.Username) {
		errs.maxLength("username", in.Username, maxUsernameLength)
	}
	if errs.required("password", in.Password) {
		errs.maxLength("password", in.Password, maxPasswordLength)
	}
	if errs.required("name", in.Name) {
		errs.maxLength("name", in.Name, maxNameLength)
	}
	return errs.err()
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Username string
	Password string
}

// Validate trims the input and checks required fields and lengths.
func (in *LoginInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)

	errs := fieldErrors{}
	if errs.required("username", in.Username) {
		errs.maxLength("username", in.Username, maxUsernameLength)
	}
	if errs.required("password", in.Password) {
		errs.maxLength("password", in.Password, maxPasswordLength)
	}
	return errs.err()
}

// UpdateProfileInput defines a partial profile update.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// Validate trims the input and checks supplied fields.
func (in *UpdateProfileInput) Validate() error {
	in.Name = trimPtr(in.Name)

	errs := fieldErrors{}
	if in.Name != nil && errs.required("name", *in.Name) {
		errs.maxLength("name", *in.Name, maxNameLength)
	}
	if in.Password != nil && errs.required("password", *in.Password) {
		errs.maxLength("password", *in.Password, maxPasswordLength)
	}
	return errs.err()
}

// ContactInput is the body of a contact create or full update.
// On update a nil optional field is left unchanged and an empty one is cleared.
type ContactInput struct {
	FirstName string
	LastName  *string
	Email     *string
	Phone     *string
}

// Validate trims the input and checks required fields, lengths and format.
func (in *ContactInput) Validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = trimPtr(in.LastName)
	in.Email = trimPtr(in.Email)
	in.Phone = trimPtr(in.Phone)

	errs := fieldErrors{}
	if errs.required("first_name", in.FirstName) {
		errs.maxLength("first_name", in.FirstName, maxFirstNameLength)
	}
	if in.LastName != nil {
		errs.maxLength("last_name", *in.LastName, maxLastNameLength)
	}
	if in.Email != nil && *in.Email != "" {
		errs.maxLength("email", *in.Email, maxEmailLength)
		errs.email("email", *in.Email)
	}
	if in.Phone != nil {
		errs.maxLength("phone", *in.Phone, maxPhoneLength)
	}
	return errs.err()
}

// Package validation holds the synchronous form rules shared by the client
// screens and the provider backend.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the provider accepts.
const MinPasswordLength = 6

// Length limits of a todo.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Errors maps a field name to its message. Absent fields are valid.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Has reports whether field has an outstanding error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Clear drops the error of field, if any.
func (e Errors) Clear(field string) {
	delete(e, field)
}

// Required reports whether value contains something other than whitespace.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email reports whether value looks like an address: something, "@",
// something, ".", something. It is not RFC 5322 validation.
func Email(value string) bool {
	return emailPattern.MatchString(value)
}

// PasswordLength reports whether password has at least MinPasswordLength characters.
func PasswordLength(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// PasswordsMatch reports whether the confirmation equals the password.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

// MaxLength reports whether value has at most n characters.
func MaxLength(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Package autherr defines the error codes reported by the authentication provider.
package autherr

import (
	"errors"
	"fmt"
)

// Code identifies a provider failure.
type Code string

const (
	EmailAlreadyInUse Code = "auth/email-already-in-use"
	InvalidEmail      Code = "auth/invalid-email"
	WeakPassword      Code = "auth/weak-password"
	UserDisabled      Code = "auth/user-disabled"
	UserNotFound      Code = "auth/user-not-found"
	WrongPassword     Code = "auth/wrong-password"
	InvalidToken      Code = "auth/invalid-token"
	InvalidArgument   Code = "auth/invalid-argument"
	IDAlreadyInUse    Code = "auth/id-already-in-use"
	Internal          Code = "auth/internal-error"
)

// Error is a provider failure carrying its code.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a provider error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the provider code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

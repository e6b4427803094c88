// Package models defines the core data structures for accounts, todos and profiles.
package models

import "time"

// User is the session handle handed out by the authentication provider.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login address of the account.
	Email string `json:"email"`
	// DisplayName is the name chosen at sign up.
	DisplayName string `json:"display_name"`
}

// Account is the provider-side record of a user, including credentials.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	Disabled     bool
	CreatedAt    time.Time
}

// User returns the public handle of the account.
func (a *Account) User() *User {
	return &User{ID: a.ID, Email: a.Email, DisplayName: a.DisplayName}
}

// Priority is the urgency of a todo.
type Priority string

const (
	// PriorityHigh marks urgent todos.
	PriorityHigh Priority = "high"
	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"
	// PriorityLow marks todos that can wait.
	PriorityLow Priority = "low"
)

// Priorities lists the accepted priorities in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Todo is a single entry of a user's todo collection.
type Todo struct {
	// ID is the unique identifier for the todo.
	ID string `json:"id" db:"id"`
	// UserID is the owner of the todo; set by the server.
	UserID string `json:"user_id,omitempty" db:"user_id"`
	// Title is the required short summary (at most 100 characters).
	Title string `json:"title" db:"title"`
	// Description holds optional details (at most 500 characters).
	Description string `json:"description" db:"description"`
	// Priority is one of high, medium or low.
	Priority Priority `json:"priority" db:"priority"`
	// CreatedAt is the creation time of the todo.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	// Pending is true while the todo exists only on the device.
	Pending bool `json:"pending,omitempty"`
}

// Profile is the single personal profile kept on the device.
type Profile struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Location string  `json:"location"`
	Bio      string  `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// DefaultProfile returns the placeholder profile shown before the first save.
func DefaultProfile() Profile {
	return Profile{
		Name:     "John Doe",
		Email:    "john.doe@example.com",
		Phone:    "+1 (555) 123-4567",
		Location: "San Francisco, CA",
		Bio:      "Mobile developer passionate about React Native and modern app development.",
	}
}

// PasswordReset is the event emitted when a user asks for a reset link.
type PasswordReset struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

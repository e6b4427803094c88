package validation

import (
	"fmt"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// Field names used as keys of Errors.
const (
	FieldDisplayName     = "displayName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldName            = "name"
	FieldPhone           = "phone"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPriority        = "priority"
)

// LoginDraft is the sign in form.
type LoginDraft struct {
	Email    string
	Password string
}

// Validate runs the sign in rules.
func (d LoginDraft) Validate() Errors {
	errs := Errors{}
	checkEmail(errs, d.Email)
	checkPassword(errs, d.Password)
	return errs
}

// Complete reports whether every required field has been filled in.
func (d LoginDraft) Complete() bool {
	return d.Email != "" && d.Password != ""
}

// RegisterDraft is the account creation form.
type RegisterDraft struct {
	DisplayName     string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate runs the sign up rules.
func (d RegisterDraft) Validate() Errors {
	errs := Errors{}
	if !Required(d.DisplayName) {
		errs[FieldDisplayName] = "Display name is required"
	}
	checkEmail(errs, d.Email)
	checkPassword(errs, d.Password)
	switch {
	case d.ConfirmPassword == "":
		errs[FieldConfirmPassword] = "Please confirm your password"
	case !PasswordsMatch(d.Password, d.ConfirmPassword):
		errs[FieldConfirmPassword] = "Passwords do not match"
	}
	return errs
}

// Complete reports whether every required field has been filled in.
func (d RegisterDraft) Complete() bool {
	return d.DisplayName != "" && d.Email != "" && d.Password != "" && d.ConfirmPassword != ""
}

// ResetDraft is the forgotten password form.
type ResetDraft struct {
	Email string
}

// Validate runs the password reset rules.
func (d ResetDraft) Validate() Errors {
	errs := Errors{}
	switch {
	case !Required(d.Email):
		errs[FieldEmail] = "Please enter your email address"
	case !Email(d.Email):
		errs[FieldEmail] = "Please enter a valid email address"
	}
	return errs
}

// Complete reports whether the email has been filled in.
func (d ResetDraft) Complete() bool {
	return Required(d.Email)
}

// ProfileDraft is the edit profile form.
type ProfileDraft struct {
	models.Profile
}

// Validate runs the profile rules. Location and bio are free form.
func (d ProfileDraft) Validate() Errors {
	errs := Errors{}
	if !Required(d.Name) {
		errs[FieldName] = "Name is required"
	}
	checkEmail(errs, d.Email)
	if !Required(d.Phone) {
		errs[FieldPhone] = "Phone is required"
	}
	return errs
}

// Complete reports whether every required field has been filled in.
func (d ProfileDraft) Complete() bool {
	return Required(d.Name) && Required(d.Email) && Required(d.Phone)
}

// TodoDraft is the add todo form.
type TodoDraft struct {
	Title       string
	Description string
	Priority    models.Priority
}

// NewTodoDraft returns an empty draft with the default priority.
func NewTodoDraft() TodoDraft {
	return TodoDraft{Priority: models.PriorityMedium}
}

// Validate runs the todo rules.
func (d TodoDraft) Validate() Errors {
	errs := Errors{}
	switch {
	case !Required(d.Title):
		errs[FieldTitle] = "Please enter a todo title"
	case !MaxLength(d.Title, MaxTitleLength):
		errs[FieldTitle] = fmt.Sprintf("Title must be at most %d characters", MaxTitleLength)
	}
	if !MaxLength(d.Description, MaxDescriptionLength) {
		errs[FieldDescription] = fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength)
	}
	if !d.Priority.Valid() {
		errs[FieldPriority] = "Priority must be high, medium or low"
	}
	return errs
}

// Complete reports whether the title has been filled in.
func (d TodoDraft) Complete() bool {
	return Required(d.Title)
}

func checkEmail(errs Errors, email string) {
	switch {
	case !Required(email):
		errs[FieldEmail] = "Email is required"
	case !Email(email):
		errs[FieldEmail] = "Email is invalid"
	}
}

func checkPassword(errs Errors, password string) {
	switch {
	case password == "":
		errs[FieldPassword] = "Password is required"
	case !PasswordLength(password):
		errs[FieldPassword] = fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	}
}

package form

import (
	"context"
	"sync"

	"github.com/atinyakov/TodoKeeper/internal/client/session"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// Auth is the session adapter as seen by the auth screens.
type Auth interface {
	SignIn(ctx context.Context, email, password string) session.Result
	SignUp(ctx context.Context, email, password, displayName string) session.Result
	ResetPassword(ctx context.Context, email string) session.Result
	Loading() bool
}

func fromResult(r session.Result) Outcome {
	return Outcome{Success: r.Success, Title: r.Title, Message: r.Message}
}

// Login is the sign in form.
type Login struct {
	base
	auth Auth

	mu    sync.Mutex
	draft validation.LoginDraft
}

// NewLogin creates a mounted sign in form.
func NewLogin(auth Auth) *Login {
	return &Login{base: newBase(), auth: auth}
}

// Set updates a field and clears its error. Unknown fields are ignored.
func (f *Login) Set(field, value string) {
	f.mu.Lock()
	switch field {
	case validation.FieldEmail:
		f.draft.Email = value
	case validation.FieldPassword:
		f.draft.Password = value
	}
	f.mu.Unlock()
	f.edited(field)
}

// Draft returns the current values.
func (f *Login) Draft() validation.LoginDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// CanSubmit reports whether the submit button is enabled.
func (f *Login) CanSubmit() bool {
	return f.canSubmit(f.Draft().Complete()) && !f.auth.Loading()
}

// Submit validates the draft and signs in.
func (f *Login) Submit(ctx context.Context) Outcome {
	d := f.Draft()
	return f.run(d.Validate(), func() Outcome {
		return fromResult(f.auth.SignIn(ctx, d.Email, d.Password))
	})
}

// Register is the account creation form.
type Register struct {
	base
	auth Auth

	mu    sync.Mutex
	draft validation.RegisterDraft
}

// NewRegister creates a mounted sign up form.
func NewRegister(auth Auth) *Register {
	return &Register{base: newBase(), auth: auth}
}

// Set updates a field and clears its error. Unknown fields are ignored.
func (f *Register) Set(field, value string) {
	f.mu.Lock()
	switch field {
	case validation.FieldDisplayName:
		f.draft.DisplayName = value
	case validation.FieldEmail:
		f.draft.Email = value
	case validation.FieldPassword:
		f.draft.Password = value
	case validation.FieldConfirmPassword:
		f.draft.ConfirmPassword = value
	}
	f.mu.Unlock()
	f.edited(field)
}

// Draft returns the current values.
func (f *Register) Draft() validation.RegisterDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// CanSubmit reports whether the submit button is enabled.
func (f *Register) CanSubmit() bool {
	return f.canSubmit(f.Draft().Complete()) && !f.auth.Loading()
}

// Submit validates the draft and creates the account.
func (f *Register) Submit(ctx context.Context) Outcome {
	d := f.Draft()
	return f.run(d.Validate(), func() Outcome {
		return fromResult(f.auth.SignUp(ctx, d.Email, d.Password, d.DisplayName))
	})
}

// Reset is the forgotten password form.
type Reset struct {
	base
	auth Auth

	mu    sync.Mutex
	draft validation.ResetDraft
	sent  bool
}

// NewReset creates a mounted password reset form.
func NewReset(auth Auth) *Reset {
	return &Reset{base: newBase(), auth: auth}
}

// Set updates the email and clears its error.
func (f *Reset) Set(field, value string) {
	f.mu.Lock()
	if field == validation.FieldEmail {
		f.draft.Email = value
	}
	f.mu.Unlock()
	f.edited(field)
}

// CanSubmit reports whether the submit button is enabled.
func (f *Reset) CanSubmit() bool {
	f.mu.Lock()
	complete := f.draft.Complete()
	f.mu.Unlock()
	return f.canSubmit(complete)
}

// Sent reports whether a reset email has been sent from this form.
func (f *Reset) Sent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

// Submit validates the email and requests the reset email.
func (f *Reset) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	d := f.draft
	f.mu.Unlock()

	errs := d.Validate()
	if !errs.Valid() {
		out := f.run(errs, nil)
		out.Title = "Error"
		out.Message = errs[validation.FieldEmail]
		return out
	}
	out := f.run(errs, func() Outcome {
		return fromResult(f.auth.ResetPassword(ctx, d.Email))
	})
	if out.Done && out.Success {
		f.mu.Lock()
		f.sent = true
		f.mu.Unlock()
	}
	return out
}

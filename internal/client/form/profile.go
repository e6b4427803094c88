package form

import (
	"context"
	"sync"

	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// SaveFunc persists an edited profile.
type SaveFunc func(ctx context.Context, p models.Profile) error

// Profile is the edit profile form. It starts from the profile being edited
// and hands the result to onSave.
type Profile struct {
	base
	onSave SaveFunc

	mu    sync.Mutex
	draft validation.ProfileDraft
}

// NewProfile creates a mounted edit form for p.
func NewProfile(p models.Profile, onSave SaveFunc) *Profile {
	return &Profile{base: newBase(), onSave: onSave, draft: validation.ProfileDraft{Profile: p}}
}

// Set updates a field and clears its error. Unknown fields are ignored.
func (f *Profile) Set(field, value string) {
	f.mu.Lock()
	switch field {
	case validation.FieldName:
		f.draft.Name = value
	case validation.FieldEmail:
		f.draft.Email = value
	case validation.FieldPhone:
		f.draft.Phone = value
	case FieldLocation:
		f.draft.Location = value
	case FieldBio:
		f.draft.Bio = value
	}
	f.mu.Unlock()
	f.edited(field)
}

// Profile fields that carry no validation rule.
const (
	FieldLocation = "location"
	FieldBio      = "bio"
)

// Draft returns the edited profile.
func (f *Profile) Draft() models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Profile
}

// CanSubmit reports whether the save button is enabled.
func (f *Profile) CanSubmit() bool {
	f.mu.Lock()
	complete := f.draft.Complete()
	f.mu.Unlock()
	return f.canSubmit(complete)
}

// Submit validates the profile and saves it.
func (f *Profile) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	d := f.draft
	f.mu.Unlock()

	errs := d.Validate()
	if !errs.Valid() {
		out := f.run(errs, nil)
		out.Title = "Validation Error"
		out.Message = "Please fix the errors and try again"
		return out
	}
	return f.run(errs, func() Outcome {
		if err := f.onSave(ctx, d.Profile); err != nil {
			return Outcome{Title: "Error", Message: "Failed to save profile"}
		}
		return Outcome{Success: true, Title: "Success", Message: "Profile updated successfully!"}
	})
}

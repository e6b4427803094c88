// Package profile keeps the single personal profile of the device.
package profile

import (
	"context"
	"fmt"

	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// StorageKey is the store key of the profile.
const StorageKey = "userProfile"

// Store is the key-value store holding the profile.
type Store interface {
	Store(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) (bool, error)
	Clear(ctx context.Context) error
}

// Repository loads and saves the profile.
type Repository struct {
	store Store
}

// New creates a Repository over store.
func New(store Store) *Repository {
	return &Repository{store: store}
}

// Load returns the saved profile, or the placeholder profile when nothing
// has been saved yet.
func (r *Repository) Load(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	found, err := r.store.Get(ctx, StorageKey, &p)
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return models.DefaultProfile(), nil
	}
	return p, nil
}

// Save validates p and replaces the stored profile with it. The returned
// Errors is non-empty when validation failed, in which case nothing is
// written.
func (r *Repository) Save(ctx context.Context, p models.Profile) (validation.Errors, error) {
	if errs := (validation.ProfileDraft{Profile: p}).Validate(); !errs.Valid() {
		return errs, nil
	}
	if err := r.store.Store(ctx, StorageKey, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return nil, nil
}

// Reset wipes every key of the device store, the profile included.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("reset app data: %w", err)
	}
	return nil
}

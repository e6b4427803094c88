// Package kvstore is the device key-value store used by the screens. Values
// are JSON encoded before they reach a Backend.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Backend persists raw string values by key.
type Backend interface {
	SetItem(ctx context.Context, key, value string) error
	// GetItem reports ok == false when key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	AllKeys(ctx context.Context) ([]string, error)
}

// Store wraps a Backend with JSON encoding and logging.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// New creates a Store over b.
func New(b Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: b, log: log}
}

// Store saves value under key, replacing any previous value.
func (s *Store) Store(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error("storage error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.backend.SetItem(ctx, key, string(data)); err != nil {
		s.log.Error("storage error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("store %q: %w", key, err)
	}
	s.log.Debug("data stored", zap.String("key", key))
	return nil
}

// Get decodes the value under key into dest. found is false when the key is
// absent, in which case dest is untouched.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := s.backend.GetItem(ctx, key)
	if err != nil {
		s.log.Error("retrieval error", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Error("retrieval error", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.RemoveItem(ctx, key); err != nil {
		s.log.Error("remove error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("remove %q: %w", key, err)
	}
	s.log.Debug("data removed", zap.String("key", key))
	return nil
}

// Clear deletes every key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		s.log.Error("clear error", zap.Error(err))
		return fmt.Errorf("clear: %w", err)
	}
	s.log.Debug("all data cleared")
	return nil
}

// Keys lists every stored key in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.backend.AllKeys(ctx)
	if err != nil {
		s.log.Error("get keys error", zap.Error(err))
		return nil, fmt.Errorf("keys: %w", err)
	}
	return keys, nil
}

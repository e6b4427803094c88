package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// FileBackend keeps every item in one JSON document on disk. The document is
// read on first use and rewritten after each change.
type FileBackend struct {
	path   string
	mu     sync.Mutex
	items  map[string]string
	loaded bool
}

type fileDocument struct {
	Items map[string]string `json:"items"`
}

// NewFileBackend creates a FileBackend stored at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) load() error {
	if b.loaded {
		return nil
	}
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.items = make(map[string]string)
			b.loaded = true
			return nil
		}
		return err
	}
	defer f.Close()

	var doc fileDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("corrupt storage file: %w", err)
	}
	if doc.Items == nil {
		doc.Items = make(map[string]string)
	}
	b.items = doc.Items
	b.loaded = true
	return nil
}

// commit writes items to disk and only then makes them the current state.
func (b *FileBackend) commit(items map[string]string) error {
	f, err := os.Create(b.path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(fileDocument{Items: items}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	b.items = items
	b.loaded = true
	return nil
}

func (b *FileBackend) snapshot() map[string]string {
	items := make(map[string]string, len(b.items)+1)
	for k, v := range b.items {
		items[k] = v
	}
	return items
}

func (b *FileBackend) SetItem(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(); err != nil {
		return err
	}
	items := b.snapshot()
	items[key] = value
	return b.commit(items)
}

func (b *FileBackend) GetItem(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(); err != nil {
		return "", false, err
	}
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *FileBackend) RemoveItem(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(); err != nil {
		return err
	}
	if _, ok := b.items[key]; !ok {
		return nil
	}
	items := b.snapshot()
	delete(items, key)
	return b.commit(items)
}

func (b *FileBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit(make(map[string]string))
}

func (b *FileBackend) AllKeys(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

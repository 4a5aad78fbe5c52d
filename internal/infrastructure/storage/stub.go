package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/safespace/backend/internal/domain/content"
)

// StubObjectStorage keeps uploads in memory and hands out fake URLs.
// Use this for development and tests when no bucket is configured.
type StubObjectStorage struct {
	// BaseURL is the prefix of returned URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is an upload held by the stub
type StoredObject struct {
	Data        []byte
	ContentType string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]StoredObject),
	}
}

var _ content.ImageStore = (*StubObjectStorage)(nil)

// Upload records the object and returns a URL under BaseURL
func (s *StubObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	s.objects[key] = StoredObject{Data: append([]byte(nil), data...), ContentType: contentType}
	s.mu.Unlock()
	return s.BaseURL + "/" + key, nil
}

// Delete forgets the object
func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object
func (s *StubObjectStorage) Get(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

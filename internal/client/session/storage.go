// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

// Package session is the client-side holder of the authenticated identity.
// It persists the bearer token and the last known user snapshot, restores a
// session from storage or from OAuth redirect parameters, and exposes
// login/register/logout to the UI layer.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys, shared with the browser build of the client.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

// Storage is the minimal key-value persistence the manager needs. The
// browser build backs it with localStorage; this package ships a JSON-file
// implementation and an in-memory one.
type Storage interface {
	// Get returns the stored value, or ("", false) when the key is absent.
	Get(key string) (string, bool)

	// Set stores the value under the key.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStorage persists the key-value pairs as a single JSON file.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a file-backed storage at the given path. The file
// is created lazily on first Set.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Get reads the file and returns the value under the key.
func (storage *FileStorage) Get(key string) (string, bool) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	values, err := storage.load()
	if err != nil {
		return "", false
	}

	value, ok := values[key]
	return value, ok
}

// Set writes the value under the key and rewrites the file.
func (storage *FileStorage) Set(key, value string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	values, err := storage.load()
	if err != nil {
		return err
	}

	values[key] = value
	return storage.save(values)
}

// Delete removes the key and rewrites the file.
func (storage *FileStorage) Delete(key string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	values, err := storage.load()
	if err != nil {
		return err
	}

	delete(values, key)
	return storage.save(values)
}

func (storage *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(storage.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session_storage_read_failed: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("session_storage_decode_failed: %w", err)
	}

	return values, nil
}

func (storage *FileStorage) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("session_storage_encode_failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(storage.path), 0o700); err != nil {
		return fmt.Errorf("session_storage_mkdir_failed: %w", err)
	}

	if err := os.WriteFile(storage.path, data, 0o600); err != nil {
		return fmt.Errorf("session_storage_write_failed: %w", err)
	}

	return nil
}

// MemoryStorage is a map-backed [Storage] for tests.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

// Get returns the stored value, or ("", false) when absent.
func (storage *MemoryStorage) Get(key string) (string, bool) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	value, ok := storage.values[key]
	return value, ok
}

// Set stores the value under the key.
func (storage *MemoryStorage) Set(key, value string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.values[key] = value
	return nil
}

// Delete removes the key.
func (storage *MemoryStorage) Delete(key string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	delete(storage.values, key)
	return nil
}

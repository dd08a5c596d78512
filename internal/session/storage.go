// Package session is the key-value boundary where tokens and serialized
// identities live between process runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Keys used by the client. Clearing them is the only way to log out.
const (
	KeyUserToken   = "userToken"
	KeyDoctorToken = "doctorToken"
	KeyUser        = "user"
	KeyDoctor      = "doctor"
)

var (
	ErrNotFound = errors.New("session key not found")
	// ErrCorrupt marks a stored value that no longer decodes.
	ErrCorrupt = errors.New("session value is corrupt")
)

// Storage is the persisted key-value store behind identities and tokens.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Memory is a process-local Storage.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// SaveJSON serializes v under key.
func SaveJSON(ctx context.Context, s Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// LoadJSON reads key into v. A missing key returns ErrNotFound and an
// undecodable value returns ErrCorrupt.
func LoadJSON(ctx context.Context, s Storage, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: unmarshal %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

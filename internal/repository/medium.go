package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Medium is a string key-value store holding the serialized post list.
type Medium interface {
	// Get reports ok=false when key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type memoryMedium struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryMedium() Medium {
	return &memoryMedium{data: make(map[string]string)}
}

func (m *memoryMedium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryMedium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryMedium) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fileMedium stores each key as <dir>/<key>.json.
type fileMedium struct {
	dir string
}

func NewFileMedium(dir string) Medium {
	return &fileMedium{dir: dir}
}

func (f *fileMedium) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileMedium) Get(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

// Set replaces the file atomically so a failed write leaves the previous
// content readable.
func (f *fileMedium) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *fileMedium) Remove(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

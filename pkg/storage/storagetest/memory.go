// Package storagetest provides an in-memory object store for tests.
package storagetest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/storage"
)

// Object is one stored payload.
type Object struct {
	ContentType string
	Body        []byte
}

// Memory is an ObjectStore that keeps objects in a map. Keys listed in
// FailKeys return an error on upload.
type Memory struct {
	BaseURL  string
	FailKeys map[string]error

	mu      sync.Mutex
	objects map[string]Object
	writes  map[string]int
}

var _ storage.ObjectStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		BaseURL:  "https://storage.test/bucket",
		FailKeys: map[string]error{},
		objects:  map[string]Object{},
		writes:   map[string]int{},
	}
}

func (m *Memory) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	failure := m.FailKeys[key]
	m.mu.Unlock()
	if failure != nil {
		return "", failure
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Body: data}
	m.writes[key]++
	return m.PublicURL(key), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", m.BaseURL, key)
}

// Fail makes every upload of key return err.
func (m *Memory) Fail(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailKeys[key] = err
}

// Get returns the stored object for key.
func (m *Memory) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len reports how many distinct keys are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Writes reports how many times key was written.
func (m *Memory) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryUploader keeps objects in process. It backs local runs without object storage and tests.
type MemoryUploader struct {
	mu            sync.RWMutex
	objects       map[string][]byte
	contentTypes  map[string]string
	publicBaseURL string
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	return &MemoryUploader{
		objects:       make(map[string][]byte),
		contentTypes:  make(map[string]string),
		publicBaseURL: publicBaseURL,
	}
}

func (m *MemoryUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body (key: %s): %w", key, err)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.contentTypes[key] = contentType
	m.mu.Unlock()
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *MemoryUploader) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.contentTypes, key)
	return nil
}

func (m *MemoryUploader) GetPublicURL(key string) string {
	full, err := publicURL(m.publicBaseURL, key)
	if err != nil {
		return ""
	}
	return full
}

// Object returns a stored object and whether it exists.
func (m *MemoryUploader) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

func (m *MemoryUploader) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

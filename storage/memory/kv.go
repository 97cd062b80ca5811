package memorystore

import (
	"context"
	"sync"
)

// KV is an in-memory implementation of entitlements.KV. It never fails,
// which makes it the adapter of choice for tests and ephemeral runs.
type KV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewKV creates an empty in-memory adapter.
func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes a key. Handy for simulating cleared device storage.
func (s *KV) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

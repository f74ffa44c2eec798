// Package kv provides the small key-value stores that back resume drafts.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrInvalidKey is returned for empty or unsafe keys.
var ErrInvalidKey = errors.New("invalid key")

// Storage is durable key-value storage. Get reports ok=false for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Namespaced prefixes every key with ns and a colon.
type Namespaced struct {
	ns    string
	inner Storage
}

func WithNamespace(inner Storage, ns string) *Namespaced {
	return &Namespaced{ns: ns, inner: inner}
}

func (n *Namespaced) key(k string) string {
	if n.ns == "" {
		return k
	}
	return n.ns + ":" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.key(key))
}

var (
	_ Storage = (*Memory)(nil)
	_ Storage = (*Namespaced)(nil)
)

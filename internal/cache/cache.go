// Package cache stores rendered documents for a short time so repeated
// downloads of an unchanged invoice skip composition.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DocumentCache stores rendered documents by key
type DocumentCache interface {
	// Get returns the cached bytes and whether they were found
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// DocumentKey derives a cache key from the invoice id, theme and a hash of the
// record content, so any edit to the invoice produces a new key.
func DocumentKey(invoiceID, theme string, content any) (string, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return strings.Join([]string{"invoice-pdf", invoiceID, strings.ToLower(theme), hex.EncodeToString(sum[:12])}, ":"), nil
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is a process-local DocumentCache
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

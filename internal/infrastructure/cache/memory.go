package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is a process-local, count-bounded cache with a per-entry TTL.
// Values are stored as JSON so callers get a copy on every read.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

func (m *Memory) GetJSON(_ context.Context, key Key, out any) (bool, error) {
	b, ok := m.lru.Get(key.String())
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) SetJSON(_ context.Context, key Key, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.lru.Add(key.String(), b)
	return nil
}

func (m *Memory) InvalidateNamespace(_ context.Context, ns Namespace, userID int64) error {
	prefix := namespacePrefix(ns, userID)
	for _, k := range m.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.lru.Remove(k)
		}
	}
	return nil
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

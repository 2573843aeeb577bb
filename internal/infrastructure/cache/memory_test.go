package cache

import (
	"context"
	"testing"
	"time"
)

type cachedPage struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func TestMemory_RoundTripReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, time.Minute)
	key := Key{Namespace: NamespaceSavedJobs, UserID: 1, Params: "p0s20"}

	if err := m.SetJSON(ctx, key, cachedPage{Items: []string{"a"}, Total: 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var got cachedPage
	ok, err := m.GetJSON(ctx, key, &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	got.Items[0] = "mutated"

	var again cachedPage
	_, _ = m.GetJSON(ctx, key, &again)
	if again.Items[0] != "a" {
		t.Fatalf("cached value must not alias reads, got %v", again.Items)
	}
}

func TestMemory_InvalidateNamespaceIsScopedToUserAndNamespace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, time.Minute)

	keys := []Key{
		{Namespace: NamespaceSavedJobs, UserID: 1, Params: "a"},
		{Namespace: NamespaceSavedJobs, UserID: 1, Params: "b"},
		{Namespace: NamespaceSavedJobs, UserID: 12, Params: "a"},
		{Namespace: NamespaceAppliedJobs, UserID: 1, Params: "a"},
	}
	for _, k := range keys {
		if err := m.SetJSON(ctx, k, 1); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	if err := m.InvalidateNamespace(ctx, NamespaceSavedJobs, 1); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var v int
	for i, k := range keys {
		ok, _ := m.GetJSON(ctx, k, &v)
		wantHit := i >= 2
		if ok != wantHit {
			t.Fatalf("key %s: hit=%v want %v", k, ok, wantHit)
		}
	}
}

func TestMemory_EvictsBeyondCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, time.Minute)
	for i := int64(1); i <= 3; i++ {
		_ = m.SetJSON(ctx, Key{Namespace: NamespaceUserStats, UserID: i}, i)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	var v int64
	if ok, _ := m.GetJSON(ctx, Key{Namespace: NamespaceUserStats, UserID: 1}, &v); ok {
		t.Fatalf("oldest entry must be evicted")
	}
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, 20*time.Millisecond)
	key := Key{Namespace: NamespacePlatformStats}
	_ = m.SetJSON(ctx, key, 1)
	time.Sleep(60 * time.Millisecond)

	var v int
	if ok, _ := m.GetJSON(ctx, key, &v); ok {
		t.Fatalf("entry must expire")
	}
}

func TestKey_String(t *testing.T) {
	k := Key{Namespace: NamespaceAppliedJobs, UserID: 7, Params: "abc"}
	if got := k.String(); got != "jobtracker:appliedJobs:u7:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

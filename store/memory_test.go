package store

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

func newMemory(t *testing.T) *MemoryStore {
	t.Helper()
	m := NewMemoryStore()
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryStore_GetSetDelete(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) err = %v, want not-found", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = (%q, %v), want (v, nil)", got, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after delete err = %v, want not-found", err)
	}
}

func TestMemoryStore_BatchGetSkipsMissing(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	if err := m.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "missing", "b"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchGet = %v, want %v", got, want)
	}
}

func TestMemoryStore_ZRangeDescending(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	for member, score := range map[string]float64{"old": 100, "mid": 200, "new": 300} {
		if err := m.ZAdd(ctx, "timeline", score, member); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{"full range", 0, -1, []string{"new", "mid", "old"}},
		{"window", 0, 1, []string{"new", "mid"}},
		{"tail", 2, 10, []string{"old"}},
		{"inverted range", 5, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ZRange(ctx, "timeline", tt.start, tt.stop)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ZRange(%d, %d) = %v, want %v", tt.start, tt.stop, got, tt.want)
			}
		})
	}
}

func TestMemoryStore_HIncrByFloat(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	got, err := m.HIncrByFloat(ctx, "h", "f", 1.5)
	if err != nil || got != 1.5 {
		t.Fatalf("first increment = (%v, %v), want (1.5, nil)", got, err)
	}
	got, err = m.HIncrByFloat(ctx, "h", "f", -0.5)
	if err != nil || got != 1.0 {
		t.Fatalf("second increment = (%v, %v), want (1.0, nil)", got, err)
	}

	if err := m.HSet(ctx, "h", "bad", []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.HIncrByFloat(ctx, "h", "bad", 1); err == nil {
		t.Error("increment on non-numeric field should error")
	}
}

func TestMemoryStore_HIncrByFloat_Concurrent(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.HIncrByFloat(ctx, "h", "counter", 1); err != nil {
				t.Errorf("HIncrByFloat() error = %v", err)
			}
		}()
	}
	wg.Wait()

	raw, err := m.HGet(ctx, "h", "counter")
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "100" {
		t.Errorf("counter = %s, want 100 (lost updates)", raw)
	}
}

func TestMemoryStore_Sets(t *testing.T) {
	m := newMemory(t)
	ctx := context.Background()

	if err := m.SAdd(ctx, "s", "a", "b", "a"); err != nil {
		t.Fatal(err)
	}
	members, err := m.SMembers(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 {
		t.Errorf("SMembers = %v, want 2 unique members", members)
	}

	if err := m.SRem(ctx, "s", "a"); err != nil {
		t.Fatal(err)
	}
	members, _ = m.SMembers(ctx, "s")
	if len(members) != 1 || members[0] != "b" {
		t.Errorf("SMembers after SRem = %v, want [b]", members)
	}
}

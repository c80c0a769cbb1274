package recall

import (
	"context"
	"testing"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/store"
)

func newAdapter(t *testing.T) *StoreCandidateAdapter {
	t.Helper()
	mem := store.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	return NewStoreCandidateAdapter(mem)
}

func addCandidate(t *testing.T, a *StoreCandidateAdapter, id, author string, createdAt time.Time, topics ...string) {
	t.Helper()
	c := core.NewCandidate(id)
	c.AuthorID = author
	c.Topics = topics
	c.CreatedAt = createdAt
	if err := a.AddCandidate(context.Background(), c); err != nil {
		t.Fatalf("AddCandidate(%s) error = %v", id, err)
	}
}

func TestStoreCandidateAdapter_GetRecent(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	addCandidate(t, a, "c1", "a1", base.Add(-3*time.Hour), "sports")
	addCandidate(t, a, "c2", "a2", base.Add(-1*time.Hour), "music")
	addCandidate(t, a, "c3", "a1", base.Add(-2*time.Hour), "finance")

	t.Run("descending by publish time", func(t *testing.T) {
		got, err := a.GetRecent(ctx, 10)
		if err != nil {
			t.Fatalf("GetRecent() error = %v", err)
		}
		wantOrder := []string{"c2", "c3", "c1"}
		if len(got) != len(wantOrder) {
			t.Fatalf("GetRecent() returned %d items, want %d", len(got), len(wantOrder))
		}
		for i, id := range wantOrder {
			if got[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("window limit applies", func(t *testing.T) {
		got, err := a.GetRecent(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("GetRecent(2) returned %d items, want 2", len(got))
		}
	})

	t.Run("deleted candidate is skipped", func(t *testing.T) {
		if err := a.RemoveCandidate(ctx, "c3"); err != nil {
			t.Fatal(err)
		}
		got, err := a.GetRecent(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range got {
			if c.ID == "c3" {
				t.Error("removed candidate still returned")
			}
		}
		if len(got) != 2 {
			t.Errorf("GetRecent() returned %d items, want 2", len(got))
		}
	})

	t.Run("metadata round trip", func(t *testing.T) {
		got, err := a.GetRecent(ctx, 1)
		if err != nil || len(got) != 1 {
			t.Fatalf("GetRecent(1) = (%v, %v)", got, err)
		}
		c := got[0]
		if c.ID != "c2" || c.AuthorID != "a2" {
			t.Errorf("candidate = %+v", c)
		}
		if len(c.Topics) != 1 || c.Topics[0] != "music" {
			t.Errorf("Topics = %v, want [music]", c.Topics)
		}
		if !c.CreatedAt.Equal(base.Add(-1 * time.Hour)) {
			t.Errorf("CreatedAt = %v, want %v", c.CreatedAt, base.Add(-1*time.Hour))
		}
	})
}

func TestStoreCandidateAdapter_GetRecentByAuthor(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()
	base := time.Now()

	addCandidate(t, a, "c1", "a1", base.Add(-2*time.Hour), "sports")
	addCandidate(t, a, "c2", "a2", base.Add(-1*time.Hour), "music")
	addCandidate(t, a, "c3", "a1", base, "finance")

	got, err := a.GetRecentByAuthor(ctx, "a1", 10)
	if err != nil {
		t.Fatalf("GetRecentByAuthor() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "c3" || got[1].ID != "c1" {
		ids := make([]string, len(got))
		for i, c := range got {
			ids[i] = c.ID
		}
		t.Errorf("GetRecentByAuthor(a1) = %v, want [c3 c1]", ids)
	}

	empty, err := a.GetRecentByAuthor(ctx, "", 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetRecentByAuthor(\"\") = (%v, %v), want empty", empty, err)
	}
}

func TestStoreCandidateAdapter_FollowUnfollow(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	if err := a.Follow(ctx, "u1", "a1"); err != nil {
		t.Fatal(err)
	}
	if err := a.Follow(ctx, "u1", "a2"); err != nil {
		t.Fatal(err)
	}
	following, err := a.GetFollowing(ctx, "u1")
	if err != nil {
		t.Fatalf("GetFollowing() error = %v", err)
	}
	if len(following) != 2 {
		t.Errorf("GetFollowing() = %v, want 2 authors", following)
	}

	if err := a.Unfollow(ctx, "u1", "a1"); err != nil {
		t.Fatal(err)
	}
	following, _ = a.GetFollowing(ctx, "u1")
	if _, ok := following["a1"]; ok {
		t.Error("a1 still in following set after Unfollow")
	}
}

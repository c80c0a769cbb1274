package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/exposure"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/rank"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/recall"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/store"
)

// countingCandidates wraps a CandidateStore and counts timeline reads,
// so tests can tell a cache hit from a recompute.
type countingCandidates struct {
	core.CandidateStore

	mu      sync.Mutex
	recents int
}

func (c *countingCandidates) GetRecent(ctx context.Context, limit int) ([]*core.Candidate, error) {
	c.mu.Lock()
	c.recents++
	c.mu.Unlock()
	return c.CandidateStore.GetRecent(ctx, limit)
}

func (c *countingCandidates) recentCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recents
}

type failingCandidates struct{}

func (failingCandidates) Name() string { return "failing" }
func (failingCandidates) GetRecent(context.Context, int) ([]*core.Candidate, error) {
	return nil, errors.New("timeline backend down")
}
func (failingCandidates) GetRecentByAuthor(context.Context, string, int) ([]*core.Candidate, error) {
	return nil, errors.New("timeline backend down")
}
func (failingCandidates) GetFollowing(context.Context, string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type staticInterests map[string]float64

func (s staticInterests) GetAll(context.Context, string) (map[string]float64, error) {
	return s, nil
}

type failingInterests struct{}

func (failingInterests) GetAll(context.Context, string) (map[string]float64, error) {
	return nil, errors.New("profile backend down")
}

type captureCollector struct {
	mu     sync.Mutex
	events []exposure.Event
}

func (c *captureCollector) Log(_ context.Context, event exposure.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureCollector) Close() error { return nil }

func (c *captureCollector) all() []exposure.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]exposure.Event, len(c.events))
	copy(out, c.events)
	return out
}

// seedTimeline writes three posts: a high-affinity one from a followed
// author, a mildly interesting one, and an off-interest one.
func seedTimeline(t *testing.T) *recall.StoreCandidateAdapter {
	t.Helper()
	mem := store.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	adapter := recall.NewStoreCandidateAdapter(mem)
	ctx := context.Background()
	now := time.Now()

	posts := []struct {
		id, author string
		topics     []string
		age        time.Duration
	}{
		{"best", "followed_author", []string{"sports"}, time.Hour},
		{"mid", "other_author", []string{"music"}, 2 * time.Hour},
		{"cold", "other_author", []string{"politics"}, 3 * time.Hour},
	}
	for _, p := range posts {
		c := core.NewCandidate(p.id)
		c.AuthorID = p.author
		c.Topics = p.topics
		c.CreatedAt = now.Add(-p.age)
		if err := adapter.AddCandidate(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := adapter.Follow(ctx, "u1", "followed_author"); err != nil {
		t.Fatal(err)
	}
	return adapter
}

func TestRankingService_Rank(t *testing.T) {
	adapter := seedTimeline(t)
	svc := NewRankingService(adapter, staticInterests{"sports": 40, "music": 10}, nil)

	res, err := svc.Rank(context.Background(), Request{
		UserID:      "u1",
		VariantHint: string(rank.VariantTopicsV1),
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if res.Variant != string(rank.VariantTopicsV1) {
		t.Errorf("Variant = %q, want %q", res.Variant, rank.VariantTopicsV1)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.Items))
	}
	if res.Items[0].Candidate.ID != "best" {
		t.Errorf("top item = %s, want the followed author's sports post", res.Items[0].Candidate.ID)
	}
	for _, item := range res.Items {
		if item.Breakdown == nil {
			t.Errorf("item %s missing score breakdown", item.Candidate.ID)
		}
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i-1].Candidate.Score < res.Items[i].Candidate.Score {
			t.Errorf("items not in descending score order at %d", i)
		}
	}
}

func TestRankingService_LimitTruncates(t *testing.T) {
	adapter := seedTimeline(t)
	svc := NewRankingService(adapter, staticInterests{}, nil)

	res, err := svc.Rank(context.Background(), Request{UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("got %d items, want 2", len(res.Items))
	}
}

func TestRankingService_EmptyTimelineIsNotAnError(t *testing.T) {
	mem := store.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	adapter := recall.NewStoreCandidateAdapter(mem)
	svc := NewRankingService(adapter, staticInterests{}, nil)

	res, err := svc.Rank(context.Background(), Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Rank() error = %v, want nil for an empty timeline", err)
	}
	if len(res.Items) != 0 {
		t.Errorf("got %d items, want 0", len(res.Items))
	}
}

func TestRankingService_CandidateFailureReturnsSentinel(t *testing.T) {
	svc := NewRankingService(failingCandidates{}, staticInterests{}, nil)

	_, err := svc.Rank(context.Background(), Request{UserID: "u1"})
	if !errors.Is(err, core.ErrCandidatesUnavailable) {
		t.Errorf("Rank() error = %v, want ErrCandidatesUnavailable", err)
	}
}

func TestRankingService_InterestFailureDegrades(t *testing.T) {
	adapter := seedTimeline(t)
	svc := NewRankingService(adapter, failingInterests{}, nil)

	res, err := svc.Rank(context.Background(), Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Rank() error = %v, want degraded success", err)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.Items))
	}
	// Without interests every topic score is zero.
	for _, item := range res.Items {
		if item.Breakdown.TopicScore != 0 {
			t.Errorf("item %s TopicScore = %v, want 0 without interests",
				item.Candidate.ID, item.Breakdown.TopicScore)
		}
	}
}

func TestRankingService_CacheShortCircuits(t *testing.T) {
	counting := &countingCandidates{CandidateStore: seedTimeline(t)}
	cache := store.NewMemoryStore()
	t.Cleanup(func() { _ = cache.Close() })

	svc := NewRankingService(counting, staticInterests{"sports": 40}, nil)
	svc.Cache = cache

	req := Request{UserID: "u1", VariantHint: string(rank.VariantTopicsV1)}
	first, err := svc.Rank(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first call served from cache")
	}

	second, err := svc.Rank(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second call not served from cache")
	}
	if counting.recentCalls() != 1 {
		t.Errorf("timeline read %d times, want 1", counting.recentCalls())
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("cached result has %d items, want %d", len(second.Items), len(first.Items))
	}
	for i := range first.Items {
		if second.Items[i].Candidate.ID != first.Items[i].Candidate.ID {
			t.Errorf("cached order differs at %d: %s vs %s",
				i, second.Items[i].Candidate.ID, first.Items[i].Candidate.ID)
		}
	}

	// A different limit is a different cache entry.
	if _, err := svc.Rank(context.Background(), Request{UserID: "u1", Limit: 1, VariantHint: req.VariantHint}); err != nil {
		t.Fatal(err)
	}
	if counting.recentCalls() != 2 {
		t.Errorf("timeline read %d times, want 2 after a different limit", counting.recentCalls())
	}
}

func TestRankingService_ExposureLogged(t *testing.T) {
	adapter := seedTimeline(t)
	collector := &captureCollector{}
	svc := NewRankingService(adapter, staticInterests{"sports": 40}, nil)
	svc.Exposure = collector

	res, err := svc.Rank(context.Background(), Request{UserID: "u1", VariantHint: string(rank.VariantTopicsV1)})
	if err != nil {
		t.Fatal(err)
	}

	events := collector.all()
	if len(events) != 1 {
		t.Fatalf("got %d exposure events, want 1", len(events))
	}
	e := events[0]
	if e.UserID != "u1" || e.Variant != string(rank.VariantTopicsV1) {
		t.Errorf("event header = %+v", e)
	}
	if len(e.Items) != len(res.Items) {
		t.Fatalf("event has %d items, want %d", len(e.Items), len(res.Items))
	}
	for i, it := range e.Items {
		if it.ID != res.Items[i].Candidate.ID || it.Position != i {
			t.Errorf("event item %d = %+v, want %s at position %d", i, it, res.Items[i].Candidate.ID, i)
		}
	}
}

func TestRankingService_VariantResolution(t *testing.T) {
	adapter := seedTimeline(t)

	t.Run("unknown hint falls back to bucketing default", func(t *testing.T) {
		svc := NewRankingService(adapter, staticInterests{}, nil)
		res, err := svc.Rank(context.Background(), Request{UserID: "u1", VariantHint: "no_such_variant"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Variant != string(rank.DefaultVariant) {
			t.Errorf("Variant = %q, want default %q", res.Variant, rank.DefaultVariant)
		}
	})

	t.Run("assigner decides when no hint", func(t *testing.T) {
		svc := NewRankingService(adapter, staticInterests{}, fixedAssigner("topics_explore_v1"))
		res, err := svc.Rank(context.Background(), Request{UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Variant != "topics_explore_v1" {
			t.Errorf("Variant = %q, want assigner's choice", res.Variant)
		}
	})

	t.Run("assigner failure falls back to default", func(t *testing.T) {
		svc := NewRankingService(adapter, staticInterests{}, failingAssigner{})
		res, err := svc.Rank(context.Background(), Request{UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Variant != string(rank.DefaultVariant) {
			t.Errorf("Variant = %q, want default %q", res.Variant, rank.DefaultVariant)
		}
	})
}

type fixedAssigner string

func (a fixedAssigner) AssignVariant(context.Context, string, string, []string) (string, error) {
	return string(a), nil
}

type failingAssigner struct{}

func (failingAssigner) AssignVariant(context.Context, string, string, []string) (string, error) {
	return "", errors.New("bucketing service down")
}

func TestRankingService_InvalidInput(t *testing.T) {
	svc := NewRankingService(seedTimeline(t), staticInterests{}, nil)
	if _, err := svc.Rank(context.Background(), Request{}); !core.IsInvalidInput(err) {
		t.Errorf("Rank() error = %v, want INVALID_INPUT", err)
	}
}

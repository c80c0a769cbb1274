package recall

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// 存储布局（key 约定）：
//   - zset  feed:recent               member=候选 ID，score=发布时间戳（秒）
//   - zset  feed:author:{authorID}    作者维度时间线
//   - key   candidate:{id}            候选元数据 JSON
//   - set   user:following:{userID}   关注作者集合
const (
	recentTimelineKey  = "feed:recent"
	authorTimelineKey  = "feed:author:"
	candidateKeyPrefix = "candidate:"
	followingKeyPrefix = "user:following:"
)

// StoreCandidateAdapter 基于 core.KeyValueStore 实现 core.CandidateStore。
// 时间线走有序集合（按发布时间降序截窗口），元数据走 JSON key，
// 已删除的内容元数据缺失，读取时直接跳过。
type StoreCandidateAdapter struct {
	Store core.KeyValueStore
}

var _ core.CandidateStore = (*StoreCandidateAdapter)(nil)

func NewStoreCandidateAdapter(store core.KeyValueStore) *StoreCandidateAdapter {
	return &StoreCandidateAdapter{Store: store}
}

func (a *StoreCandidateAdapter) Name() string { return "store.candidates" }

func (a *StoreCandidateAdapter) GetRecent(ctx context.Context, limit int) ([]*core.Candidate, error) {
	return a.loadTimeline(ctx, recentTimelineKey, limit)
}

func (a *StoreCandidateAdapter) GetRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*core.Candidate, error) {
	if authorID == "" {
		return nil, nil
	}
	return a.loadTimeline(ctx, authorTimelineKey+authorID, limit)
}

func (a *StoreCandidateAdapter) GetFollowing(ctx context.Context, userID string) (map[string]struct{}, error) {
	members, err := a.Store.SMembers(ctx, followingKeyPrefix+userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

func (a *StoreCandidateAdapter) loadTimeline(ctx context.Context, key string, limit int) ([]*core.Candidate, error) {
	if limit <= 0 {
		limit = 1
	}
	ids, err := a.Store.ZRange(ctx, key, 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = candidateKeyPrefix + id
	}
	raw, err := a.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(ids))
	for i, id := range ids {
		data, ok := raw[keys[i]]
		if !ok {
			// 元数据缺失 = 已删除，跳过
			continue
		}
		c, err := decodeCandidate(id, data)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// AddCandidate 写入候选元数据并登记到时间线（内容发布侧调用）。
func (a *StoreCandidateAdapter) AddCandidate(ctx context.Context, c *core.Candidate) error {
	if c == nil || c.ID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: candidate id is required")
	}
	data, err := encodeCandidate(c)
	if err != nil {
		return err
	}
	if err := a.Store.Set(ctx, candidateKeyPrefix+c.ID, data); err != nil {
		return err
	}
	ts := float64(c.CreatedAt.Unix())
	if err := a.Store.ZAdd(ctx, recentTimelineKey, ts, c.ID); err != nil {
		return err
	}
	if c.AuthorID != "" {
		if err := a.Store.ZAdd(ctx, authorTimelineKey+c.AuthorID, ts, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveCandidate 删除候选元数据（时间线上的 ID 留着，读取时自然跳过）。
func (a *StoreCandidateAdapter) RemoveCandidate(ctx context.Context, id string) error {
	return a.Store.Delete(ctx, candidateKeyPrefix+id)
}

// Follow 登记关注关系（交互侧调用）。
func (a *StoreCandidateAdapter) Follow(ctx context.Context, userID, authorID string) error {
	return a.Store.SAdd(ctx, followingKeyPrefix+userID, authorID)
}

// Unfollow 取消关注。
func (a *StoreCandidateAdapter) Unfollow(ctx context.Context, userID, authorID string) error {
	return a.Store.SRem(ctx, followingKeyPrefix+userID, authorID)
}

// candidateRecord 是候选元数据的存储形态。
type candidateRecord struct {
	AuthorID       string   `json:"author_id,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	EnrichedTopics []string `json:"topics_ai,omitempty"`
	LikeCount      int64    `json:"like_count,omitempty"`
	CommentCount   int64    `json:"comment_count,omitempty"`
	ViewCount      int64    `json:"view_count,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

func encodeCandidate(c *core.Candidate) ([]byte, error) {
	rec := candidateRecord{
		AuthorID:       c.AuthorID,
		Topics:         c.Topics,
		EnrichedTopics: c.EnrichedTopics,
		LikeCount:      c.LikeCount,
		CommentCount:   c.CommentCount,
		ViewCount:      c.ViewCount,
	}
	if !c.CreatedAt.IsZero() {
		rec.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(rec)
}

func decodeCandidate(id string, data []byte) (*core.Candidate, error) {
	var rec candidateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	c := core.NewCandidate(id)
	c.AuthorID = rec.AuthorID
	c.Topics = rec.Topics
	c.EnrichedTopics = rec.EnrichedTopics
	c.LikeCount = rec.LikeCount
	c.CommentCount = rec.CommentCount
	c.ViewCount = rec.ViewCount
	if rec.CreatedAt != "" {
		// 时间戳解析失败按数据错误处理：保留零值，时效分自然退化为 0
		if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
			c.CreatedAt = t
		}
	}
	return c, nil
}

package core

import (
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/utils"
)

// Candidate 是 Feed 排序链路中的统一承载结构：内容元信息、互动计数、分数、标签。
// Topics 来自正文分类；EnrichedTopics 来自二级信号（如内嵌视频的 AI 标注），打分时权重更高。
type Candidate struct {
	ID       string
	AuthorID string

	Topics         []string
	EnrichedTopics []string

	LikeCount    int64
	CommentCount int64
	ViewCount    int64

	CreatedAt time.Time

	// Score 是最终复合分；Breakdown 保留各信号的拆解，仅用于日志/分析，不落库。
	Score     float64
	Breakdown *ScoreBreakdown

	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewCandidate(id string) *Candidate {
	return &Candidate{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// AllTopics 返回主 topics 与 enriched topics 的并集（去重，无序）。
func (c *Candidate) AllTopics() []string {
	seen := make(map[string]struct{}, len(c.Topics)+len(c.EnrichedTopics))
	out := make([]string, 0, len(c.Topics)+len(c.EnrichedTopics))
	for _, t := range c.Topics {
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range c.EnrichedTopics {
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

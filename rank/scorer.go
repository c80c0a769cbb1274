package rank

import (
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// 打分常量。调参只改这里与变体权重表，不改公式结构。
const (
	// MaxAffinity 是亲和度线性归一化的假定上界（与 core.ScoreMax 对齐）。
	MaxAffinity = 50.0

	// EnrichedTopicWeight 是 enriched topic 在加权平均里的权重（普通 topic 为 1.0）。
	// 二级信号（视频 AI 标注等）可信度更高，给固定加成。
	EnrichedTopicWeight = 1.5

	// RecencyHorizon 是时效分线性衰减到 0 的窗口。
	RecencyHorizon = 7 * 24 * time.Hour

	// ViewCountCap / ViewCountDivisor / EngagementSaturation 构成热度分：
	// (likes + 2*comments + min(views, cap)/divisor) / saturation，截到 [0,1]。
	// 饱和常数防止爆款热度淹没其他信号。
	ViewCountCap         = 10000.0
	ViewCountDivisor     = 25.0
	EngagementSaturation = 100.0
)

// Scorer 计算单个候选的多信号打分拆解。
// 对固定输入（含 now）是纯函数，可复现，便于测试与回放排查。
type Scorer struct{}

// Score 返回候选的完整打分拆解。未注册的变体按默认变体的权重计算。
func (s *Scorer) Score(rctx *core.RankContext, c *core.Candidate, now time.Time) core.ScoreBreakdown {
	variant := Variant(rctx.Variant)
	weights, ok := WeightsFor(variant)
	if !ok {
		variant = DefaultVariant
		weights, _ = WeightsFor(DefaultVariant)
	}

	bd := core.ScoreBreakdown{
		TopicScore:      s.topicScore(rctx, c),
		RecencyScore:    s.recencyScore(c, now),
		EngagementScore: s.engagementScore(c),
		FollowScore:     s.followScore(rctx, c),
		Variant:         string(variant),
	}
	bd.FinalScore = weights.Topic*bd.TopicScore +
		weights.Recency*bd.RecencyScore +
		weights.Engagement*bd.EngagementScore +
		weights.Follow*bd.FollowScore
	return bd
}

// topicScore 计算兴趣亲和分：主/enriched topic 并集的加权平均亲和度，
// 线性归一化到 [0,1]。完全无 topic 的候选恒为 0。
func (s *Scorer) topicScore(rctx *core.RankContext, c *core.Candidate) float64 {
	enriched := make(map[string]struct{}, len(c.EnrichedTopics))
	for _, t := range c.EnrichedTopics {
		if t != "" {
			enriched[t] = struct{}{}
		}
	}

	var weightedSum, totalWeight float64
	for _, t := range c.AllTopics() {
		w := 1.0
		if _, ok := enriched[t]; ok {
			w = EnrichedTopicWeight
		}
		// 无记录的 topic 按亲和度 0 计入（拉低平均，而不是忽略）
		weightedSum += w * rctx.InterestScore(t)
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return clamp01(weightedSum / totalWeight / MaxAffinity)
}

// recencyScore 计算时效分：发布即 1.0，线性衰减，到达窗口后保持 0。
// 无时间戳/脏时间戳（零值）按数据错误退化为 0。
func (s *Scorer) recencyScore(c *core.Candidate, now time.Time) float64 {
	if c.CreatedAt.IsZero() {
		return 0
	}
	age := now.Sub(c.CreatedAt)
	if age < 0 {
		return 1.0
	}
	return clamp01(1.0 - float64(age)/float64(RecencyHorizon))
}

// engagementScore 计算热度分，负计数（脏数据）按 0 处理。
func (s *Scorer) engagementScore(c *core.Candidate) float64 {
	likes := nonNegative(c.LikeCount)
	comments := nonNegative(c.CommentCount)
	views := nonNegative(c.ViewCount)
	if views > ViewCountCap {
		views = ViewCountCap
	}
	raw := likes + 2*comments + views/ViewCountDivisor
	return clamp01(raw / EngagementSaturation)
}

// followScore 是二值信号：作者在关注集内为 1，否则 0。
func (s *Scorer) followScore(rctx *core.RankContext, c *core.Candidate) float64 {
	if rctx.IsFollowing(c.AuthorID) {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonNegative(n int64) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}

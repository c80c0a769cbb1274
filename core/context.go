package core

import "github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/utils"

// RankContext 承载一次排序请求的用户侧信息，贯穿整个 Pipeline 透传。
// Interests / Following 在进入 Pipeline 之前由编排层加载；
// 任一来源失败时填空 map/set 降级，而不是中断请求（部分个性化可接受）。
type RankContext struct {
	UserID string
	Scene  string

	// Variant 是本次请求生效的算法变体（实验分桶结果）。
	Variant string

	// Limit 是调用方期望的返回条数。
	Limit int

	// Interests 是用户的 topic -> 亲和度分数（已钳位到 [ScoreMin, ScoreMax]）。
	Interests map[string]float64

	// Following 是用户关注的作者集合。
	Following map[string]struct{}

	// Labels 是用户级标签，可驱动 Pipeline 行为（例如新用户、重度用户）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（device_type、time_of_day 等）。
	Params map[string]any
}

// InterestScore 返回某 topic 的亲和度分数，无记录时为 0。
func (rctx *RankContext) InterestScore(topic string) float64 {
	if rctx.Interests == nil {
		return 0
	}
	return rctx.Interests[topic]
}

// IsFollowing 判断用户是否关注了某作者；未加载关注集时恒为 false。
func (rctx *RankContext) IsFollowing(authorID string) bool {
	if rctx.Following == nil || authorID == "" {
		return false
	}
	_, ok := rctx.Following[authorID]
	return ok
}

// PutLabel 写入用户级 Label。
func (rctx *RankContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RankContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

package core

// ScoreBreakdown 是单个候选的打分拆解，每次排序调用临时产生。
// 只回传给调用方做日志/分析，不持久化。
type ScoreBreakdown struct {
	TopicScore      float64 `json:"topic_score"`
	RecencyScore    float64 `json:"recency_score"`
	EngagementScore float64 `json:"engagement_score"`
	FollowScore     float64 `json:"follow_score"`
	FinalScore      float64 `json:"final_score"`
	Variant         string  `json:"variant"`
}

package core

import "context"

// CandidateStore 是候选内容来源的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（recall）实现
//   - 候选选取是有界的近期窗口扫描，不是全量检索
//
// 实现：
//   - recall.StoreCandidateAdapter 实现此接口（基于 core.KeyValueStore）
type CandidateStore interface {
	// Name 返回来源名称（用于日志/监控）
	Name() string

	// GetRecent 返回最近发布的候选（按发布时间降序，最多 limit 条，不含已删除内容）
	GetRecent(ctx context.Context, limit int) ([]*Candidate, error)

	// GetRecentByAuthor 返回某作者最近发布的候选（最多 limit 条）
	GetRecentByAuthor(ctx context.Context, authorID string, limit int) ([]*Candidate, error)

	// GetFollowing 返回用户关注的作者集合
	GetFollowing(ctx context.Context, userID string) (map[string]struct{}, error)
}

// ErrCandidatesUnavailable 表示候选来源不可用。
// 这是 Feed 请求唯一允许整体失败的情况，调用方应将其与"空结果"区分开。
var ErrCandidatesUnavailable = NewDomainError(ModuleFeed, ErrorCodeUnavailable, "feed: candidate source unavailable")

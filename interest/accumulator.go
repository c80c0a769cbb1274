package interest

import (
	"context"
	"log/slog"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/topic"
)

// DefaultAuthorSampleLimit 是关注作者时采样其近期内容的上限。
const DefaultAuthorSampleLimit = 50

// Accumulator 把交互事件转化为 (user, topic) 亲和度增量。
// 独立于排序路径运行，由上游交互端点（like/comment/view/follow）触发。
//
// 错误约定：
//   - 输入错误（缺 userID / 未知 kind / 无有效 topic 中的缺 userID）同步返回
//   - 存储错误只记日志不上抛——累积失败绝不能影响调用方的主操作
type Accumulator struct {
	Store core.InterestStore

	// Candidates 用于 RegisterAuthorFollow 的 topic 推断（可为 nil，则无法推断）
	Candidates core.CandidateStore

	// AuthorSampleLimit 推断时采样的作者近期内容条数，<=0 用默认值
	AuthorSampleLimit int

	Logger *slog.Logger
}

func (a *Accumulator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// ApplyEvent 将一次交互按权重表累积到用户兴趣上。
// topics 会归一化去重；未知 kind 或权重为 0 时是安全 no-op。
func (a *Accumulator) ApplyEvent(ctx context.Context, userID string, topics []string, kind EventKind) error {
	if userID == "" {
		return core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: userID is required")
	}
	if kind == "" {
		return core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: event kind is required")
	}

	weight, ok := kind.Weight()
	if !ok || weight == 0 {
		return nil
	}

	for _, t := range normalizeTopics(topics) {
		if _, err := a.Store.UpsertIncrement(ctx, userID, t, weight); err != nil {
			if core.IsInvalidInput(err) {
				return err
			}
			a.logger().Warn("interest increment failed",
				"user_id", userID, "topic", t, "kind", string(kind), "err", err)
		}
	}
	return nil
}

// RegisterAuthorFollow 处理关注作者事件。
// 未显式给出 topics 时，采样作者最近发布的内容并取其 topic 并集；
// 推断不出任何 topic 则安全 no-op。
func (a *Accumulator) RegisterAuthorFollow(ctx context.Context, userID, authorID string, topics []string) error {
	if userID == "" {
		return core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: userID is required")
	}

	if len(topics) == 0 {
		topics = a.inferAuthorTopics(ctx, authorID)
	}
	if len(topics) == 0 {
		return nil
	}
	return a.ApplyEvent(ctx, userID, topics, KindFollowAuthor)
}

func (a *Accumulator) inferAuthorTopics(ctx context.Context, authorID string) []string {
	if a.Candidates == nil || authorID == "" {
		return nil
	}
	limit := a.AuthorSampleLimit
	if limit <= 0 {
		limit = DefaultAuthorSampleLimit
	}
	items, err := a.Candidates.GetRecentByAuthor(ctx, authorID, limit)
	if err != nil {
		a.logger().Warn("author topic inference failed", "author_id", authorID, "err", err)
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		for _, t := range it.AllTopics() {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// normalizeTopics 归一化并去重，丢弃空白 topic。
func normalizeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		nt := topic.NormalizeTopic(t)
		if nt == "" {
			continue
		}
		if _, ok := seen[nt]; ok {
			continue
		}
		seen[nt] = struct{}{}
		out = append(out, nt)
	}
	return out
}

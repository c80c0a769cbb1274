package filter

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// mutedKeyPrefix 是屏蔽作者集合的 key 前缀，实际 key 为 {prefix}{userID}。
const mutedKeyPrefix = "user:muted:"

// MutedAuthorFilter 过滤掉用户屏蔽的作者发布的内容。
// 屏蔽集按请求惰性加载一次；读失败按"无屏蔽"降级。
type MutedAuthorFilter struct {
	Store core.KeyValueStore
}

func (f *MutedAuthorFilter) Name() string {
	return "filter.muted_author"
}

func (f *MutedAuthorFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RankContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Store == nil || rctx == nil || rctx.UserID == "" || item.AuthorID == "" {
		return false, nil
	}

	muted := f.loadMuted(ctx, rctx)
	if len(muted) == 0 {
		return false, nil
	}
	_, ok := muted[item.AuthorID]
	return ok, nil
}

// loadMuted 从 rctx.Params 取缓存的屏蔽集，没有则从 Store 加载并回填。
// FilterNode 在单个请求内串行调用，不存在并发写 Params。
func (f *MutedAuthorFilter) loadMuted(ctx context.Context, rctx *core.RankContext) map[string]struct{} {
	const paramsKey = "_muted_authors"
	if rctx.Params != nil {
		if cached, ok := rctx.Params[paramsKey].(map[string]struct{}); ok {
			return cached
		}
	}

	muted := make(map[string]struct{})
	members, err := f.Store.SMembers(ctx, mutedKeyPrefix+rctx.UserID)
	if err == nil {
		for _, m := range members {
			muted[m] = struct{}{}
		}
	}

	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[paramsKey] = muted
	return muted
}

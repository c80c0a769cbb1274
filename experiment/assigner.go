package experiment

import (
	"context"
	"hash/fnv"
	"sort"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// HashAssigner 是确定性哈希分桶：对 (experimentKey, userID) 做 FNV-64a，
// 按变体数取模。同样输入永远得到同一变体，天然 sticky，无需存储。
// variants 先排序再取模，调用方传入顺序不影响分桶结果。
type HashAssigner struct{}

var _ core.ExperimentAssigner = (*HashAssigner)(nil)

func (a *HashAssigner) AssignVariant(_ context.Context, userID, experimentKey string, variants []string) (string, error) {
	if userID == "" {
		return "", core.NewDomainError(core.ModuleExperiment, core.ErrorCodeInvalidInput, "experiment: userID is required")
	}
	if len(variants) == 0 {
		return "", core.NewDomainError(core.ModuleExperiment, core.ErrorCodeInvalidInput, "experiment: variants are required")
	}

	sorted := make([]string, len(variants))
	copy(sorted, variants)
	sort.Strings(sorted)

	h := fnv.New64a()
	h.Write([]byte(experimentKey))
	h.Write([]byte{':'})
	h.Write([]byte(userID))
	idx := h.Sum64() % uint64(len(sorted))
	return sorted[idx], nil
}

// StickyAssigner 在哈希分桶外再加一层存储固化：首次分桶结果写入 Store，
// 之后即使变体列表扩缩，老用户仍拿到最初的变体（真正的 sticky 语义）。
// 存储读写失败时退回纯哈希分桶，不影响请求。
type StickyAssigner struct {
	Inner core.ExperimentAssigner
	Store core.Store

	// KeyPrefix 分桶结果的 key 前缀，实际 key 为 {prefix}:{experimentKey}:{userID}
	KeyPrefix string
}

var _ core.ExperimentAssigner = (*StickyAssigner)(nil)

func (a *StickyAssigner) key(userID, experimentKey string) string {
	prefix := a.KeyPrefix
	if prefix == "" {
		prefix = "experiment"
	}
	return prefix + ":" + experimentKey + ":" + userID
}

func (a *StickyAssigner) AssignVariant(ctx context.Context, userID, experimentKey string, variants []string) (string, error) {
	inner := a.Inner
	if inner == nil {
		inner = &HashAssigner{}
	}

	if a.Store == nil {
		return inner.AssignVariant(ctx, userID, experimentKey, variants)
	}

	key := a.key(userID, experimentKey)
	if raw, err := a.Store.Get(ctx, key); err == nil && len(raw) > 0 {
		stored := string(raw)
		for _, v := range variants {
			if v == stored {
				return stored, nil
			}
		}
		// 固化的变体已下线，重新分桶
	}

	variant, err := inner.AssignVariant(ctx, userID, experimentKey, variants)
	if err != nil {
		return "", err
	}
	_ = a.Store.Set(ctx, key, []byte(variant))
	return variant, nil
}

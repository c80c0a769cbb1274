package recall

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// Source 表示一个可复用的候选来源（近期窗口/关注作者/...）。
// 可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RankContext) ([]*core.Candidate, error)
}

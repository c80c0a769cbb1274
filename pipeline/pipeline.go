package pipeline

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// Pipeline 是核心抽象：把 Feed 排序逻辑拆成可组合的 Node 链
// （Recall → Filter → Rank → ReRank）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := items
	for _, node := range p.Nodes {
		// 请求可能被调用方放弃（如客户端断连），每个阶段前检查取消
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

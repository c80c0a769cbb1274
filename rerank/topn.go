package rerank

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序之后把结果截到调用方要的条数。
//
// 使用场景：
//   - Feed 请求的 limit 截断
//   - 控制返回结果数量
//
// N <= 0 时不截断；N 取不到时回退到 rctx.Limit（请求自带的条数）。
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 {
		return items, nil
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}

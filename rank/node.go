package rank

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/utils"
)

// ScoreNode 是排序 Node：对每个候选计算多信号拆解，写回 Score/Breakdown，
// 并按复合分降序排序（稳定排序，同分按发布时间新者优先）。
//
// Scorer 是纯函数且无副作用，候选间打分天然可并行。
type ScoreNode struct {
	Scorer *Scorer

	// Parallelism 打分并发度（<=0 表示不限制）
	Parallelism int

	// Clock 用于测试注入固定时间；nil 时用 time.Now
	Clock func() time.Time
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) == 0 {
		return items, nil
	}

	scorer := n.Scorer
	if scorer == nil {
		scorer = &Scorer{}
	}
	now := time.Now()
	if n.Clock != nil {
		now = n.Clock()
	}

	eg, _ := errgroup.WithContext(ctx)
	if n.Parallelism > 0 {
		eg.SetLimit(n.Parallelism)
	}
	for _, it := range items {
		c := it
		if c == nil {
			continue
		}
		eg.Go(func() error {
			bd := scorer.Score(rctx, c, now)
			c.Score = bd.FinalScore
			c.Breakdown = &bd
			c.PutLabel("rank_variant", utils.Label{Value: bd.Variant, Source: "rank"})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		// 同分时更新的内容排前
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

package recall

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/utils"
)

const (
	// DefaultPerAuthorLimit 是每个关注作者拉取的条数上限。
	DefaultPerAuthorLimit = 10

	// DefaultMaxAuthors 是一次召回覆盖的关注作者数上限，防止重度关注用户放大扫描量。
	DefaultMaxAuthors = 20
)

// Following 是关注作者召回源：从用户关注的作者时间线拉取近期内容。
// 依赖 rctx.Following（由编排层预加载）；关注集为空时是安全 no-op。
type Following struct {
	Candidates     core.CandidateStore
	PerAuthorLimit int
	MaxAuthors     int
}

func (r *Following) Name() string        { return "recall.following" }
func (r *Following) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Following) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

func (r *Following) Recall(
	ctx context.Context,
	rctx *core.RankContext,
) ([]*core.Candidate, error) {
	if r.Candidates == nil || rctx == nil || len(rctx.Following) == 0 {
		return nil, nil
	}

	perAuthor := r.PerAuthorLimit
	if perAuthor <= 0 {
		perAuthor = DefaultPerAuthorLimit
	}
	maxAuthors := r.MaxAuthors
	if maxAuthors <= 0 {
		maxAuthors = DefaultMaxAuthors
	}

	var out []*core.Candidate
	n := 0
	for authorID := range rctx.Following {
		if n >= maxAuthors {
			break
		}
		n++
		items, err := r.Candidates.GetRecentByAuthor(ctx, authorID, perAuthor)
		if err != nil {
			// 单作者失败不影响其余作者
			continue
		}
		for _, it := range items {
			it.PutLabel("recall_source", utils.Label{Value: "following", Source: "recall"})
		}
		out = append(out, items...)
	}
	return out, nil
}

package recall

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/utils"
)

// DefaultWindow 是近期窗口的默认大小。
// 刻意不扫全量：用排序完整性换有界时延。
const DefaultWindow = 300

// Recent 是近期窗口召回源：拉取最近发布的候选（有界、按时间降序）。
// 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Recent struct {
	Candidates core.CandidateStore
	Window     int // <=0 时用 DefaultWindow
}

func (r *Recent) Name() string        { return "recall.recent" }
func (r *Recent) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Recent) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Recent) Recall(
	ctx context.Context,
	_ *core.RankContext,
) ([]*core.Candidate, error) {
	if r.Candidates == nil {
		return nil, nil
	}
	window := r.Window
	if window <= 0 {
		window = DefaultWindow
	}
	items, err := r.Candidates.GetRecent(ctx, window)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: "recent", Source: "recall"})
	}
	return items, nil
}

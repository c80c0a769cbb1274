package exposure

import (
	"context"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// Item 是单条曝光记录：哪个内容、什么位置、什么分数。
type Item struct {
	ID       string  `json:"id"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Event 是一次 Feed 曝光事件（轻量级，只含离线评估需要的信息）。
type Event struct {
	UserID    string `json:"user_id"`
	Scene     string `json:"scene,omitempty"`
	Variant   string `json:"variant"`
	Timestamp int64  `json:"timestamp"` // Unix 时间戳（秒）
	Items     []Item `json:"items"`
}

// Collector 是曝光收集器接口（异步非阻塞）。
// Log 永远不能阻塞或拖慢 Feed 主路径——实现必须排队后立即返回。
type Collector interface {
	// Log 异步记录一次曝光
	Log(ctx context.Context, event Event)

	// Close 优雅关闭（尽力送完缓冲数据）
	Close() error
}

// FromCandidates 从最终返回的候选列表构建曝光事件。
func FromCandidates(rctx *core.RankContext, items []*core.Candidate) Event {
	e := Event{
		Timestamp: time.Now().Unix(),
	}
	if rctx != nil {
		e.UserID = rctx.UserID
		e.Scene = rctx.Scene
		e.Variant = rctx.Variant
	}
	e.Items = make([]Item, 0, len(items))
	for i, c := range items {
		if c == nil {
			continue
		}
		e.Items = append(e.Items, Item{ID: c.ID, Position: i, Score: c.Score})
	}
	return e
}

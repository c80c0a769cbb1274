package interest

// EventKind 是交互事件类型的封闭枚举。
// 权重表按枚举定死，新增行为只加常量与表项，不加分支逻辑。
type EventKind string

const (
	KindView         EventKind = "view"
	KindLongView     EventKind = "long_view"
	KindLike         EventKind = "like"
	KindDislike      EventKind = "dislike"
	KindComment      EventKind = "comment"
	KindShare        EventKind = "share"
	KindHide         EventKind = "hide"
	KindReport       EventKind = "report"
	KindFollowAuthor EventKind = "follow_author"
)

// eventWeights 是交互类型 -> 亲和度增量的固定权重表。
var eventWeights = map[EventKind]float64{
	KindView:         0.5,
	KindLongView:     1,
	KindLike:         2,
	KindDislike:      -2,
	KindComment:      3,
	KindShare:        2.5,
	KindHide:         -3,
	KindReport:       -5,
	KindFollowAuthor: 3,
}

// Weight 返回事件类型的权重；未知类型返回 (0, false)。
func (k EventKind) Weight() (float64, bool) {
	w, ok := eventWeights[k]
	return w, ok
}

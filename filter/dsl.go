package filter

import (
	"context"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/dsl"
)

// DSLFilter 是规则驱动的过滤器：CEL 表达式命中的候选被过滤掉。
// 表达式由运营/实验侧下发，例如：
//   - `item.author_id == rctx.user_id`（不给用户推自己的内容）
//   - `"politics" in item.topics && rctx.scene == "minor"`（场景化封禁）
//
// 表达式在构造时编译一次，之后按候选逐条求值。
type DSLFilter struct {
	program *dsl.Program
}

// NewDSLFilter 编译表达式并构造过滤器；表达式非法时报错。
func NewDSLFilter(expr string) (*DSLFilter, error) {
	program, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &DSLFilter{program: program}, nil
}

func (f *DSLFilter) Name() string {
	return "filter.dsl"
}

func (f *DSLFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.program.Match(item, rctx)
}

package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// getCELEnv 获取或创建 CEL 环境，定义 item / label / rctx 三个变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是一条编译后的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可对任意数量的候选复用执行（过滤路径按候选逐条求值）。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "recent" / item.author_id == "u42"
//   - 数值：item.like_count > 100 / item.score >= 0.5
//   - 逻辑：label.recall_source == "following" && item.view_count > 1000
//   - 包含："sports" in item.topics
//
// 注意：has(label.key) 可以用 label.key != null 替代
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条规则表达式。表达式非法时立刻报错，避免在请求路径上才暴露。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env error: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式（用于日志/标签）。
func (p *Program) Expr() string { return p.expr }

// Match 对单个候选执行表达式，返回布尔结果。
func (p *Program) Match(c *core.Candidate, rctx *core.RankContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(c, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；用 label.key != null 检查存在性
		return false, fmt.Errorf("dsl: eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate, rctx *core.RankContext) map[string]interface{} {
	// label.recall_source 直接取 value；存在性用 label.key != null 判断
	labelAccessor := make(map[string]interface{}, len(c.Labels))
	for k, v := range c.Labels {
		labelAccessor[k] = v.Value
	}

	item := map[string]interface{}{
		"id":            c.ID,
		"author_id":     c.AuthorID,
		"topics":        c.Topics,
		"topics_ai":     c.EnrichedTopics,
		"like_count":    c.LikeCount,
		"comment_count": c.CommentCount,
		"view_count":    c.ViewCount,
		"score":         c.Score,
		"meta":          c.Meta,
	}

	rc := map[string]interface{}{}
	if rctx != nil {
		rc["user_id"] = rctx.UserID
		rc["scene"] = rctx.Scene
		rc["variant"] = rctx.Variant
		rc["params"] = rctx.Params
	}

	return map[string]interface{}{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rc,
	}
}

package core

import "context"

// ExperimentAssigner 是实验分桶的领域接口。
// 同一 (userID, experimentKey) 的分桶结果必须稳定（sticky）。
type ExperimentAssigner interface {
	// AssignVariant 将用户分到 variants 中的某一个；variants 为空时返回错误。
	AssignVariant(ctx context.Context, userID, experimentKey string, variants []string) (string, error)
}

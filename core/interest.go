package core

import (
	"context"
	"time"
)

// 亲和度分数的钳位区间。任何写入完成后分数都必须落在 [ScoreMin, ScoreMax] 内。
// 取 [-10, 50]：负向行为（hide/report）可以压到 -10，正向累积最高 50。
const (
	ScoreMin float64 = -10
	ScoreMax float64 = 50
)

// ClampScore 将分数钳位到 [ScoreMin, ScoreMax]。
func ClampScore(score float64) float64 {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// UserInterest 是 (userId, topic) 维度的亲和度记录。
// 首次交互时惰性创建；分数可以衰减趋零但记录不做硬删除（保留历史便于排查）。
type UserInterest struct {
	UserID    string
	Topic     string
	Score     float64
	UpdatedAt time.Time
}

// InterestReader 是排序路径消费的只读兴趣接口。
// 实现可以是 KV 存储（interest.KVStore），也可以是特征平台（interest.FeastReader）。
type InterestReader interface {
	// GetAll 返回用户的全部 topic -> score；无记录返回空 map。
	GetAll(ctx context.Context, userID string) (map[string]float64, error)
}

// InterestStore 在读的基础上提供原子累加写入，由兴趣累积器使用。
type InterestStore interface {
	InterestReader

	// UpsertIncrement 对 (userID, topic) 的分数做原子增量（记录不存在时创建），
	// 返回钳位后的当前分数。增量与钳位之间允许瞬时越界（两阶段钳位），
	// 读者看到的要么是增量前、要么是钳位后的值，不会基于越界值做排序决策。
	UpsertIncrement(ctx context.Context, userID, topic string, delta float64) (float64, error)
}

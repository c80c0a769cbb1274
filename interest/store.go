package interest

import (
	"context"
	"strconv"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

// DefaultKeyPrefix 是兴趣 Hash 的默认 key 前缀，实际 key 为 {prefix}:{userID}。
const DefaultKeyPrefix = "interest"

// KVStore 是基于 core.KeyValueStore 的兴趣存储实现。
//
// 布局：
//   - Hash {prefix}:{userID}     field=topic, value=score（字符串化浮点）
//   - Hash {prefix}:{userID}:ts  field=topic, value=RFC3339 更新时间（仅排查用）
//
// 写路径是"原子增量 + 二次钳位"：HIncrByFloat 在存储层串行化并发增量，
// 越界时补一次 HSet 写回钳位值。增量与钳位之间的瞬时越界可接受——
// 没有排序决策发生在这个窗口内，读者看到的要么是增量前、要么是钳位后的值。
type KVStore struct {
	KV        core.KeyValueStore
	KeyPrefix string
}

func NewKVStore(kv core.KeyValueStore) *KVStore {
	return &KVStore{KV: kv, KeyPrefix: DefaultKeyPrefix}
}

var _ core.InterestStore = (*KVStore)(nil)

func (s *KVStore) key(userID string) string {
	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + userID
}

// UpsertIncrement 对 (userID, topic) 原子加 delta，返回钳位后的当前分数。
func (s *KVStore) UpsertIncrement(ctx context.Context, userID, topic string, delta float64) (float64, error) {
	if userID == "" || topic == "" {
		return 0, core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: userID and topic are required")
	}

	cur, err := s.KV.HIncrByFloat(ctx, s.key(userID), topic, delta)
	if err != nil {
		return 0, err
	}

	clamped := core.ClampScore(cur)
	if clamped != cur {
		raw := []byte(strconv.FormatFloat(clamped, 'f', -1, 64))
		if err := s.KV.HSet(ctx, s.key(userID), topic, raw); err != nil {
			return 0, err
		}
	}

	// 更新时间戳只用于排查，失败不影响主流程
	ts := []byte(time.Now().UTC().Format(time.RFC3339))
	_ = s.KV.HSet(ctx, s.key(userID)+":ts", topic, ts)

	return clamped, nil
}

// GetAll 返回用户的全部 topic -> score；无记录返回空 map。
// 非数值脏数据按数据错误处理：跳过该 topic，不中断整体读取。
func (s *KVStore) GetAll(ctx context.Context, userID string) (map[string]float64, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: userID is required")
	}

	fields, err := s.KV.HGetAll(ctx, s.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]float64{}, nil
		}
		return nil, err
	}

	out := make(map[string]float64, len(fields))
	for topic, raw := range fields {
		score, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			continue
		}
		out[topic] = core.ClampScore(score)
	}
	return out, nil
}

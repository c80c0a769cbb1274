package interest

import (
	"context"
	"strings"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/feast"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/conv"
)

// FeastReader 是基于 Feast 在线特征的只读兴趣实现。
// 适合把离线计算好的亲和度（物化到 Feast online store）直接喂给排序路径，
// 与 KVStore 的实时累积互为替代；编排层读失败时照常降级为空画像。
type FeastReader struct {
	Client feast.Client

	// Project Feast 项目名
	Project string

	// FeatureView 亲和度所在的特征视图名，特征名形如 {FeatureView}:{topic}
	FeatureView string

	// EntityName 实体名（默认 "user_id"）
	EntityName string

	// Topics 封闭词表：要拉取哪些 topic 的亲和度特征
	Topics []string
}

var _ core.InterestReader = (*FeastReader)(nil)

// GetAll 拉取用户在词表内全部 topic 的亲和度；缺失的特征跳过。
func (r *FeastReader) GetAll(ctx context.Context, userID string) (map[string]float64, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleInterest, core.ErrorCodeInvalidInput, "interest: userID is required")
	}
	if r.Client == nil || len(r.Topics) == 0 {
		return map[string]float64{}, nil
	}

	entityName := r.EntityName
	if entityName == "" {
		entityName = "user_id"
	}

	features := make([]string, 0, len(r.Topics))
	for _, t := range r.Topics {
		features = append(features, r.FeatureView+":"+t)
	}

	resp, err := r.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]interface{}{{entityName: userID}},
		Project:    r.Project,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.FeatureVectors) == 0 {
		return map[string]float64{}, nil
	}

	out := make(map[string]float64, len(r.Topics))
	for name, raw := range resp.FeatureVectors[0].Values {
		score, ok := conv.ToFloat64(raw)
		if !ok {
			continue
		}
		// 特征名剥掉视图前缀还原 topic
		t := name
		if idx := strings.IndexByte(name, ':'); idx >= 0 {
			t = name[idx+1:]
		}
		out[t] = core.ClampScore(score)
	}
	return out, nil
}

package feast

import "context"

// Client 是 Feast Feature Store 的客户端接口。
//
// Feast 是开源 Feature Store，在线存储面向实时预测提供特征服务。
// 本引擎只消费在线特征（用户的 topic 亲和度特征视图），
// 因此接口收敛到 GetOnlineFeatures 一个读路径。
//
// 实现：
//   - GrpcClient：基于官方 SDK (github.com/feast-dev/feast/sdk/go)
//   - 也可以自行实现此接口（如 HTTP Feature Server）
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征。
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["user_topic_affinity:sports"]
	//   - EntityRows: 实体行，例如 [{"user_id": "u42"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，"<feature_view>:<feature>" 形式
	Features []string

	// EntityRows 实体行，每行是 entity 名到值的映射
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，为空用客户端默认）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，与请求的实体行一一对应
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

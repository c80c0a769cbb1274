package rank

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Variant 是算法变体名。新变体只定义新的权重元组，绝不分叉打分逻辑。
type Variant string

const (
	// VariantTopicsV1 是均衡默认变体。
	VariantTopicsV1 Variant = "topics_v1"

	// VariantTopicsExploreV1 是探索变体：把权重从兴趣亲和挪向时效/热度，
	// 缓解信息茧房。
	VariantTopicsExploreV1 Variant = "topics_explore_v1"

	// DefaultVariant 是分桶失败时的兜底变体。
	DefaultVariant = VariantTopicsV1
)

// Weights 是复合打分的权重元组，四项之和必须为 1.0。
type Weights struct {
	Topic      float64 `yaml:"topic"`
	Recency    float64 `yaml:"recency"`
	Engagement float64 `yaml:"engagement"`
	Follow     float64 `yaml:"follow"`
}

// Sum 返回四项权重之和。
func (w Weights) Sum() float64 {
	return w.Topic + w.Recency + w.Engagement + w.Follow
}

// Validate 校验权重之和为 1.0（容差 1e-6）。
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return fmt.Errorf("variant weights must sum to 1.0, got %.6f", w.Sum())
	}
	return nil
}

var (
	variantsMu sync.RWMutex
	variants   = map[Variant]Weights{
		VariantTopicsV1:        {Topic: 0.45, Recency: 0.25, Engagement: 0.15, Follow: 0.15},
		VariantTopicsExploreV1: {Topic: 0.20, Recency: 0.35, Engagement: 0.30, Follow: 0.15},
	}
)

// WeightsFor 返回变体的权重元组；未注册的变体返回 (zero, false)。
func WeightsFor(v Variant) (Weights, bool) {
	variantsMu.RLock()
	defer variantsMu.RUnlock()
	w, ok := variants[v]
	return w, ok
}

// RegisterVariant 注册/覆盖一个变体的权重元组；权重不合法时报错。
func RegisterVariant(v Variant, w Weights) error {
	if v == "" {
		return fmt.Errorf("variant name is required")
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("variant %s: %w", v, err)
	}
	variantsMu.Lock()
	defer variantsMu.Unlock()
	variants[v] = w
	return nil
}

// VariantNames 返回当前注册的变体名列表（排序），用于实验分桶。
func VariantNames() []string {
	variantsMu.RLock()
	defer variantsMu.RUnlock()
	names := make([]string, 0, len(variants))
	for v := range variants {
		names = append(names, string(v))
	}
	sort.Strings(names)
	return names
}

// LoadVariants 从 YAML 文件加载并注册变体权重表。
//
// 文件格式：
//
//	variants:
//	  topics_v1:
//	    topic: 0.45
//	    recency: 0.25
//	    engagement: 0.15
//	    follow: 0.15
func LoadVariants(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read variants: %w", err)
	}
	var doc struct {
		Variants map[string]Weights `yaml:"variants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse variants: %w", err)
	}
	for name, w := range doc.Variants {
		if err := RegisterVariant(Variant(name), w); err != nil {
			return err
		}
	}
	return nil
}

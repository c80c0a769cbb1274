package topic

import (
	"strings"
	"sync"
)

const (
	// DefaultCacheCapacity 是分类结果缓存的默认容量（FIFO 淘汰）。
	DefaultCacheCapacity = 200

	// cacheKeyMaxLen 是缓存 key 的最大长度（rune 计）。
	// 超长文本不进缓存：截断 key 会让不同文本撞 key，缓存就改变语义了。
	cacheKeyMaxLen = 512
)

// Classifier 将自由文本映射到封闭的 topic 集合。
//
// 匹配规则（命中任一即产出该 topic，结果去重为 set，无顺序保证）：
//  1. 关键词/hashtag：分词后精确查倒排表（查表前剥掉前导 '#'）
//  2. 短语：归一化全文的子串匹配
//
// 纯函数 + 只读规则表，无网络无存储；缓存只是性能优化，
// 命中与否不得改变 Classify 的结果。
type Classifier struct {
	rules *RuleSet

	mu       sync.Mutex
	cache    map[string]map[string]struct{}
	order    []string // FIFO 淘汰顺序（非 LRU，刻意从简）
	capacity int
}

// NewClassifier 用给定规则构建分类器。capacity <= 0 时用默认容量。
func NewClassifier(rules []Rule, capacity int) *Classifier {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Classifier{
		rules:    NewRuleSet(rules),
		cache:    make(map[string]map[string]struct{}, capacity),
		order:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Classify 返回文本命中的 topic 集合。空白输入返回空集合，永不报错。
func (c *Classifier) Classify(text string) map[string]struct{} {
	normalized := Normalize(text)
	if normalized == "" {
		return map[string]struct{}{}
	}

	if len([]rune(normalized)) > cacheKeyMaxLen {
		return c.match(normalized)
	}
	key := normalized

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		out := copySet(cached)
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	result := c.match(normalized)

	c.mu.Lock()
	if _, ok := c.cache[key]; !ok {
		if len(c.cache) >= c.capacity && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.cache, oldest)
		}
		c.cache[key] = copySet(result)
		c.order = append(c.order, key)
	}
	c.mu.Unlock()

	return result
}

// ClassifyList 与 Classify 相同，但以切片返回（便于直接写入 Candidate.Topics）。
func (c *Classifier) ClassifyList(text string) []string {
	set := c.Classify(text)
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

func (c *Classifier) match(normalized string) map[string]struct{} {
	result := make(map[string]struct{})

	for _, tok := range Tokenize(normalized) {
		for _, t := range c.rules.keywords[tok] {
			result[t] = struct{}{}
		}
	}

	for _, pr := range c.rules.phrases {
		if containsPhrase(normalized, pr.phrase) {
			result[pr.topic] = struct{}{}
		}
	}

	return result
}

func containsPhrase(text, phrase string) bool {
	// 归一化后都是单空格分隔，直接子串匹配即可
	return phrase != "" && strings.Contains(text, phrase)
}

func copySet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

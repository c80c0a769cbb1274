package topic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule 是单个 topic 的声明式分类规则。
// Keywords / Hashtags 走分词后的精确查表；Phrases 走归一化全文的子串匹配，
// 用于多词线索（如 "ola de calor"）。
type Rule struct {
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Phrases  []string `yaml:"phrases"`
	Hashtags []string `yaml:"hashtags"`
}

// RuleSet 是由规则列表构建的不可变索引：关键词倒排表 + 短语列表。
// 启动时构建一次，之后只读，可被并发使用。
type RuleSet struct {
	keywords map[string][]string // 归一化关键词 -> topics
	phrases  []phraseRule
}

type phraseRule struct {
	phrase string // 已归一化
	topic  string
}

// NewRuleSet 构建规则索引。规则中的 topic/关键词/短语统一做归一化，
// 空白或过短的条目直接丢弃。
func NewRuleSet(rules []Rule) *RuleSet {
	rs := &RuleSet{
		keywords: make(map[string][]string),
	}
	for _, r := range rules {
		t := NormalizeTopic(r.Topic)
		if t == "" {
			continue
		}
		for _, kw := range r.Keywords {
			rs.addKeyword(kw, t)
		}
		for _, tag := range r.Hashtags {
			// hashtag 与普通关键词同表：查表前都会剥掉前导 '#'
			rs.addKeyword(tag, t)
		}
		for _, p := range r.Phrases {
			np := Normalize(p)
			if np == "" {
				continue
			}
			rs.phrases = append(rs.phrases, phraseRule{phrase: np, topic: t})
		}
	}
	return rs
}

func (rs *RuleSet) addKeyword(kw, topic string) {
	nk := normalizeToken(kw)
	if len([]rune(nk)) < minTokenLen {
		return
	}
	for _, t := range rs.keywords[nk] {
		if t == topic {
			return
		}
	}
	rs.keywords[nk] = append(rs.keywords[nk], topic)
}

// LoadRules 从 YAML 文件加载规则列表。
//
// 文件格式：
//
//	rules:
//	  - topic: sports
//	    keywords: [futbol, gol]
//	    hashtags: ["#mundial"]
//	    phrases: ["champions league"]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return doc.Rules, nil
}

// Package feedrank 是个性化 Feed 排序引擎。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 兴趣画像异步累积：交互事件独立于排序路径，存储层原子增量 + 钳位
// - 实验变体只切换权重元组，不分叉打分逻辑
package feedrank

import "github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

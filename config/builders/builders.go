// Package builders 提供内置 Node 的配置构建器，import 即注册。
// 召回/过滤节点依赖存储实例，无法从纯配置构建，入口处需先调用 Use 注入。
package builders

import (
	"fmt"
	"sync"
	"time"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/config"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/filter"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pkg/conv"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/rank"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/recall"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/rerank"
)

func init() {
	config.Register("recall.recent", BuildRecentNode)
	config.Register("recall.following", BuildFollowingNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.score", BuildScoreNode)
	config.Register("rerank.topn", BuildTopNNode)
}

var (
	depsMu     sync.RWMutex
	candidates core.CandidateStore
	kvStore    core.KeyValueStore
)

// Use 注入配置构建器需要的运行时依赖（候选来源与 KV 存储）。
// 在加载 Pipeline 配置之前调用一次。
func Use(c core.CandidateStore, kv core.KeyValueStore) {
	depsMu.Lock()
	defer depsMu.Unlock()
	candidates = c
	kvStore = kv
}

func candidateStore() (core.CandidateStore, error) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	if candidates == nil {
		return nil, fmt.Errorf("candidate store not injected (call builders.Use first)")
	}
	return candidates, nil
}

func keyValueStore() (core.KeyValueStore, error) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	if kvStore == nil {
		return nil, fmt.Errorf("kv store not injected (call builders.Use first)")
	}
	return kvStore, nil
}

func BuildRecentNode(cfg map[string]interface{}) (pipeline.Node, error) {
	cs, err := candidateStore()
	if err != nil {
		return nil, err
	}
	return &recall.Recent{
		Candidates: cs,
		Window:     int(conv.ConfigGetInt64(cfg, "window", 0)),
	}, nil
}

func BuildFollowingNode(cfg map[string]interface{}) (pipeline.Node, error) {
	cs, err := candidateStore()
	if err != nil {
		return nil, err
	}
	return &recall.Following{
		Candidates:     cs,
		PerAuthorLimit: int(conv.ConfigGetInt64(cfg, "per_author_limit", 0)),
		MaxAuthors:     int(conv.ConfigGetInt64(cfg, "max_authors", 0)),
	}, nil
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "recent":
			node, err := BuildRecentNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Recent))
		case "following":
			node, err := BuildFollowingNode(sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Following))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "dsl":
			expr := conv.ConfigGet(filterMap, "expr", "")
			f, err := filter.NewDSLFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("compile dsl filter: %w", err)
			}
			filters = append(filters, f)
		case "muted_author":
			kv, err := keyValueStore()
			if err != nil {
				return nil, err
			}
			filters = append(filters, &filter.MutedAuthorFilter{Store: kv})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.ScoreNode{
		Scorer:      &rank.Scorer{},
		Parallelism: int(conv.ConfigGetInt64(cfg, "parallelism", 0)),
	}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}

package builders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/config"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/recall"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/store"
)

const feedPipelineYAML = `pipeline:
  name: feed
  nodes:
    - type: recall.fanout
      config:
        dedup: true
        timeout: 1
        sources:
          - type: recent
            window: 300
          - type: following
            per_author_limit: 10
    - type: filter
      config:
        filters:
          - type: dsl
            expr: item.author_id == rctx.user_id
          - type: muted_author
    - type: rank.score
      config:
        parallelism: 4
    - type: rerank.topn
      config:
        n: 50
`

func TestBuildPipelineFromYAML(t *testing.T) {
	mem := store.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	Use(recall.NewStoreCandidateAdapter(mem), mem)

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(feedPipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	wantKinds := []pipeline.Kind{
		pipeline.KindRecall,
		pipeline.KindFilter,
		pipeline.KindRank,
		pipeline.KindReRank,
	}
	if len(p.Nodes) != len(wantKinds) {
		t.Fatalf("built %d nodes, want %d", len(p.Nodes), len(wantKinds))
	}
	for i, k := range wantKinds {
		if p.Nodes[i].Kind() != k {
			t.Errorf("node %d kind = %s, want %s", i, p.Nodes[i].Kind(), k)
		}
	}
}

func TestValidateRejectsUnknownNodeType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.neural"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Error("ValidatePipelineConfig() = nil, want error for unknown type")
	}
}

func TestBuildersRequireInjectedStores(t *testing.T) {
	Use(nil, nil)
	t.Cleanup(func() { Use(nil, nil) })

	if _, err := BuildRecentNode(map[string]interface{}{}); err == nil {
		t.Error("BuildRecentNode() = nil, want error without injected store")
	}
	if _, err := BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{map[string]interface{}{"type": "muted_author"}},
	}); err == nil {
		t.Error("BuildFilterNode() = nil, want error without injected store")
	}
}

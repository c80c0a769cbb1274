package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
)

type recordingNode struct {
	name string
	kind Kind
	log  *[]string
	err  error
}

func (n *recordingNode) Name() string { return n.name }
func (n *recordingNode) Kind() Kind   { return n.kind }

func (n *recordingNode) Process(_ context.Context, _ *core.RankContext, items []*core.Candidate) ([]*core.Candidate, error) {
	*n.log = append(*n.log, n.name)
	if n.err != nil {
		return nil, n.err
	}
	return items, nil
}

func TestPipeline_RunsNodesInOrder(t *testing.T) {
	var log []string
	p := &Pipeline{Nodes: []Node{
		&recordingNode{name: "recall", kind: KindRecall, log: &log},
		&recordingNode{name: "filter", kind: KindFilter, log: &log},
		&recordingNode{name: "rank", kind: KindRank, log: &log},
	}}

	if _, err := p.Run(context.Background(), &core.RankContext{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"recall", "filter", "rank"}
	if len(log) != len(want) {
		t.Fatalf("executed %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("stage %d = %s, want %s", i, log[i], want[i])
		}
	}
}

func TestPipeline_NodeErrorStopsTheRun(t *testing.T) {
	var log []string
	boom := errors.New("recall backend down")
	p := &Pipeline{Nodes: []Node{
		&recordingNode{name: "recall", kind: KindRecall, log: &log, err: boom},
		&recordingNode{name: "rank", kind: KindRank, log: &log},
	}}

	if _, err := p.Run(context.Background(), &core.RankContext{}, nil); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if len(log) != 1 {
		t.Errorf("executed %v, want the run to stop after the failing stage", log)
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	var log []string
	p := &Pipeline{Nodes: []Node{
		&recordingNode{name: "recall", kind: KindRecall, log: &log},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, &core.RankContext{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(log) != 0 {
		t.Errorf("executed %v, want nothing after cancellation", log)
	}
}

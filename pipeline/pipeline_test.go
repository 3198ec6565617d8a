package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/seatmatch/core"
)

type funcNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
	runs int
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindFilter }

func (n *funcNode) Process(_ context.Context, _ *core.MatchContext, items []*core.Item) ([]*core.Item, error) {
	n.runs++
	return n.fn(items)
}

func TestPipeline_RunInOrder(t *testing.T) {
	dropFirst := &funcNode{name: "drop", fn: func(items []*core.Item) ([]*core.Item, error) {
		return items[1:], nil
	}}
	double := &funcNode{name: "double", fn: func(items []*core.Item) ([]*core.Item, error) {
		return append(items, items...), nil
	}}

	items := []*core.Item{
		core.NewItem(core.Passenger{UserID: 1}),
		core.NewItem(core.Passenger{UserID: 2}),
	}
	p := &Pipeline{Nodes: []Node{dropFirst, double}}
	out, err := p.Run(context.Background(), &core.MatchContext{}, items)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 2 {
		t.Errorf("Run() = %d items, want two copies of id 2", len(out))
	}
}

func TestPipeline_WrapsNodeError(t *testing.T) {
	boom := errors.New("boom")
	failing := &funcNode{name: "rank.score", fn: func([]*core.Item) ([]*core.Item, error) { return nil, boom }}
	after := &funcNode{name: "after", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}

	p := &Pipeline{Nodes: []Node{failing, after}}
	_, err := p.Run(context.Background(), &core.MatchContext{}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want wrapping boom", err)
	}
	if err.Error() != "rank.score: boom" {
		t.Errorf("Run() error = %q", err.Error())
	}
	if after.runs != 0 {
		t.Error("node after a failure should not run")
	}
}

func TestPipeline_StopsOnCancelledContext(t *testing.T) {
	n := &funcNode{name: "n", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := (&Pipeline{Nodes: []Node{n}}).Run(ctx, &core.MatchContext{}, []*core.Item{core.NewItem(core.Passenger{UserID: 1})})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if out != nil || n.runs != 0 {
		t.Error("cancelled run should return no items and run no nodes")
	}
}

package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/seatmatch/core"
)

func candidates() []*core.Item {
	return []*core.Item{
		core.NewItem(core.Passenger{UserID: 1, SeatType: "Lower", GroupSize: 1, Coach: core.IntPtr(3)}),
		core.NewItem(core.Passenger{UserID: 2, SeatType: "Side Upper", GroupSize: 1}),
		core.NewItem(core.Passenger{UserID: 3, SeatType: "Upper", GroupSize: 4}),
	}
}

func TestExprFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantIDs []int64
	}{
		{name: "seat type", expr: `candidate.seat_type != "Side Upper"`, wantIDs: []int64{1, 3}},
		{name: "group size vs request", expr: `candidate.group_size <= request.group_size`, wantIDs: []int64{1, 2}},
		{name: "known coach", expr: `has(candidate.coach) && candidate.coach == 3`, wantIDs: []int64{1}},
		{name: "request flag", expr: `request.seat_upgrade || candidate.seat_type == "Upper"`, wantIDs: []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewExprFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewExprFilter() error = %v", err)
			}
			mctx := &core.MatchContext{Request: core.ExchangeRequest{UserID: 9, GroupSize: 2, TravelDuration: 1}}
			node := &FilterNode{Filters: []Filter{f}}

			out, err := node.Process(context.Background(), mctx, candidates())
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != len(tt.wantIDs) {
				t.Fatalf("len(out) = %d, want %d", len(out), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if out[i].ID != id {
					t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, id)
				}
			}
			if got, want := mctx.Stats.Filtered(), 3-len(tt.wantIDs); got != want {
				t.Errorf("Stats.Filtered() = %d, want %d", got, want)
			}
		})
	}
}

func TestNewExprFilter_CompileError(t *testing.T) {
	if _, err := NewExprFilter(`candidate.seat_type ==`); err == nil {
		t.Error("NewExprFilter() expected compile error")
	}
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }
func (failingFilter) ShouldFilter(context.Context, *core.MatchContext, *core.Item) (bool, error) {
	return true, errors.New("backend down")
}

func TestFilterNode_ErrorKeepsCandidate(t *testing.T) {
	mctx := &core.MatchContext{}
	out, err := (&FilterNode{Filters: []Filter{failingFilter{}}}).Process(context.Background(), mctx, candidates())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 3 || mctx.Stats.Filtered() != 0 {
		t.Errorf("len(out)=%d filtered=%d, want 3/0", len(out), mctx.Stats.Filtered())
	}
}

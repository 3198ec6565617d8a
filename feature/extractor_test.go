package feature

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/seatmatch/core"
)

func TestDefaultExtractor_Extract(t *testing.T) {
	req := core.ExchangeRequest{
		UserID:         1,
		GenderMatch:    true,
		SeatUpgrade:    false,
		CoachDistance:  4,
		GroupSize:      2,
		TravelDuration: 6.5,
	}

	tests := []struct {
		name         string
		opts         []DefaultExtractorOption
		requester    *core.Passenger
		candidate    core.Passenger
		wantDistance int
		wantGroup    int
	}{
		{
			name:         "distance from seat metadata",
			requester:    &core.Passenger{UserID: 1, Coach: core.IntPtr(7)},
			candidate:    core.Passenger{UserID: 2, Coach: core.IntPtr(3), GroupSize: 3},
			wantDistance: 4,
			wantGroup:    3,
		},
		{
			name:         "same coach",
			requester:    &core.Passenger{UserID: 1, Coach: core.IntPtr(5)},
			candidate:    core.Passenger{UserID: 2, Coach: core.IntPtr(5)},
			wantDistance: 0,
			wantGroup:    1,
		},
		{
			name:         "unknown requester falls back to request",
			requester:    nil,
			candidate:    core.Passenger{UserID: 2, Coach: core.IntPtr(1)},
			wantDistance: 4,
			wantGroup:    1,
		},
		{
			name:         "unknown candidate coach falls back to request",
			requester:    &core.Passenger{UserID: 1, Coach: core.IntPtr(2)},
			candidate:    core.Passenger{UserID: 2},
			wantDistance: 4,
			wantGroup:    1,
		},
		{
			name:         "seat metadata disabled",
			opts:         []DefaultExtractorOption{WithSeatMetadata(false)},
			requester:    &core.Passenger{UserID: 1, Coach: core.IntPtr(9)},
			candidate:    core.Passenger{UserID: 2, Coach: core.IntPtr(1)},
			wantDistance: 4,
			wantGroup:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewDefaultExtractor(tt.opts...)
			v := e.Extract(req, tt.requester, tt.candidate)
			if v.CoachDistance != tt.wantDistance {
				t.Errorf("CoachDistance = %d, want %d", v.CoachDistance, tt.wantDistance)
			}
			if v.CandidateGroupSize != tt.wantGroup {
				t.Errorf("CandidateGroupSize = %d, want %d", v.CandidateGroupSize, tt.wantGroup)
			}
			if !v.GenderMatch || v.SeatUpgrade {
				t.Errorf("flags = %v/%v, want true/false", v.GenderMatch, v.SeatUpgrade)
			}
			if v.GroupSize != 2 || v.TravelDuration != 6.5 {
				t.Errorf("request features = %d/%v, want 2/6.5", v.GroupSize, v.TravelDuration)
			}
			if len(v.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", v.Warnings)
			}
		})
	}
}

func TestDefaultExtractor_ClampsOutOfRangeInputs(t *testing.T) {
	e := NewDefaultExtractor()
	req := core.ExchangeRequest{UserID: 1, CoachDistance: -3, GroupSize: 0, TravelDuration: 0.1}
	v := e.Extract(req, nil, core.Passenger{UserID: 2, GroupSize: -1})

	if v.CoachDistance != 0 {
		t.Errorf("CoachDistance = %d, want 0", v.CoachDistance)
	}
	if v.GroupSize != 1 || v.CandidateGroupSize != 1 {
		t.Errorf("group sizes = %d/%d, want 1/1", v.GroupSize, v.CandidateGroupSize)
	}
	if v.TravelDuration != 0.5 {
		t.Errorf("TravelDuration = %v, want 0.5", v.TravelDuration)
	}
	if len(v.Warnings) != 4 {
		t.Errorf("warnings = %v, want 4 entries", v.Warnings)
	}
}

func TestDefaultExtractor_Deterministic(t *testing.T) {
	e := NewDefaultExtractor()
	req := core.ExchangeRequest{UserID: 1, CoachDistance: 2, GroupSize: 1, TravelDuration: 3}
	requester := &core.Passenger{UserID: 1, Coach: core.IntPtr(4)}
	candidate := core.Passenger{UserID: 9, Coach: core.IntPtr(1), GroupSize: 2}

	first := e.Extract(req, requester, candidate)
	for i := 0; i < 10; i++ {
		if got := e.Extract(req, requester, candidate); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Extract() = %+v, want %+v", i, got, first)
		}
	}
}

func TestExtractNode_LabelsWarnings(t *testing.T) {
	node := &ExtractNode{Extractor: NewDefaultExtractor()}
	mctx := &core.MatchContext{
		Request: core.ExchangeRequest{UserID: 1, CoachDistance: 1, GroupSize: 1, TravelDuration: 2},
	}
	items := []*core.Item{
		core.NewItem(core.Passenger{UserID: 2}),
		core.NewItem(core.Passenger{UserID: 3, GroupSize: -4}),
	}

	out, err := node.Process(context.Background(), mctx, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if _, ok := out[0].Labels["extract_warning"]; ok {
		t.Error("clean candidate should not carry extract_warning")
	}
	if lbl, ok := out[1].Labels["extract_warning"]; !ok || lbl.Source != "default" {
		t.Errorf("extract_warning label = %+v, want source default", lbl)
	}
	if out[1].Features.CandidateGroupSize != 1 {
		t.Errorf("CandidateGroupSize = %d, want 1", out[1].Features.CandidateGroupSize)
	}
}

func TestCustomExtractor(t *testing.T) {
	e := NewCustomExtractor("fixed", func(req core.ExchangeRequest, _ *core.Passenger, _ core.Passenger) Vector {
		return Vector{CoachDistance: 11, GroupSize: req.GroupSize}
	})
	if e.Name() != "fixed" {
		t.Errorf("Name() = %q", e.Name())
	}
	v := e.Extract(core.ExchangeRequest{GroupSize: 3}, nil, core.Passenger{})
	if v.CoachDistance != 11 || v.GroupSize != 3 {
		t.Errorf("Extract() = %+v", v)
	}
}

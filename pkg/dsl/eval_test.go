package dsl

import "testing"

func TestCompileScore(t *testing.T) {
	prg, err := CompileScore(`0.5 + 0.2 * f.seat_upgrade - 0.05 * f.coach_distance`)
	if err != nil {
		t.Fatalf("CompileScore() error = %v", err)
	}
	got, err := prg.EvalFloat(map[string]any{
		"f": map[string]float64{"seat_upgrade": 1, "coach_distance": 2},
	})
	if err != nil {
		t.Fatalf("EvalFloat() error = %v", err)
	}
	if want := 0.6; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("EvalFloat() = %v, want %v", got, want)
	}
}

func TestCompileScore_Errors(t *testing.T) {
	for _, expr := range []string{"", "f.seat_upgrade +", "g.x"} {
		if _, err := CompileScore(expr); err == nil {
			t.Errorf("CompileScore(%q) expected error", expr)
		}
	}
}

func TestEvalFloat_MissingKey(t *testing.T) {
	prg, err := CompileScore(`f.unknown * 2.0`)
	if err != nil {
		t.Fatalf("CompileScore() error = %v", err)
	}
	if _, err := prg.EvalFloat(map[string]any{"f": map[string]float64{}}); err == nil {
		t.Error("EvalFloat() on a missing key should fail")
	}
}

func TestCompileFilter(t *testing.T) {
	prg, err := CompileFilter(`candidate.seat_type != "Side Upper" && candidate.group_size <= request.group_size`)
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	tests := []struct {
		name      string
		candidate map[string]any
		want      bool
	}{
		{name: "eligible", candidate: map[string]any{"seat_type": "Lower", "group_size": int64(1)}, want: true},
		{name: "side upper", candidate: map[string]any{"seat_type": "Side Upper", "group_size": int64(1)}, want: false},
		{name: "bigger group", candidate: map[string]any{"seat_type": "Lower", "group_size": int64(4)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prg.EvalBool(map[string]any{
				"candidate": tt.candidate,
				"request":   map[string]any{"group_size": int64(2)},
			})
			if err != nil {
				t.Fatalf("EvalBool() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalBool_NonBoolean(t *testing.T) {
	prg, err := CompileFilter(`candidate.group_size`)
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}
	if _, err := prg.EvalBool(map[string]any{"candidate": map[string]any{"group_size": int64(1)}, "request": map[string]any{}}); err == nil {
		t.Error("EvalBool() on an int result should fail")
	}
}

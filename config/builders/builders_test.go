package builders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rushteam/seatmatch/config"
	"github.com/rushteam/seatmatch/model"
	"github.com/rushteam/seatmatch/registry"
)

func TestBuiltinsRegistered(t *testing.T) {
	wantModels := []string{"expr", "heuristic", "lr", "rpc"}
	wantPools := []string{"memory", "mock", "mysql", "redis"}

	if got := config.SupportedModelTypes(); !slices.Equal(got, wantModels) {
		t.Errorf("SupportedModelTypes() = %v, want %v", got, wantModels)
	}
	if got := config.SupportedPoolTypes(); !slices.Equal(got, wantPools) {
		t.Errorf("SupportedPoolTypes() = %v, want %v", got, wantPools)
	}
}

func TestBuildModel_FromYAML(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join("..", "testdata", "full.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("HTTP.Port = %d, want 9090", cfg.HTTP.Port)
	}
	if got := cfg.ThresholdValue(); got != 0 {
		t.Errorf("ThresholdValue() = %v, want 0", got)
	}

	m, err := config.BuildModel(context.Background(), cfg.Model)
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	lr, ok := m.(*model.LRModel)
	if !ok {
		t.Fatalf("BuildModel() = %T, want *model.LRModel", m)
	}
	if lr.Bias != -0.2 || lr.Weights["seat_upgrade"] != 1.1 {
		t.Errorf("LR params = %v / %v", lr.Bias, lr.Weights)
	}
}

func TestBuildModel_Params(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	lrPath := filepath.Join(t.TempDir(), "lr.json")
	if err := os.WriteFile(lrPath, []byte(`{"bias": 0.1, "weights": {"seat_upgrade": 0.5}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		cfg      config.ModelConfig
		wantName string
		wantErr  bool
	}{
		{name: "heuristic defaults", cfg: config.ModelConfig{Type: "heuristic"}, wantName: "heuristic"},
		{name: "heuristic override", cfg: config.ModelConfig{Type: "heuristic", Params: map[string]any{"base": 0.4, "distance_penalty": 1}}, wantName: "heuristic"},
		{name: "heuristic unknown key", cfg: config.ModelConfig{Type: "heuristic", Params: map[string]any{"age_bonus": 0.1}}, wantErr: true},
		{name: "heuristic non number", cfg: config.ModelConfig{Type: "heuristic", Params: map[string]any{"base": "high"}}, wantErr: true},
		{name: "heuristic negative penalty", cfg: config.ModelConfig{Type: "heuristic", Params: map[string]any{"distance_penalty": -0.5}}, wantErr: true},
		{name: "lr from file", cfg: config.ModelConfig{Type: "lr", Params: map[string]any{"path": lrPath}}, wantName: "lr"},
		{name: "lr missing weights", cfg: config.ModelConfig{Type: "lr", Params: map[string]any{"bias": 0.1}}, wantErr: true},
		{name: "lr non numeric weight", cfg: config.ModelConfig{Type: "lr", Params: map[string]any{"weights": map[string]any{"seat_upgrade": "x"}}}, wantErr: true},
		{name: "lr wrong sign", cfg: config.ModelConfig{Type: "lr", Params: map[string]any{"weights": map[string]any{"coach_distance": 0.3}}}, wantErr: true},
		{name: "expr", cfg: config.ModelConfig{Type: "expr", Params: map[string]any{"expr": "0.5 + 0.1 * f.seat_upgrade"}}, wantName: "expr"},
		{name: "expr missing", cfg: config.ModelConfig{Type: "expr"}, wantErr: true},
		{name: "rpc", cfg: config.ModelConfig{Type: "rpc", Params: map[string]any{"endpoint": srv.URL, "timeout_ms": 200, "name": "xgb"}}, wantName: "xgb"},
		{name: "rpc missing endpoint", cfg: config.ModelConfig{Type: "rpc"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := config.BuildModel(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && m.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", m.Name(), tt.wantName)
			}
		})
	}
}

func TestBuildPool(t *testing.T) {
	ctx := context.Background()

	mem, err := config.BuildPool(ctx, config.PoolConfig{Type: "memory", Params: map[string]any{"prefix": "t"}})
	if err != nil {
		t.Fatalf("BuildPool(memory) error = %v", err)
	}
	defer mem.Close()
	if mem.Name() != "kv.memory" {
		t.Errorf("memory pool Name() = %q, want kv.memory", mem.Name())
	}

	mock, err := config.BuildPool(ctx, config.PoolConfig{Type: "mock", Params: map[string]any{"size": 12, "seed": 7}})
	if err != nil {
		t.Fatalf("BuildPool(mock) error = %v", err)
	}
	ps, err := mock.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(ps) != 12 {
		t.Errorf("mock pool size = %d, want 12", len(ps))
	}

	again, err := registry.NewMockPool(ctx, 12, 7)
	if err != nil {
		t.Fatal(err)
	}
	other, _ := again.Snapshot(ctx)
	if other[0].PNR != ps[0].PNR {
		t.Errorf("mock pool is not deterministic: %s != %s", other[0].PNR, ps[0].PNR)
	}

	errCases := []config.PoolConfig{
		{Type: "redis"},
		{Type: "mysql"},
		{Type: "mock", Params: map[string]any{"seed": -1}},
		{Type: "mock", Params: map[string]any{"size": registry.MaxMockSize + 1}},
		{Type: "sqlite"},
	}
	for _, pc := range errCases {
		if _, err := config.BuildPool(ctx, pc); err == nil {
			t.Errorf("BuildPool(%+v) expected error", pc)
		}
	}
}

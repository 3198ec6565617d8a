// Package builders 在 init 中向 config 注册内置的模型与候选池构建逻辑。
package builders

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/seatmatch/config"
	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/model"
	"github.com/rushteam/seatmatch/pkg/conv"
	"github.com/rushteam/seatmatch/registry"
	"github.com/rushteam/seatmatch/store"
)

func init() {
	config.RegisterModel("heuristic", BuildHeuristicModel)
	config.RegisterModel("lr", BuildLRModel)
	config.RegisterModel("expr", BuildExprModel)
	config.RegisterModel("rpc", BuildRPCModel)

	config.RegisterPool("memory", BuildMemoryPool)
	config.RegisterPool("redis", BuildRedisPool)
	config.RegisterPool("mysql", BuildMySQLPool)
	config.RegisterPool("mock", BuildMockPool)
}

// BuildHeuristicModel 以默认参数为底，按 params 中出现的键覆盖。
func BuildHeuristicModel(_ context.Context, cfg map[string]any) (model.ProbabilityModel, error) {
	w := model.DefaultHeuristicWeights()
	fields := map[string]*float64{
		"base":                    &w.Base,
		"gender_bonus":            &w.GenderBonus,
		"upgrade_bonus":           &w.UpgradeBonus,
		"distance_penalty":        &w.DistancePenalty,
		"group_penalty":           &w.GroupPenalty,
		"candidate_group_penalty": &w.CandidateGroupPenalty,
		"duration":                &w.Duration,
	}
	for key, raw := range cfg {
		dst, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("unknown heuristic param %q", key)
		}
		v, ok := conv.ToFloat64(raw)
		if !ok {
			return nil, fmt.Errorf("heuristic param %q must be a number, got %T", key, raw)
		}
		*dst = v
	}
	m, err := model.NewHeuristicModel(w)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// BuildLRModel 支持两种来源：path 指向 JSON 权重文件，或在 params 中直接给出 bias / weights。
func BuildLRModel(_ context.Context, cfg map[string]any) (model.ProbabilityModel, error) {
	if path := conv.ConfigGet(cfg, "path", ""); path != "" {
		m, err := model.LoadLRModel(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	rawWeights, ok := conv.TypeAssert[map[string]any](cfg["weights"])
	if !ok {
		return nil, fmt.Errorf("weights not found or invalid")
	}
	weights := conv.MapToFloat64(rawWeights)
	if len(weights) != len(rawWeights) {
		return nil, fmt.Errorf("weights must be numbers")
	}
	bias, _ := conv.ToFloat64(cfg["bias"])
	m, err := model.NewLRModel(bias, weights)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func BuildExprModel(_ context.Context, cfg map[string]any) (model.ProbabilityModel, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr is required")
	}
	m, err := model.NewExprModel(expr)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func BuildRPCModel(_ context.Context, cfg map[string]any) (model.ProbabilityModel, error) {
	endpoint := conv.ConfigGet(cfg, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	timeout := time.Duration(conv.ConfigGetInt64(cfg, "timeout_ms", 0)) * time.Millisecond
	return model.NewRPCModel(conv.ConfigGet(cfg, "name", ""), endpoint, timeout), nil
}

// BuildMemoryPool 构建进程内候选池，重启即丢失。
func BuildMemoryPool(_ context.Context, cfg map[string]any) (core.PassengerRegistry, error) {
	prefix := conv.ConfigGet(cfg, "prefix", registry.DefaultKeyPrefix)
	return registry.NewKVRegistry(store.NewMemoryStore(), prefix), nil
}

func BuildRedisPool(ctx context.Context, cfg map[string]any) (core.PassengerRegistry, error) {
	addr := conv.ConfigGet(cfg, "addr", "")
	if addr == "" {
		return nil, fmt.Errorf("addr is required")
	}
	rs, err := store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     addr,
		Password: conv.ConfigGet(cfg, "password", ""),
		DB:       int(conv.ConfigGetInt64(cfg, "db", 0)),
	})
	if err != nil {
		return nil, err
	}
	return registry.NewKVRegistry(rs, conv.ConfigGet(cfg, "prefix", registry.DefaultKeyPrefix)), nil
}

func BuildMySQLPool(ctx context.Context, cfg map[string]any) (core.PassengerRegistry, error) {
	dsn := conv.ConfigGet(cfg, "dsn", "")
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	reg, err := registry.OpenMySQL(ctx, registry.MySQLOptions{
		DSN:             dsn,
		MaxOpenConns:    int(conv.ConfigGetInt64(cfg, "max_open_conns", 0)),
		MaxIdleConns:    int(conv.ConfigGetInt64(cfg, "max_idle_conns", 0)),
		ConnMaxLifetime: time.Duration(conv.ConfigGetInt64(cfg, "conn_max_lifetime_sec", 0)) * time.Second,
		EnsureSchema:    conv.ConfigGet(cfg, "ensure_schema", false),
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func BuildMockPool(ctx context.Context, cfg map[string]any) (core.PassengerRegistry, error) {
	size := conv.ConfigGetInt64(cfg, "size", registry.DefaultMockSize)
	if size > registry.MaxMockSize {
		return nil, fmt.Errorf("size must be <= %d, got %d", registry.MaxMockSize, size)
	}
	seed := conv.ConfigGetInt64(cfg, "seed", 42)
	if seed < 0 {
		return nil, fmt.Errorf("seed must be >= 0, got %d", seed)
	}
	pool, err := registry.NewMockPool(ctx, int(size), uint64(seed))
	if err != nil {
		return nil, err
	}
	return pool, nil
}

package config

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/model"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/seatmatch/config/builders"
// 以触发内置模型（heuristic、lr、expr、rpc）与候选池（memory、redis、mysql、mock）的 init 注册。

// ModelBuilder 根据 model.params 构建概率模型。
type ModelBuilder func(ctx context.Context, params map[string]any) (model.ProbabilityModel, error)

// PoolBuilder 根据 pool.params 构建候选池。返回的注册表由调用方负责 Close。
type PoolBuilder func(ctx context.Context, params map[string]any) (core.PassengerRegistry, error)

type builderSet[B any] struct {
	mu       sync.RWMutex
	builders map[string]B
}

var (
	modelBuilders = &builderSet[ModelBuilder]{builders: make(map[string]ModelBuilder)}
	poolBuilders  = &builderSet[PoolBuilder]{builders: make(map[string]PoolBuilder)}
)

// RegisterModel 注册一种模型的构建逻辑。
// 建议在 init 中调用，例如：func init() { config.RegisterModel("lr", BuildLRModel) }
func RegisterModel(typeName string, builder ModelBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	register(modelBuilders, typeName, builder)
}

// RegisterPool 注册一种候选池的构建逻辑。
func RegisterPool(typeName string, builder PoolBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	register(poolBuilders, typeName, builder)
}

// SupportedModelTypes 返回已注册的模型类型（排序），用于错误提示与校验。
func SupportedModelTypes() []string { return types(modelBuilders) }

// SupportedPoolTypes 返回已注册的候选池类型（排序）。
func SupportedPoolTypes() []string { return types(poolBuilders) }

// BuildModel 按 model.type 构建模型。
func BuildModel(ctx context.Context, cfg ModelConfig) (model.ProbabilityModel, error) {
	b, ok := lookup(modelBuilders, cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported model type %q (supported: %v)", cfg.Type, SupportedModelTypes())
	}
	m, err := b(ctx, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("build model %q: %w", cfg.Type, err)
	}
	return m, nil
}

// BuildPool 按 pool.type 构建候选池。
func BuildPool(ctx context.Context, cfg PoolConfig) (core.PassengerRegistry, error) {
	b, ok := lookup(poolBuilders, cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported pool type %q (supported: %v)", cfg.Type, SupportedPoolTypes())
	}
	p, err := b(ctx, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("build pool %q: %w", cfg.Type, err)
	}
	return p, nil
}

func register[B any](s *builderSet[B], typeName string, builder B) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builders[typeName] = builder
}

func lookup[B any](s *builderSet[B], typeName string) (B, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builders[typeName]
	return b, ok
}

func hasBuilder[B any](s *builderSet[B], typeName string) bool {
	_, ok := lookup(s, typeName)
	return ok
}

func types[B any](s *builderSet[B]) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.builders))
	for t := range s.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

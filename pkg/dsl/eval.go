// Package dsl 基于 CEL (Common Expression Language) 编译并执行配置中的表达式。
//
// 两类表达式：
//   - 打分表达式：变量 f 为特征字典，结果为 double，例如
//     `0.5 + 0.2 * f.seat_upgrade - 0.05 * f.coach_distance`
//   - 候选人过滤表达式：变量 candidate 与 request 为字典，结果为 bool，例如
//     `candidate.seat_type != "Side Upper" && candidate.group_size <= request.group_size`
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// scoreEnv / filterEnv 是全局的 CEL 环境，线程安全，可复用
	scoreEnv     *cel.Env
	scoreEnvErr  error
	scoreEnvOnce sync.Once

	filterEnv     *cel.Env
	filterEnvErr  error
	filterEnvOnce sync.Once
)

func getScoreEnv() (*cel.Env, error) {
	scoreEnvOnce.Do(func() {
		scoreEnv, scoreEnvErr = cel.NewEnv(
			cel.Variable("f", cel.MapType(cel.StringType, cel.DoubleType)),
		)
	})
	return scoreEnv, scoreEnvErr
}

func getFilterEnv() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("candidate", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("request", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return filterEnv, filterEnvErr
}

// Program 是编译后的表达式，cel.Program 可被多个 goroutine 并发执行。
type Program struct {
	expr string
	prg  cel.Program
}

// Expr 返回原始表达式。
func (p *Program) Expr() string { return p.expr }

// CompileScore 编译打分表达式。
func CompileScore(expr string) (*Program, error) {
	env, err := getScoreEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	return compile(env, expr)
}

// CompileFilter 编译候选人过滤表达式。
func CompileFilter(expr string) (*Program, error) {
	env, err := getFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	return compile(env, expr)
}

func compile(env *cel.Env, expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// EvalFloat 执行表达式并把结果转换为 float64（接受 double / int / uint）。
func (p *Program) EvalFloat(vars map[string]any) (float64, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return 0, fmt.Errorf("eval error: %w", err)
	}
	switch v := out.Value().(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expression must return a number, got %T", out.Value())
	}
}

// EvalBool 执行表达式并要求结果为布尔值。
func (p *Program) EvalBool(vars map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

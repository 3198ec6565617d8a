package model

import (
	"context"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/pkg/dsl"
)

// ExprModel 用 CEL 表达式描述打分公式，便于在配置中快速试验新公式而无需发版。
// 表达式中通过 f.<特征名> 取特征值，结果必须落在 [0,1]，否则候选人被视为不可打分。
//
// 注意：表达式由配置方负责单调性，模型本身不做方向校验。
type ExprModel struct {
	prg *dsl.Program
}

// NewExprModel 编译表达式。
func NewExprModel(expr string) (*ExprModel, error) {
	prg, err := dsl.CompileScore(expr)
	if err != nil {
		return nil, err
	}
	return &ExprModel{prg: prg}, nil
}

func (m *ExprModel) Name() string { return "expr" }

// Expr 返回打分表达式。
func (m *ExprModel) Expr() string { return m.prg.Expr() }

func (m *ExprModel) Predict(_ context.Context, v core.FeatureVector) (float64, error) {
	p, err := m.prg.EvalFloat(map[string]any{"f": v.Map()})
	if err != nil {
		return 0, Unscoreable(m.Name(), "%v", err)
	}
	return Check(m.Name(), p)
}

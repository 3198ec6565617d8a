// Package model 定义接受概率模型：输入一条特征向量，输出 [0,1] 的接受概率。
package model

import (
	"context"
	"fmt"
	"math"

	"github.com/rushteam/seatmatch/core"
)

// ProbabilityModel 是打分阶段的最小抽象：输入特征，输出接受概率。
// 具体实现可以是启发式公式、本地 LR、CEL 表达式或远程训练好的分类器，
// 匹配引擎只依赖这一个接口。
//
// 约定：
//   - 返回值必须在 [0,1] 内
//   - 无法打分时返回包装了 core.ErrUnscoreable 的错误，引擎跳过该候选人
//   - 其它错误视为整次运行失败（例如远程模型不可用）
//   - 实现必须可重入，会被多个 goroutine 并发调用
type ProbabilityModel interface {
	Name() string
	Predict(ctx context.Context, v core.FeatureVector) (float64, error)
}

// BatchModel 是支持批量打分的模型（例如远程服务），ScoreNode 优先使用批量接口。
// 返回值与输入一一对应；单行越界由调用方通过 Check 判定为不可打分。
type BatchModel interface {
	ProbabilityModel
	PredictBatch(ctx context.Context, vs []core.FeatureVector) ([]float64, error)
}

// Unscoreable 构造不可打分错误。
func Unscoreable(modelName, format string, args ...any) error {
	return core.WrapDomainError(core.ModuleModel, core.ErrorCodeUnscoreable,
		modelName+": unscoreable", fmt.Errorf(format, args...))
}

// Check 校验模型输出，NaN 或越界时返回不可打分错误。
func Check(modelName string, p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, Unscoreable(modelName, "probability %v outside [0,1]", p)
	}
	return p, nil
}

// checkVector 拒绝显然畸形的特征向量（自定义抽取器可能绕过钳制）。
func checkVector(modelName string, v core.FeatureVector) error {
	switch {
	case v.CoachDistance < 0:
		return Unscoreable(modelName, "negative coach_distance %d", v.CoachDistance)
	case v.GroupSize < core.MinGroupSize || v.CandidateGroupSize < core.MinGroupSize:
		return Unscoreable(modelName, "group size below %d", core.MinGroupSize)
	case math.IsNaN(v.TravelDuration) || math.IsInf(v.TravelDuration, 0) || v.TravelDuration < core.MinTravelDuration:
		return Unscoreable(modelName, "travel_duration %v out of range", v.TravelDuration)
	}
	return nil
}

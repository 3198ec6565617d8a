package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/rushteam/seatmatch/core"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 模型，通常由离线训练得到权重。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 为保证单调性，加载时校验权重方向：
// gender_match、seat_upgrade 的权重不得为负，coach_distance、coach_distance_norm 的权重不得为正。
type LRModel struct {
	Bias    float64            // 偏置项 (Bias / Intercept)
	Weights map[string]float64 // 特征权重 (Weights / Coefficients)

	order []string // 固定求和顺序，保证同一输入的浮点结果逐位一致
}

// 权重方向约束：+1 表示不得为负，-1 表示不得为正。
var lrWeightSigns = map[string]int{
	core.FeatureGenderMatch:       +1,
	core.FeatureSeatUpgrade:       +1,
	core.FeatureCoachDistance:     -1,
	core.FeatureCoachDistanceNorm: -1,
}

var lrKnownFeatures = map[string]bool{
	core.FeatureGenderMatch:        true,
	core.FeatureSeatUpgrade:        true,
	core.FeatureCoachDistance:      true,
	core.FeatureGroupSize:          true,
	core.FeatureCandidateGroupSize: true,
	core.FeatureTravelDuration:     true,
	core.FeatureCoachDistanceNorm:  true,
	core.FeatureLogTravelDuration:  true,
}

// NewLRModel 创建 LR 模型并校验权重。
func NewLRModel(bias float64, weights map[string]float64) (*LRModel, error) {
	for name, w := range weights {
		if !lrKnownFeatures[name] {
			return nil, fmt.Errorf("lr: unknown feature %q", name)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("lr: weight %q is not finite", name)
		}
		switch lrWeightSigns[name] {
		case +1:
			if w < 0 {
				return nil, fmt.Errorf("lr: weight %q must be >= 0, got %v", name, w)
			}
		case -1:
			if w > 0 {
				return nil, fmt.Errorf("lr: weight %q must be <= 0, got %v", name, w)
			}
		}
	}
	order := make([]string, 0, len(weights))
	for name := range weights {
		order = append(order, name)
	}
	sort.Strings(order)
	return &LRModel{Bias: bias, Weights: weights, order: order}, nil
}

// LoadLRModel 从 JSON 文件加载权重：{"bias": -0.3, "weights": {"seat_upgrade": 1.2, ...}}
func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("lr: parse %s: %w", path, err)
	}
	return NewLRModel(raw.Bias, raw.Weights)
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Predict(_ context.Context, v core.FeatureVector) (float64, error) {
	if err := checkVector(m.Name(), v); err != nil {
		return 0, err
	}
	features := v.Map()
	score := m.Bias
	for _, k := range m.order {
		score += m.Weights[k] * features[k]
	}
	return Check(m.Name(), 1/(1+math.Exp(-score)))
}

package model

import (
	"context"
	"fmt"
	"math"

	"github.com/rushteam/seatmatch/core"
)

// HeuristicWeights 是启发式公式的参数。除 Base 与 Duration 外均为非负量，
// 方向固定在公式中，保证：
//   - 车厢距离越大，概率不升
//   - 同性别邻座、上铺换下铺，概率不降
type HeuristicWeights struct {
	Base                  float64 `yaml:"base" json:"base"`
	GenderBonus           float64 `yaml:"gender_bonus" json:"gender_bonus"`
	UpgradeBonus          float64 `yaml:"upgrade_bonus" json:"upgrade_bonus"`
	DistancePenalty       float64 `yaml:"distance_penalty" json:"distance_penalty"`
	GroupPenalty          float64 `yaml:"group_penalty" json:"group_penalty"`
	CandidateGroupPenalty float64 `yaml:"candidate_group_penalty" json:"candidate_group_penalty"`
	Duration              float64 `yaml:"duration" json:"duration"` // 乘以 ln(1+hours)
}

// DefaultHeuristicWeights 返回默认参数。
func DefaultHeuristicWeights() HeuristicWeights {
	return HeuristicWeights{
		Base:                  0.55,
		GenderBonus:           0.15,
		UpgradeBonus:          0.20,
		DistancePenalty:       0.06,
		GroupPenalty:          0.03,
		CandidateGroupPenalty: 0.08,
		Duration:              0.02,
	}
}

// HeuristicModel 是确定性的启发式模型：
//
//	p = clamp(Base + G·gender + U·upgrade − D·distance − GP·(group−1) − CGP·(candidate_group−1) + T·ln(1+hours), 0, 1)
type HeuristicModel struct {
	W HeuristicWeights
}

// NewHeuristicModel 创建启发式模型；方向性参数为负时返回错误。
func NewHeuristicModel(w HeuristicWeights) (*HeuristicModel, error) {
	named := map[string]float64{
		"gender_bonus":            w.GenderBonus,
		"upgrade_bonus":           w.UpgradeBonus,
		"distance_penalty":        w.DistancePenalty,
		"group_penalty":           w.GroupPenalty,
		"candidate_group_penalty": w.CandidateGroupPenalty,
	}
	for name, val := range named {
		if val < 0 || math.IsNaN(val) {
			return nil, fmt.Errorf("heuristic: %s must be >= 0, got %v", name, val)
		}
	}
	return &HeuristicModel{W: w}, nil
}

func (m *HeuristicModel) Name() string { return "heuristic" }

func (m *HeuristicModel) Predict(_ context.Context, v core.FeatureVector) (float64, error) {
	if err := checkVector(m.Name(), v); err != nil {
		return 0, err
	}
	w := m.W
	p := w.Base
	if v.GenderMatch {
		p += w.GenderBonus
	}
	if v.SeatUpgrade {
		p += w.UpgradeBonus
	}
	p -= w.DistancePenalty * float64(v.CoachDistance)
	p -= w.GroupPenalty * float64(v.GroupSize-1)
	p -= w.CandidateGroupPenalty * float64(v.CandidateGroupSize-1)
	p += w.Duration * math.Log1p(v.TravelDuration)
	return Check(m.Name(), math.Max(0, math.Min(1, p)))
}

package core

import "math"

// 特征名，与 FeatureVector.Map 的 key 一致。
// LR 权重、CEL 表达式与远程模型都按这些名字取值。
const (
	FeatureGenderMatch        = "gender_match"
	FeatureSeatUpgrade        = "seat_upgrade"
	FeatureCoachDistance      = "coach_distance"
	FeatureGroupSize          = "group_size"
	FeatureCandidateGroupSize = "candidate_group_size"
	FeatureTravelDuration     = "travel_duration"
	FeatureCoachDistanceNorm  = "coach_distance_norm"
	FeatureLogTravelDuration  = "log_travel_duration"
)

// FeatureVector 是 (发起人, 候选人) 二元组在打分时刻导出的特征，临时对象，不持久化。
type FeatureVector struct {
	GenderMatch        bool
	SeatUpgrade        bool
	CoachDistance      int
	GroupSize          int
	CandidateGroupSize int
	TravelDuration     float64

	// Warnings 记录抽取时被钳制的输入（例如负的车厢距离被置 0）。
	Warnings []string
}

// Map 返回模型使用的特征字典，包含派生特征。
func (v FeatureVector) Map() map[string]float64 {
	dist := float64(v.CoachDistance)
	return map[string]float64{
		FeatureGenderMatch:        boolFeature(v.GenderMatch),
		FeatureSeatUpgrade:        boolFeature(v.SeatUpgrade),
		FeatureCoachDistance:      dist,
		FeatureGroupSize:          float64(v.GroupSize),
		FeatureCandidateGroupSize: float64(v.CandidateGroupSize),
		FeatureTravelDuration:     v.TravelDuration,
		FeatureCoachDistanceNorm:  dist / (1 + dist),
		FeatureLogTravelDuration:  math.Log1p(v.TravelDuration),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

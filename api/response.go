package api

import (
	"github.com/rushteam/seatmatch/core"
)

// /predict 的决策文案。
const (
	DecisionSend           = "Send Exchange Request"
	DecisionNotRecommended = "Not Recommended"
)

// MatchesResponse 是 POST /predict_matches 的响应。
type MatchesResponse struct {
	TotalAnalyzed     int         `json:"total_analyzed"`
	WillingToExchange int         `json:"willing_to_exchange"`
	Matches           []MatchView `json:"matches"`
}

// MatchView 是单个候选人的展示形态。
type MatchView struct {
	PassengerID           int64   `json:"passenger_id"`
	AcceptanceProbability float64 `json:"acceptance_probability"` // 0-100
	CoachDistance         int     `json:"coach_distance"`
	GroupSize             int     `json:"group_size"`
	SeatType              string  `json:"seat_type,omitempty"`
}

// PredictResponse 是 POST /predict 的响应。
type PredictResponse struct {
	AcceptanceProbability float64 `json:"acceptance_probability"` // 0-1
	Decision              string  `json:"decision"`
}

// RegisterResponse 是 POST /register 的响应。
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// ErrorResponse 是所有错误响应的统一形态。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// NormalizeMatches 把 MatchSet 转为线上形态；matches 始终为数组（可能为空）。
func NormalizeMatches(set *core.MatchSet) MatchesResponse {
	resp := MatchesResponse{Matches: []MatchView{}}
	if set == nil {
		return resp
	}
	resp.TotalAnalyzed = set.TotalConsidered
	resp.WillingToExchange = set.WillingCount
	for _, m := range set.Matches {
		resp.Matches = append(resp.Matches, MatchView{
			PassengerID:           m.CandidateID,
			AcceptanceProbability: float64(m.Percent),
			CoachDistance:         m.CoachDistance,
			GroupSize:             m.GroupSize,
			SeatType:              m.SeatType,
		})
	}
	return resp
}

// NormalizePrediction 把单次预测的原始概率转为线上形态；
// 百分比达到阈值时建议发起换座请求。
func NormalizePrediction(p, threshold float64) PredictResponse {
	decision := DecisionNotRecommended
	if float64(core.ProbabilityToPercent(p)) >= threshold {
		decision = DecisionSend
	}
	return PredictResponse{AcceptanceProbability: p, Decision: decision}
}

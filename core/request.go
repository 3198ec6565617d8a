package core

import "math"

// 请求字段下限。
const (
	MinGroupSize      = 1
	MinTravelDuration = 0.5
)

// ExchangeRequest 是一次换座请求的全部参数。
//
// 请求以内联方式随每次调用传入，服务端不持久化，
// 因此同一乘客可以同时发起多次互不影响的匹配。
type ExchangeRequest struct {
	UserID         int64   // 发起人
	GenderMatch    bool    // 换座后是否保持/获得同性别邻座
	SeatUpgrade    bool    // 是否由上铺换到下铺
	CoachDistance  int     // 两个座位之间相隔的车厢数，0 表示同一车厢
	GroupSize      int     // 发起人同行人数
	TravelDuration float64 // 行程时长（小时）
}

// Validate 在进入匹配引擎前校验请求；任何越界字段都返回 *ValidationError。
func (r ExchangeRequest) Validate() error {
	if r.UserID <= 0 {
		return NewValidationError("user_id", "must be a positive integer, got %d", r.UserID)
	}
	return r.ValidateFeatures()
}

// ValidateFeatures 只校验特征字段，用于不需要发起人身份的单次预测。
func (r ExchangeRequest) ValidateFeatures() error {
	if r.CoachDistance < 0 {
		return NewValidationError("coach_distance", "must be >= 0, got %d", r.CoachDistance)
	}
	if r.GroupSize < MinGroupSize {
		return NewValidationError("group_size", "must be >= %d, got %d", MinGroupSize, r.GroupSize)
	}
	if math.IsNaN(r.TravelDuration) || math.IsInf(r.TravelDuration, 0) {
		return NewValidationError("travel_duration", "must be a finite number")
	}
	if r.TravelDuration < MinTravelDuration {
		return NewValidationError("travel_duration", "must be >= %.1f, got %g", MinTravelDuration, r.TravelDuration)
	}
	return nil
}

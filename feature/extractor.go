package feature

import (
	"fmt"

	"github.com/rushteam/seatmatch/core"
)

// Vector 是特征抽取的输出。
type Vector = core.FeatureVector

// Extractor 是特征抽取器的统一接口，采用策略模式。
//
// 实现必须是纯函数：无副作用、可重入，相同输入得到相同输出，
// 这样打分阶段才能在多个 goroutine 中并发调用。
type Extractor interface {
	// Extract 为 (发起人, 候选人) 二元组抽取特征。
	// requester 为发起人在候选池中的登记信息，未登记时为 nil。
	Extract(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) Vector

	// Name 返回抽取器名称（用于日志/监控）
	Name() string
}

// DefaultExtractor 是默认的特征抽取器实现。
//
// 抽取策略：
//  1. gender_match / seat_upgrade：直接取请求中的标记
//  2. coach_distance：发起人与候选人车厢序号都已知时取两者之差的绝对值，否则取请求值
//  3. group_size / candidate_group_size / travel_duration：取请求与候选人登记值
//
// 越界输入不会回绕：负的车厢距离置 0，同行人数置 1，行程时长置 0.5，并记录告警。
type DefaultExtractor struct {
	// PreferSeatMetadata 为 true 时优先用车厢序号计算距离（默认开启）
	PreferSeatMetadata bool
}

// NewDefaultExtractor 创建默认特征抽取器
func NewDefaultExtractor(opts ...DefaultExtractorOption) *DefaultExtractor {
	e := &DefaultExtractor{PreferSeatMetadata: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultExtractorOption 默认抽取器配置选项
type DefaultExtractorOption func(*DefaultExtractor)

// WithSeatMetadata 设置是否用车厢序号计算车厢距离
func WithSeatMetadata(enabled bool) DefaultExtractorOption {
	return func(e *DefaultExtractor) {
		e.PreferSeatMetadata = enabled
	}
}

func (e *DefaultExtractor) Name() string {
	return "default"
}

func (e *DefaultExtractor) Extract(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) Vector {
	v := Vector{
		GenderMatch:        req.GenderMatch,
		SeatUpgrade:        req.SeatUpgrade,
		CoachDistance:      e.coachDistance(req, requester, candidate),
		GroupSize:          req.GroupSize,
		CandidateGroupSize: candidate.GroupSize,
		TravelDuration:     req.TravelDuration,
	}
	if candidate.GroupSize == 0 {
		// 未登记同行人数视为单人出行，不属于越界输入
		v.CandidateGroupSize = 1
	}

	if v.CoachDistance < 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("coach_distance %d clamped to 0", v.CoachDistance))
		v.CoachDistance = 0
	}
	if v.GroupSize < core.MinGroupSize {
		v.Warnings = append(v.Warnings, fmt.Sprintf("group_size %d clamped to %d", v.GroupSize, core.MinGroupSize))
		v.GroupSize = core.MinGroupSize
	}
	if v.CandidateGroupSize < core.MinGroupSize {
		v.Warnings = append(v.Warnings, fmt.Sprintf("candidate_group_size %d clamped to %d", v.CandidateGroupSize, core.MinGroupSize))
		v.CandidateGroupSize = core.MinGroupSize
	}
	if !(v.TravelDuration >= core.MinTravelDuration) {
		v.Warnings = append(v.Warnings, fmt.Sprintf("travel_duration %g clamped to %.1f", v.TravelDuration, core.MinTravelDuration))
		v.TravelDuration = core.MinTravelDuration
	}
	return v
}

func (e *DefaultExtractor) coachDistance(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) int {
	if !e.PreferSeatMetadata || requester == nil {
		return req.CoachDistance
	}
	from, ok := requester.CoachIndex()
	if !ok {
		return req.CoachDistance
	}
	to, ok := candidate.CoachIndex()
	if !ok {
		return req.CoachDistance
	}
	if d := to - from; d >= 0 {
		return d
	}
	return from - to
}

// CustomExtractor 是自定义特征抽取器，允许用户完全自定义抽取逻辑。
type CustomExtractor struct {
	name    string
	extract func(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) Vector
}

// NewCustomExtractor 创建自定义特征抽取器
func NewCustomExtractor(name string, extract func(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) Vector) *CustomExtractor {
	return &CustomExtractor{
		name:    name,
		extract: extract,
	}
}

func (e *CustomExtractor) Name() string {
	return e.name
}

func (e *CustomExtractor) Extract(req core.ExchangeRequest, requester *core.Passenger, candidate core.Passenger) Vector {
	if e.extract == nil {
		return Vector{}
	}
	return e.extract(req, requester, candidate)
}

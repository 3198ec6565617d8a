package filter

import (
	"context"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/pkg/dsl"
)

// ExprFilter 用 CEL 表达式声明候选人资格，表达式为 true 的候选人保留。
//
// 可用变量：
//   - candidate: user_id, seat_type, group_size, coach（未登记车厢时不存在，可用 has(candidate.coach) 判断）
//   - request:   user_id, gender_match, seat_upgrade, coach_distance, group_size, travel_duration
//
// 示例：`candidate.seat_type != "Side Upper" && candidate.group_size <= request.group_size`
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译资格表达式。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.CompileFilter(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	eligible, err := f.prg.EvalBool(map[string]any{
		"candidate": candidateVars(item.Candidate),
		"request":   requestVars(mctx.Request),
	})
	if err != nil {
		return false, err
	}
	return !eligible, nil
}

func candidateVars(p core.Passenger) map[string]any {
	vars := map[string]any{
		"user_id":    p.UserID,
		"seat_type":  p.SeatType,
		"group_size": int64(p.EffectiveGroupSize()),
	}
	if coach, ok := p.CoachIndex(); ok {
		vars["coach"] = int64(coach)
	}
	return vars
}

func requestVars(r core.ExchangeRequest) map[string]any {
	return map[string]any{
		"user_id":         r.UserID,
		"gender_match":    r.GenderMatch,
		"seat_upgrade":    r.SeatUpgrade,
		"coach_distance":  int64(r.CoachDistance),
		"group_size":      int64(r.GroupSize),
		"travel_duration": r.TravelDuration,
	}
}

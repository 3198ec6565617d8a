package core

// Match 是一次匹配运行中某个愿意换座的候选人。
type Match struct {
	CandidateID int64
	Probability float64 // 原始概率 [0,1]
	Percent     int     // 四舍五入后的百分比 [0,100]

	// 回显给展示层的上下文
	CoachDistance int
	GroupSize     int
	SeatType      string
}

// MatchSet 是一次匹配运行的有序结果。
//
// 不变量：
//   - WillingCount == len(Matches)
//   - TotalConsidered + Skipped == 参与打分的候选人数（已排除发起人）
//   - Matches 按 Percent 降序，Percent 相同按 CandidateID 升序
type MatchSet struct {
	// TotalConsidered 是成功打分的候选人数，不含被跳过（Skipped）的候选人。
	TotalConsidered int
	Skipped         int
	WillingCount    int
	Matches         []Match
}

// NewMatch 由已打分的 Item 构造 Match。
func NewMatch(it *Item) Match {
	return Match{
		CandidateID:   it.ID,
		Probability:   it.Probability,
		Percent:       it.Percent(),
		CoachDistance: it.Features.CoachDistance,
		GroupSize:     it.Candidate.EffectiveGroupSize(),
		SeatType:      it.Candidate.SeatType,
	}
}

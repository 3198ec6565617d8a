package core

import "sync/atomic"

// MatchContext 承载一次匹配运行的请求级信息，贯穿整个 Pipeline 透传。
// 由调用方显式构造并传入，不依赖任何进程级全局状态。
type MatchContext struct {
	Request ExchangeRequest

	// Requester 是发起人在候选池快照中的登记信息，未登记时为 nil。
	Requester *Passenger

	// Threshold 是愿意换座的百分比阈值（0-100）。
	Threshold float64

	Stats RunStats
}

// RunStats 是一次运行的诊断计数器，打分 goroutine 并发写入。
type RunStats struct {
	candidates atomic.Int64
	scored     atomic.Int64
	skipped    atomic.Int64
	filtered   atomic.Int64
}

func (s *RunStats) AddCandidates(n int) { s.candidates.Add(int64(n)) }
func (s *RunStats) IncScored()          { s.scored.Add(1) }
func (s *RunStats) IncSkipped()         { s.skipped.Add(1) }
func (s *RunStats) AddFiltered(n int)   { s.filtered.Add(int64(n)) }

// Candidates 返回进入打分阶段的候选人数。
func (s *RunStats) Candidates() int { return int(s.candidates.Load()) }

// Scored 返回成功打分的候选人数。
func (s *RunStats) Scored() int { return int(s.scored.Load()) }

// Skipped 返回因无法打分而被跳过的候选人数。
func (s *RunStats) Skipped() int { return int(s.skipped.Load()) }

// Filtered 返回打分前被资格过滤器剔除的候选人数（不含发起人本人）。
func (s *RunStats) Filtered() int { return int(s.filtered.Load()) }

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 匹配运行结果（outcome 标签取值）。
const (
	OutcomeOK               = "ok"
	OutcomeInvalid          = "invalid"
	OutcomePoolUnavailable  = "pool_unavailable"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeTimeout          = "timeout"
	OutcomeError            = "error"
)

var (
	matchRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_runs_total",
			Help:      "Total number of match runs by outcome",
		},
		[]string{"model", "outcome"},
	)

	matchRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_run_duration_seconds",
			Help:      "Match run duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"model"},
	)

	matchCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_candidates_total",
			Help:      "Candidates processed by match runs, by stage",
		},
		[]string{"model", "stage"}, // scored / skipped / filtered / willing
	)
)

func init() {
	prometheus.MustRegister(matchRunsTotal)
	prometheus.MustRegister(matchRunDuration)
	prometheus.MustRegister(matchCandidatesTotal)
}

// MatchRun 是一次匹配运行的观测数据。
type MatchRun struct {
	Model    string
	Outcome  string
	Duration time.Duration
	Scored   int
	Skipped  int
	Filtered int
	Willing  int
}

// ObserveMatchRun 记录一次匹配运行。
func ObserveMatchRun(r MatchRun) {
	matchRunsTotal.WithLabelValues(r.Model, r.Outcome).Inc()
	matchRunDuration.WithLabelValues(r.Model).Observe(r.Duration.Seconds())
	matchCandidatesTotal.WithLabelValues(r.Model, "scored").Add(float64(r.Scored))
	matchCandidatesTotal.WithLabelValues(r.Model, "skipped").Add(float64(r.Skipped))
	matchCandidatesTotal.WithLabelValues(r.Model, "filtered").Add(float64(r.Filtered))
	matchCandidatesTotal.WithLabelValues(r.Model, "willing").Add(float64(r.Willing))
}

// Package engine 是匹配引擎：对候选池快照中的每个候选人抽取特征、打分，
// 按阈值划分出愿意换座的子集并确定性排序。
package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/feature"
	"github.com/rushteam/seatmatch/filter"
	"github.com/rushteam/seatmatch/model"
	"github.com/rushteam/seatmatch/pipeline"
	"github.com/rushteam/seatmatch/pkg/logger"
	"github.com/rushteam/seatmatch/pkg/metrics"
	"github.com/rushteam/seatmatch/rank"
)

// Engine 是匹配引擎。构造后只读，可被多个请求并发使用。
type Engine struct {
	extractor feature.Extractor
	model     model.ProbabilityModel
	filters   []filter.Filter
	workers   int
	timeout   time.Duration
}

// Option 引擎配置选项
type Option func(*Engine)

// WithExtractor 设置特征抽取器，默认 feature.NewDefaultExtractor()
func WithExtractor(x feature.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithFilters 设置打分前的资格过滤器
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithWorkers 设置并发打分的 worker 上限
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithTimeout 设置单次匹配的截止时间，0 表示只受调用方 ctx 约束
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New 创建匹配引擎。
func New(m model.ProbabilityModel, opts ...Option) *Engine {
	defaults := &core.DefaultMatchConfig{}
	e := &Engine{
		extractor: feature.NewDefaultExtractor(),
		model:     m,
		workers:   defaults.DefaultWorkers(),
		timeout:   defaults.DefaultTimeout(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelName 返回打分模型名称。
func (e *Engine) ModelName() string {
	if e.model == nil {
		return ""
	}
	return e.model.Name()
}

// Match 执行一次匹配运行：
//  1. 校验请求，非法时返回 *core.ValidationError，模型不会被调用
//  2. 对候选池做一次快照，失败时返回 core.ErrPoolUnavailable
//  3. 剔除发起人本人与重复 ID，经 Filter → Extract → Score → Threshold 得到有序结果
//
// 超时或取消返回 core.ErrTimeout，远程模型失败返回 core.ErrModelUnavailable；
// 出错时不返回部分结果。
func (e *Engine) Match(
	ctx context.Context,
	req core.ExchangeRequest,
	pool core.CandidatePool,
	threshold float64,
) (*core.MatchSet, error) {
	start := time.Now()
	set, mctx, err := e.match(ctx, req, pool, threshold)

	run := metrics.MatchRun{
		Model:    e.ModelName(),
		Outcome:  outcome(err),
		Duration: time.Since(start),
	}
	if mctx != nil {
		run.Scored = mctx.Stats.Scored()
		run.Skipped = mctx.Stats.Skipped()
		run.Filtered = mctx.Stats.Filtered()
	}
	if set != nil {
		run.Willing = set.WillingCount
	}
	metrics.ObserveMatchRun(run)

	log := logger.FromContext(ctx)
	if err != nil {
		log.Debug("match run failed",
			zap.Int64("user_id", req.UserID),
			zap.String("outcome", run.Outcome),
			zap.Error(err),
		)
		return nil, err
	}
	log.Debug("match run",
		zap.Int64("user_id", req.UserID),
		zap.String("model", run.Model),
		zap.Int("considered", set.TotalConsidered),
		zap.Int("skipped", set.Skipped),
		zap.Int("filtered", run.Filtered),
		zap.Int("willing", set.WillingCount),
		zap.Duration("duration", run.Duration),
	)
	return set, nil
}

func (e *Engine) match(
	ctx context.Context,
	req core.ExchangeRequest,
	pool core.CandidatePool,
	threshold float64,
) (*core.MatchSet, *core.MatchContext, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if math.IsNaN(threshold) {
		return nil, nil, core.NewValidationError("threshold", "must be a number")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	passengers, err := pool.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, timeoutError(ctx.Err())
		}
		return nil, nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodePoolUnavailable,
			"candidate pool unavailable: "+pool.Name(), err)
	}

	mctx := &core.MatchContext{Request: req, Threshold: threshold}
	items := make([]*core.Item, 0, len(passengers))
	seen := make(map[int64]struct{}, len(passengers))
	for i := range passengers {
		p := passengers[i]
		if p.UserID == req.UserID {
			mctx.Requester = &p
			continue
		}
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}
		items = append(items, core.NewItem(p))
	}

	out, err := e.pipeline().Run(ctx, mctx, items)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, mctx, timeoutError(err)
		}
		return nil, mctx, err
	}

	matches := make([]core.Match, 0, len(out))
	for _, it := range out {
		matches = append(matches, core.NewMatch(it))
	}
	return &core.MatchSet{
		TotalConsidered: mctx.Stats.Scored(),
		Skipped:         mctx.Stats.Skipped(),
		WillingCount:    len(matches),
		Matches:         matches,
	}, mctx, nil
}

func (e *Engine) pipeline() *pipeline.Pipeline {
	nodes := make([]pipeline.Node, 0, 4)
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: e.filters})
	}
	nodes = append(nodes,
		&feature.ExtractNode{Extractor: e.extractor},
		&rank.ScoreNode{Model: e.model, Workers: e.workers},
		&rank.ThresholdNode{},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

// Predict 为单个 (发起人, 候选人) 二元组打分，返回原始概率 [0,1]。
// 只校验特征字段；requester 可为 nil。无法打分时返回 core.ErrUnscoreable。
func (e *Engine) Predict(
	ctx context.Context,
	req core.ExchangeRequest,
	requester *core.Passenger,
	candidate core.Passenger,
) (float64, error) {
	if err := req.ValidateFeatures(); err != nil {
		return 0, err
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if e.model == nil {
		return 0, errors.New("engine: model is nil")
	}
	v := e.extractor.Extract(req, requester, candidate)
	p, err := e.model.Predict(ctx, v)
	if err != nil {
		if ctx.Err() != nil {
			return 0, timeoutError(ctx.Err())
		}
		return 0, err
	}
	return p, nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}

func timeoutError(err error) error {
	return core.WrapDomainError(core.ModuleEngine, core.ErrorCodeTimeout, "match run timed out", err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case core.IsValidation(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, core.ErrPoolUnavailable):
		return metrics.OutcomePoolUnavailable
	case errors.Is(err, core.ErrModelUnavailable):
		return metrics.OutcomeModelUnavailable
	case errors.Is(err, core.ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}

package rank

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/model"
	"github.com/rushteam/seatmatch/pipeline"
	"github.com/rushteam/seatmatch/pkg/logger"
)

// DefaultWorkers 是未配置 Workers 时的并发打分上限。
const DefaultWorkers = 8

// ScoreNode 用 ProbabilityModel 为每个候选人打分。
//   - 写入 item.Probability / item.Scored
//   - 写入 labels：score_model
//   - 进入本阶段的候选人计入 Stats.Candidates
//   - 无法打分的候选人被丢弃并计入 Stats.Skipped，其余错误中止整次运行
//
// 对 BatchModel 一次批量调用；否则用 errgroup 并发逐条调用，并发数受 Workers 限制。
// 输出保持输入顺序。
type ScoreNode struct {
	Model   model.ProbabilityModel
	Workers int
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ScoreNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil {
		return nil, fmt.Errorf("score node: model is nil")
	}
	if len(items) == 0 {
		return items, nil
	}
	for _, it := range items {
		if it != nil {
			mctx.Stats.AddCandidates(1)
		}
	}

	var err error
	if bm, ok := n.Model.(model.BatchModel); ok {
		err = n.scoreBatch(ctx, bm, mctx, items)
	} else {
		err = n.scoreEach(ctx, mctx, items)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.Scored {
			out = append(out, it)
		}
	}
	return out, nil
}

func (n *ScoreNode) scoreEach(ctx context.Context, mctx *core.MatchContext, items []*core.Item) error {
	workers := n.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, it := range items {
		if it == nil {
			continue
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := n.Model.Predict(gctx, it.Features)
			return n.apply(ctx, mctx, it, p, err)
		})
	}
	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return ctx.Err()
}

func (n *ScoreNode) scoreBatch(ctx context.Context, bm model.BatchModel, mctx *core.MatchContext, items []*core.Item) error {
	valid := make([]*core.Item, 0, len(items))
	vs := make([]core.FeatureVector, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		valid = append(valid, it)
		vs = append(vs, it.Features)
	}

	scores, err := bm.PredictBatch(ctx, vs)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if len(scores) != len(valid) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeModelUnavailable,
			fmt.Sprintf("%s: batch returned %d scores for %d candidates", bm.Name(), len(scores), len(valid)))
	}
	for i, it := range valid {
		p, err := model.Check(bm.Name(), scores[i])
		if err := n.apply(ctx, mctx, it, p, err); err != nil {
			return err
		}
	}
	return nil
}

// apply 记录单个候选人的打分结果；仅不可打分错误被吞掉。
func (n *ScoreNode) apply(ctx context.Context, mctx *core.MatchContext, it *core.Item, p float64, err error) error {
	if err != nil {
		if !core.IsUnscoreable(err) {
			return err
		}
		mctx.Stats.IncSkipped()
		logger.FromContext(ctx).Debug("candidate skipped",
			zap.Int64("candidate_id", it.ID),
			zap.String("model", n.Model.Name()),
			zap.Error(err),
		)
		return nil
	}
	it.Probability = p
	it.Scored = true
	it.PutLabel("score_model", core.Label{Value: n.Model.Name(), Source: "score"})
	mctx.Stats.IncScored()
	return nil
}

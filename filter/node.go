package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/pipeline"
	"github.com/rushteam/seatmatch/pkg/logger"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选人就会被剔除，并计入 Stats.Filtered。
// 被剔除的候选人既不计入 TotalConsidered 也不计入 Skipped。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	log := logger.FromContext(ctx)
	out := make([]*core.Item, 0, len(items))
	filteredCount := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		// 依次检查每个过滤器
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, mctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程，候选人保留
				log.Warn("filter failed",
					zap.String("filter", f.Name()),
					zap.Int64("candidate_id", item.ID),
					zap.Error(err),
				)
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			filteredCount++
			item.PutLabel("filtered", core.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, item)
	}

	mctx.Stats.AddFiltered(filteredCount)
	return out, nil
}

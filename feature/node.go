package feature

import (
	"context"
	"strings"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/pipeline"
	"github.com/rushteam/seatmatch/pkg/logger"
	"go.uber.org/zap"
)

// ExtractNode 为每个候选人抽取特征，写入 item.Features。
// - 抽取告警写入 labels：extract_warning
type ExtractNode struct {
	Extractor Extractor
}

func (n *ExtractNode) Name() string        { return "feature.extract" }
func (n *ExtractNode) Kind() pipeline.Kind { return pipeline.KindExtract }

func (n *ExtractNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	extractor := n.Extractor
	if extractor == nil {
		extractor = NewDefaultExtractor()
	}

	log := logger.FromContext(ctx)
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Features = extractor.Extract(mctx.Request, mctx.Requester, it.Candidate)
		if len(it.Features.Warnings) > 0 {
			it.PutLabel("extract_warning", core.Label{
				Value:  strings.Join(it.Features.Warnings, "; "),
				Source: extractor.Name(),
			})
			log.Debug("feature input clamped",
				zap.Int64("candidate_id", it.ID),
				zap.Strings("warnings", it.Features.Warnings),
			)
		}
	}
	return items, nil
}

package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/pipeline"
)

// ThresholdNode 按阈值划分并排序：
//   - 保留 Percent >= Threshold 的候选人（阈值 <= 0 全部保留，> 100 全部剔除）
//   - 按 Percent 降序，Percent 相同按候选人 ID 升序，结果与调度顺序无关
//   - 写入 labels：percent
type ThresholdNode struct{}

func (n *ThresholdNode) Name() string        { return "rank.threshold" }
func (n *ThresholdNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ThresholdNode) Process(
	_ context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || !it.Scored {
			continue
		}
		pct := it.Percent()
		if float64(pct) < mctx.Threshold {
			continue
		}
		it.PutLabel("percent", core.Label{Value: strconv.Itoa(pct), Source: "rank"})
		out = append(out, it)
	}
	SortByPercent(out)
	return out, nil
}

// SortByPercent 按 Percent 降序、ID 升序原地排序。
func SortByPercent(items []*core.Item) {
	sort.Slice(items, func(i, j int) bool {
		pi, pj := items[i].Percent(), items[j].Percent()
		if pi != pj {
			return pi > pj
		}
		return items[i].ID < items[j].ID
	})
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/seatmatch/core"
)

// Pipeline 把匹配逻辑拆成可组合的 Node 链：Filter → Extract → Score → Rank。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各 Node。每个 Node 之前检查 ctx，取消或超时后不再继续，也不返回中间结果。
func (p *Pipeline) Run(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, mctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

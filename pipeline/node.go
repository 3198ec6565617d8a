package pipeline

import (
	"context"

	"github.com/rushteam/seatmatch/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter  Kind = "filter"  // 过滤阶段：剔除发起人本人与不合格候选人
	KindExtract Kind = "extract" // 特征阶段：为每个候选人抽取特征
	KindScore   Kind = "score"   // 打分阶段：模型输出接受概率
	KindRank    Kind = "rank"    // 排序阶段：阈值划分与确定性排序
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Filter 截断、Score 打分、Rank 排序等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		mctx *core.MatchContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

package core

import "math"

// Item 是匹配链路中的候选人承载结构：候选人、特征、概率、标签。
// 每个 Item 只被处理它的那个 goroutine 写入，Node 之间按顺序传递。
type Item struct {
	ID        int64
	Candidate Passenger
	Features  FeatureVector

	// Probability 是模型输出的原始概率 [0,1]，内部唯一的规范表示。
	Probability float64
	// Scored 表示模型已成功打分。
	Scored bool

	Labels map[string]Label
}

func NewItem(candidate Passenger) *Item {
	return &Item{
		ID:        candidate.UserID,
		Candidate: candidate,
		Labels:    make(map[string]Label),
	}
}

// Percent 把概率换算为 0-100 的整数百分比（四舍五入），用于阈值判断、排序与展示。
func (it *Item) Percent() int {
	return ProbabilityToPercent(it.Probability)
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ProbabilityToPercent 把 [0,1] 概率换算为整数百分比，结果钳制在 [0,100]。
func ProbabilityToPercent(p float64) int {
	pct := int(math.Round(p * 100))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

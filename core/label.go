package core

// Label 是匹配链路上的可解释标记：哪个模型打的分、为什么被过滤、抽取时出现了什么告警。
// Value 与 Source 的语义由各 Node 自定义，这里只提供统一的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // extract / score / filter ...
}

// MergeLabel 合并同名 Label，保留历史以便追踪：
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "", incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

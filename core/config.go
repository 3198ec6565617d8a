package core

import "time"

// MatchConfig 是匹配相关的配置接口，用于提供默认值。
type MatchConfig interface {
	// DefaultThreshold 返回默认的愿意换座阈值（百分比）
	DefaultThreshold() float64

	// DefaultWorkers 返回默认的并发打分 worker 数
	DefaultWorkers() int

	// DefaultTimeout 返回默认的单次匹配截止时间
	DefaultTimeout() time.Duration
}

// DefaultMatchConfig 是默认的匹配配置实现。
type DefaultMatchConfig struct{}

// DefaultThreshold 对应界面文案 "above 70% probability threshold"。
func (c *DefaultMatchConfig) DefaultThreshold() float64 {
	return 70
}

func (c *DefaultMatchConfig) DefaultWorkers() int {
	return 8
}

func (c *DefaultMatchConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}

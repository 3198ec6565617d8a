package core

import "context"

// CandidatePool 是候选池（乘客登记表）的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（registry）实现
//   - 匹配引擎在运行开始时调用一次 Snapshot，运行期间不观察后续登记（read-committed）
//   - 返回的切片归调用方所有，实现必须返回副本
//
// 实现：
//   - registry.KVRegistry（基于 core.KeyValueStore：内存 / Redis）
//   - registry.MySQLRegistry
//   - registry.MockPool（显式配置的模拟数据，不与真实数据混用）
type CandidatePool interface {
	// Name 返回候选池名称（用于日志/监控）
	Name() string

	// Snapshot 返回当前全部已登记乘客的快照
	Snapshot(ctx context.Context) ([]Passenger, error)
}

// PassengerRegistry 是支持登记的候选池。
type PassengerRegistry interface {
	CandidatePool

	// Register 登记新乘客并分配 UserID；PNR 重复时返回 ErrConflict
	Register(ctx context.Context, p Passenger) (Passenger, error)

	// Get 按 UserID 查询；不存在时返回 ErrNotFound
	Get(ctx context.Context, userID int64) (Passenger, error)

	// Close 释放资源
	Close() error
}

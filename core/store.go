package core

import "context"

// Store 是键值存储的领域接口，由 store 包实现（MemoryStore / RedisStore）。
// registry.KVRegistry 通过它保存乘客登记信息。
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Incr 原子自增计数器，返回自增后的值（用于分配 UserID）
	Incr(ctx context.Context, key string) (int64, error)

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 在 Store 基础上提供哈希表操作。
type KeyValueStore interface {
	Store

	// HGet 读取 Hash 字段
	HGet(ctx context.Context, key, field string) ([]byte, error)

	// HSet 写入 Hash 字段（覆盖）
	HSet(ctx context.Context, key, field string, value []byte) error

	// HSetNX 仅当字段不存在时写入，返回是否写入成功（用于唯一索引）
	HSetNX(ctx context.Context, key, field string, value []byte) (bool, error)

	// HDel 删除 Hash 字段
	HDel(ctx context.Context, key, field string) error

	// HGetAll 读取整个 Hash
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

package registry

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/store"
)

const (
	// DefaultMockSize 是模拟候选池的默认人数。
	DefaultMockSize = 100
	// MaxMockSize 是模拟候选池人数上限，保证生成的 PNR 不超过 10 位。
	MaxMockSize = 100_000
)

var (
	mockFirstNames = []string{"Aarav", "Diya", "Ishaan", "Kavya", "Rohan", "Meera", "Arjun", "Sneha", "Vikram", "Priya", "Karan", "Ananya"}
	mockLastNames  = []string{"Sharma", "Iyer", "Patel", "Reddy", "Nair", "Gupta", "Singh", "Das", "Menon", "Joshi"}
	mockSeatTypes  = []string{"Lower", "Middle", "Upper", "Side Lower", "Side Upper"}
)

// MockPool 是内存中的模拟候选池，由固定种子生成，相同 (size, seed) 得到相同乘客。
// 只在 pool.type: mock 时使用，不与真实登记表混用；允许继续登记新乘客。
type MockPool struct {
	*KVRegistry
}

// NewMockPool 生成 size 个模拟乘客。size <= 0 时使用 DefaultMockSize，超过 MaxMockSize 返回错误。
func NewMockPool(ctx context.Context, size int, seed uint64) (*MockPool, error) {
	if size <= 0 {
		size = DefaultMockSize
	}
	if size > MaxMockSize {
		return nil, fmt.Errorf("mock pool size must be <= %d, got %d", MaxMockSize, size)
	}
	kv := NewKVRegistry(store.NewMemoryStore(), "mock")
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))

	for i := 0; i < size; i++ {
		p := core.Passenger{
			Name: mockFirstNames[rng.IntN(len(mockFirstNames))] + " " + mockLastNames[rng.IntN(len(mockLastNames))],
			// 按序号分段，保证 PNR 不重复
			PNR:       fmt.Sprintf("%010d", 4_000_000_000+int64(i)*7919+int64(rng.IntN(7919))),
			SeatType:  mockSeatTypes[rng.IntN(len(mockSeatTypes))],
			Coach:     core.IntPtr(1 + rng.IntN(12)),
			GroupSize: 1 + rng.IntN(4),
		}
		if _, err := kv.Register(ctx, p); err != nil {
			return nil, fmt.Errorf("seed mock passenger %d: %w", i, err)
		}
	}
	return &MockPool{KVRegistry: kv}, nil
}

func (m *MockPool) Name() string { return "mock" }

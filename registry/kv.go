package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rushteam/seatmatch/core"
)

// DefaultKeyPrefix 是 KVRegistry 的默认 key 前缀。
const DefaultKeyPrefix = "seatmatch"

// KVRegistry 把乘客登记信息保存在 core.KeyValueStore 中：
//
//	{prefix}:seq         自增计数器，分配 UserID
//	{prefix}:pnr         Hash，pnr -> user_id（唯一索引，HSetNX 保证）
//	{prefix}:passengers  Hash，user_id -> Passenger JSON
type KVRegistry struct {
	store  core.KeyValueStore
	prefix string
	name   string
}

// NewKVRegistry 创建基于 KeyValueStore 的登记表，prefix 为空时使用 DefaultKeyPrefix。
func NewKVRegistry(store core.KeyValueStore, prefix string) *KVRegistry {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KVRegistry{store: store, prefix: prefix, name: "kv." + store.Name()}
}

var _ core.PassengerRegistry = (*KVRegistry)(nil)

func (r *KVRegistry) Name() string { return r.name }

func (r *KVRegistry) seqKey() string       { return r.prefix + ":seq" }
func (r *KVRegistry) pnrKey() string       { return r.prefix + ":pnr" }
func (r *KVRegistry) passengerKey() string { return r.prefix + ":passengers" }

func (r *KVRegistry) Register(ctx context.Context, p core.Passenger) (core.Passenger, error) {
	if err := p.Validate(); err != nil {
		return core.Passenger{}, err
	}

	id, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return core.Passenger{}, fmt.Errorf("allocate user id: %w", err)
	}
	p.UserID = id

	ok, err := r.store.HSetNX(ctx, r.pnrKey(), p.PNR, []byte(itoa(id)))
	if err != nil {
		return core.Passenger{}, fmt.Errorf("reserve pnr: %w", err)
	}
	if !ok {
		return core.Passenger{}, conflictPNR(p.PNR)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return core.Passenger{}, err
	}
	if err := r.store.HSet(ctx, r.passengerKey(), itoa(id), data); err != nil {
		// 释放 PNR 索引，允许重试
		_ = r.store.HDel(ctx, r.pnrKey(), p.PNR)
		return core.Passenger{}, fmt.Errorf("save passenger: %w", err)
	}
	return p, nil
}

func (r *KVRegistry) Get(ctx context.Context, userID int64) (core.Passenger, error) {
	data, err := r.store.HGet(ctx, r.passengerKey(), itoa(userID))
	if core.IsStoreNotFound(err) {
		return core.Passenger{}, notFound(userID)
	}
	if err != nil {
		return core.Passenger{}, err
	}
	var p core.Passenger
	if err := json.Unmarshal(data, &p); err != nil {
		return core.Passenger{}, fmt.Errorf("decode passenger %d: %w", userID, err)
	}
	return p, nil
}

// Snapshot 返回按 UserID 升序的全部乘客。
func (r *KVRegistry) Snapshot(ctx context.Context) ([]core.Passenger, error) {
	all, err := r.store.HGetAll(ctx, r.passengerKey())
	if err != nil {
		return nil, err
	}
	out := make([]core.Passenger, 0, len(all))
	for field, data := range all {
		var p core.Passenger
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode passenger %s: %w", field, err)
		}
		out = append(out, p)
	}
	sortByID(out)
	return out, nil
}

func (r *KVRegistry) Close() error {
	return r.store.Close()
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

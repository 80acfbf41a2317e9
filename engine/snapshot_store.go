package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/barkeep/core"
)

// DefaultSnapshotKey 是快照在 Store 中的默认 key。
const DefaultSnapshotKey = "barkeep:snapshot"

// SnapshotStore 持久化已发布的快照，让每日刷新节奏在重启后依然成立。
type SnapshotStore interface {
	// Load 读取上次保存的快照；没有保存过时返回 (nil, nil)
	Load(ctx context.Context) (*core.Snapshot, error)
	Save(ctx context.Context, snap *core.Snapshot) error
}

// StoreSnapshotStore 把快照以 JSON 保存到 core.Store（内存或 Redis）。
type StoreSnapshotStore struct {
	Store core.Store
	Key   string
	// TTL 秒，0 表示不过期
	TTL int
}

// NewStoreSnapshotStore 创建快照存储；key 为空时使用 DefaultSnapshotKey。
func NewStoreSnapshotStore(s core.Store, key string) *StoreSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &StoreSnapshotStore{Store: s, Key: key}
}

func (s *StoreSnapshotStore) Load(ctx context.Context) (*core.Snapshot, error) {
	data, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot %s: %w", s.Key, err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.Key, err)
	}
	if snap.RefreshedAt.IsZero() {
		return nil, errors.New("decode snapshot: missing refreshed_at")
	}
	return &snap, nil
}

func (s *StoreSnapshotStore) Save(ctx context.Context, snap *core.Snapshot) error {
	if snap == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if s.TTL > 0 {
		return s.Store.Set(ctx, s.Key, data, s.TTL)
	}
	return s.Store.Set(ctx, s.Key, data)
}

var _ SnapshotStore = (*StoreSnapshotStore)(nil)

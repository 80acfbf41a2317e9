package filter

import (
	"context"
	"sync"

	"github.com/rushteam/barkeep/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉用户明确排除的配方。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单配方 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store ListStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	mu     sync.RWMutex
	loaded map[string]struct{}
}

// ListStore 是按 key 读取字符串列表的存储接口。
type ListStore interface {
	GetList(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store ListStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Prepare 从 Store 加载一次黑名单；key 不存在视为空名单。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) error {
	ids := make(map[string]struct{}, len(f.ItemIDs))
	for _, id := range f.ItemIDs {
		ids[id] = struct{}{}
	}
	var err error
	if f.Store != nil && f.Key != "" {
		var stored []string
		stored, err = f.Store.GetList(ctx, f.Key)
		if err != nil && core.IsStoreNotFound(err) {
			err = nil
		}
		for _, id := range stored {
			ids[id] = struct{}{}
		}
	}
	f.mu.Lock()
	f.loaded = ids
	f.mu.Unlock()
	return err
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	f.mu.RLock()
	loaded := f.loaded
	f.mu.RUnlock()
	if loaded != nil {
		_, ok := loaded[item.ID]
		return ok, nil
	}

	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

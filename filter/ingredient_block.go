package filter

import (
	"context"
	"sync"

	"github.com/rushteam/barkeep/core"
)

// IngredientBlockFilter 过滤含有用户不想要的配料（过敏、忌口）的配方。
// 配料名大小写不敏感，忽略首尾空白。
type IngredientBlockFilter struct {
	// Ingredients 内存中的屏蔽配料
	Ingredients []string

	// Store / Key 从存储读取屏蔽配料（可选）
	Store ListStore
	Key   string

	mu      sync.RWMutex
	blocked map[string]struct{}
}

// NewIngredientBlockFilter 创建配料屏蔽过滤器。
func NewIngredientBlockFilter(ingredients []string, storeAdapter *StoreAdapter, key string) *IngredientBlockFilter {
	var store ListStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	f := &IngredientBlockFilter{
		Ingredients: ingredients,
		Store:       store,
		Key:         key,
	}
	f.blocked = normalizeSet(ingredients)
	return f
}

func (f *IngredientBlockFilter) Name() string {
	return "filter.ingredient_block"
}

func (f *IngredientBlockFilter) Prepare(ctx context.Context, _ *core.RecommendContext) error {
	names := append([]string{}, f.Ingredients...)
	var err error
	if f.Store != nil && f.Key != "" {
		var stored []string
		stored, err = f.Store.GetList(ctx, f.Key)
		if err != nil && core.IsStoreNotFound(err) {
			err = nil
		}
		names = append(names, stored...)
	}
	blocked := normalizeSet(names)
	f.mu.Lock()
	f.blocked = blocked
	f.mu.Unlock()
	return err
}

func (f *IngredientBlockFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Recipe == nil {
		return true, nil
	}
	f.mu.RLock()
	blocked := f.blocked
	f.mu.RUnlock()
	if len(blocked) == 0 {
		return false, nil
	}
	for _, ing := range item.Recipe.Ingredients {
		if _, ok := blocked[core.NormalizeName(ing)]; ok {
			return true, nil
		}
	}
	return false, nil
}

func normalizeSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := core.NormalizeName(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

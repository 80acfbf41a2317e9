package core

import (
	"context"
	"slices"
)

// CatalogSource 提供配方目录（外部协作方）。返回顺序即目录顺序。
type CatalogSource interface {
	Name() string
	Recipes(ctx context.Context) ([]*Recipe, error)
}

// InventorySource 提供用户当前的配料快照。
type InventorySource interface {
	Inventory(ctx context.Context) (Inventory, error)
}

// HistorySource 提供调制历史快照。
type HistorySource interface {
	History(ctx context.Context) ([]HistoryRecord, error)
}

// InventoryFunc 让普通函数实现 InventorySource。
type InventoryFunc func(ctx context.Context) (Inventory, error)

func (f InventoryFunc) Inventory(ctx context.Context) (Inventory, error) { return f(ctx) }

// HistoryFunc 让普通函数实现 HistorySource。
type HistoryFunc func(ctx context.Context) ([]HistoryRecord, error)

func (f HistoryFunc) History(ctx context.Context) ([]HistoryRecord, error) { return f(ctx) }

// StaticInventory 返回固定的配料快照。
func StaticInventory(names ...string) InventorySource {
	inv := NewInventory(names...)
	return InventoryFunc(func(context.Context) (Inventory, error) { return inv, nil })
}

// StaticHistory 返回固定的历史快照（拷贝一份，避免调用方后续修改）。
func StaticHistory(records []HistoryRecord) HistorySource {
	cp := slices.Clone(records)
	return HistoryFunc(func(context.Context) ([]HistoryRecord, error) { return cp, nil })
}

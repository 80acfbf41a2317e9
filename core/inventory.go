package core

import "sort"

// Inventory 是用户当前拥有的配料集合（酒柜）。
// 每次推荐运行时由调用方提供新的快照；key 为 NormalizeName 之后的名字。
type Inventory struct {
	set map[string]struct{}
}

// NewInventory 由配料名构建 Inventory，空名会被忽略。
func NewInventory(names ...string) Inventory {
	inv := Inventory{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if k := NormalizeName(n); k != "" {
			inv.set[k] = struct{}{}
		}
	}
	return inv
}

// Has 判断是否拥有某个配料（大小写不敏感，忽略首尾空白）。
func (inv Inventory) Has(name string) bool {
	if len(inv.set) == 0 {
		return false
	}
	_, ok := inv.set[NormalizeName(name)]
	return ok
}

// HasNormalized 与 Has 相同，但调用方保证 key 已规整。
func (inv Inventory) HasNormalized(key string) bool {
	_, ok := inv.set[key]
	return ok
}

func (inv Inventory) Len() int { return len(inv.set) }

// Names 返回排序后的规整配料名。
func (inv Inventory) Names() []string {
	out := make([]string, 0, len(inv.set))
	for k := range inv.set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

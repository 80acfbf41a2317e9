package core

import "github.com/rushteam/barkeep/pkg/utils"

// Item 是推荐链路中的统一承载结构：配方、分数、理由、特征、标签。
// Labels 用于解释与 CEL 规则；Score 用于排序决策。
type Item struct {
	ID string
	// Index 是配方在目录快照中的位置，作为同分时的确定性 tiebreak
	Index  int
	Recipe *Recipe

	Score  float64
	Reason string
	Mode   Mode

	// Components 记录各组件分数（0-1），用于解释
	Components map[string]float64
	Features   map[string]float64
	Labels     map[string]utils.Label
}

func NewItem(r *Recipe, index int) *Item {
	it := &Item{
		Index:      index,
		Recipe:     r,
		Components: make(map[string]float64),
		Features:   make(map[string]float64),
		Labels:     make(map[string]utils.Label),
	}
	if r != nil {
		it.ID = r.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

package core

import (
	"maps"
	"slices"
	"time"
)

// Recommendation 是排序截断之后的输出条目。
type Recommendation struct {
	RecipeID   string             `json:"recipe_id"`
	Name       string             `json:"name"`
	Score      float64            `json:"score"`
	Reason     string             `json:"reason"`
	Mode       Mode               `json:"mode"`
	Components map[string]float64 `json:"components,omitempty"`

	Recipe *Recipe `json:"recipe,omitempty"`
}

// RecommendationFromItem 把排序后的 Item 转为输出条目（拷贝 map，避免共享）。
func RecommendationFromItem(it *Item) Recommendation {
	rec := Recommendation{
		RecipeID: it.ID,
		Score:    it.Score,
		Reason:   it.Reason,
		Mode:     it.Mode,
		Recipe:   it.Recipe,
	}
	if it.Recipe != nil {
		rec.Name = it.Recipe.Name
	}
	if len(it.Components) > 0 {
		rec.Components = maps.Clone(it.Components)
	}
	return rec
}

// Snapshot 是一次刷新发布的完整结果。发布后不可变：
// 读者要么看到上一份完整结果，要么看到下一份完整结果。
type Snapshot struct {
	RunID       string                    `json:"run_id"`
	RefreshedAt time.Time                 `json:"refreshed_at"`
	Situation   Situation                 `json:"situation"`
	Lists       map[Mode][]Recommendation `json:"lists"`
}

// Get 返回某个模式列表的拷贝；从未计算过的模式返回空列表。
func (s *Snapshot) Get(m Mode) []Recommendation {
	if s == nil {
		return []Recommendation{}
	}
	l, ok := s.Lists[m]
	if !ok || len(l) == 0 {
		return []Recommendation{}
	}
	return slices.Clone(l)
}

// Package model 实现四个组件打分器（酒柜匹配、历史偏好、情境、流行度）以及它们的线性组合。
//
// 打分器是纯函数：相同输入永远得到相同输出，从不返回错误；
// 缺失的可选字段（类别、IBA 标记、评分）一律按“无加分”处理。
package model

import (
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
)

// Kind 标识组件打分器。取值顺序即同分时的优先级：cabinet -> history -> contextual -> popularity。
type Kind int

const (
	KindCabinet Kind = iota
	KindHistory
	KindContextual
	KindPopularity

	numKinds
)

var kindNames = [...]string{
	KindCabinet:    "cabinet",
	KindHistory:    "history",
	KindContextual: "contextual",
	KindPopularity: "popularity",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// AllKinds 按优先级顺序返回全部组件。
func AllKinds() []Kind {
	return []Kind{KindCabinet, KindHistory, KindContextual, KindPopularity}
}

// Component 是单个打分器的输出：[0,1] 的分值和一段理由。
type Component struct {
	Kind   Kind
	Value  float64
	Reason string
}

// Scorer 是组件打分器接口。
type Scorer interface {
	Kind() Kind
	Score(rctx *core.RecommendContext, f *feature.RecipeFeatures) Component
}

// Components 按 Kind 索引保存一次打分的全部组件。
type Components [numKinds]Component

// Get 返回某个组件。
func (cs *Components) Get(k Kind) Component {
	if k < 0 || k >= numKinds {
		return Component{Kind: k}
	}
	return cs[k]
}

// Values 导出 kind 名 -> 分值，用于输出解释。
func (cs *Components) Values() map[string]float64 {
	out := make(map[string]float64, numKinds)
	for _, c := range cs {
		out[c.Kind.String()] = c.Value
	}
	return out
}

// Set 是一组按 Kind 组织的打分器。
type Set struct {
	scorers [numKinds]Scorer
}

// DefaultSet 返回默认的四个打分器。
func DefaultSet() *Set {
	return NewSet(CabinetMatch{}, HistoryPattern{}, Contextual{}, Popularity{})
}

// NewSet 用给定的打分器构建 Set，同一 Kind 后者覆盖前者。
func NewSet(scorers ...Scorer) *Set {
	s := &Set{}
	for _, sc := range scorers {
		if sc == nil || sc.Kind() < 0 || sc.Kind() >= numKinds {
			continue
		}
		s.scorers[sc.Kind()] = sc
	}
	return s
}

// Score 只计算指定的组件；未注册的组件分值为 0。
func (s *Set) Score(rctx *core.RecommendContext, f *feature.RecipeFeatures, kinds ...Kind) Components {
	var cs Components
	for i := range cs {
		cs[i].Kind = Kind(i)
	}
	for _, k := range kinds {
		if k < 0 || k >= numKinds || s.scorers[k] == nil {
			continue
		}
		c := s.scorers[k].Score(rctx, f)
		c.Kind = k
		c.Value = clamp01(c.Value)
		cs[k] = c
	}
	return cs
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

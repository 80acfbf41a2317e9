package model

// Weight 是单个组件在线性组合中的权重。
type Weight struct {
	Kind Kind
	W    float64
}

// LinearBlend 是组件分的线性加权：score = sum(W_i * Value_i)。
// Weights 的顺序即主导组件同分时的优先顺序。
type LinearBlend struct {
	Name    string
	Weights []Weight
}

// Kinds 返回参与组合的组件。
func (b LinearBlend) Kinds() []Kind {
	out := make([]Kind, 0, len(b.Weights))
	for _, w := range b.Weights {
		out = append(out, w.Kind)
	}
	return out
}

// Combine 返回加权和，以及加权乘积最大的组件（同分取 Weights 中靠前者）。
func (b LinearBlend) Combine(cs Components) (float64, Component) {
	var (
		score    float64
		best     Component
		bestProd = -1.0
	)
	for _, w := range b.Weights {
		c := cs.Get(w.Kind)
		prod := w.W * c.Value
		score += prod
		if prod > bestProd {
			bestProd = prod
			best = c
		}
	}
	return score, best
}

// 固定的引擎常量，不对外配置。
var (
	// 个性化模式：酒柜 0.40 / 历史 0.30 / 情境 0.20 / 流行度 0.10
	personalizedBlend = LinearBlend{
		Name: "personalized",
		Weights: []Weight{
			{KindCabinet, 0.40},
			{KindHistory, 0.30},
			{KindContextual, 0.20},
			{KindPopularity, 0.10},
		},
	}

	// 流行模式：情境 0.6 / 流行度 0.4
	trendingBlend = LinearBlend{
		Name: "trending",
		Weights: []Weight{
			{KindContextual, 0.6},
			{KindPopularity, 0.4},
		},
	}
)

// PersonalizedBlend 返回个性化模式权重的拷贝。
func PersonalizedBlend() LinearBlend { return personalizedBlend.clone() }

// TrendingBlend 返回流行模式权重的拷贝。
func TrendingBlend() LinearBlend { return trendingBlend.clone() }

func (b LinearBlend) clone() LinearBlend {
	b.Weights = append([]Weight(nil), b.Weights...)
	return b
}

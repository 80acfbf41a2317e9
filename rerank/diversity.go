package rerank

import (
	"context"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// Diversity 是按类别的多样性重排：每个类别最多保留 MaxPerCategory 个配方，
// 超出的配方被丢弃，其余顺序不变。没有类别的配方不受限制。
type Diversity struct {
	// MaxPerCategory 默认 1
	MaxPerCategory int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		cate := it.Recipe.NormalizedCategory()
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}

package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// DefaultN 是每个模式默认输出的条数。
const DefaultN = 10

// Ranker 是模式列表的最终排序节点：
//  1. 按分数降序稳定排序，同分按 item.Index（目录顺序）升序
//  2. 按配方 ID 去重，保留排在前面的一条
//  3. 截取前 N 条（N <= 0 时使用 DefaultN）
//
// 相同输入（含目录顺序）总是得到相同输出。
type Ranker struct {
	N int
}

func (n *Ranker) Name() string        { return "rerank.ranker" }
func (n *Ranker) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Ranker) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return []*core.Item{}, nil
	}

	sorted := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			sorted = append(sorted, it)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Index < sorted[j].Index
	})

	seen := make(map[string]struct{}, len(sorted))
	uniq := sorted[:0]
	for _, it := range sorted {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		uniq = append(uniq, it)
	}

	size := n.N
	if size <= 0 {
		size = DefaultN
	}
	return (&TopNNode{N: size}).Process(ctx, rctx, uniq)
}

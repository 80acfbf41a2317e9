package rerank

import (
	"context"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个配方。
// Ranker 内部已经截断；单独使用时通常放在 Diversity 之后，
// 让多样性重排先在更长的列表上挑选。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ModeNode{Mode: core.ModeTrending},
//	        &rerank.Ranker{N: 50},                  // 排序去重，保留 50
//	        &rerank.Diversity{MaxPerCategory: 2},   // 每个类别最多 2 个
//	        &rerank.TopNNode{N: 10},                // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的数量
	// 如果 N <= 0，则返回所有配方（不截断）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

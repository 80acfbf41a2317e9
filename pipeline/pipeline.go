package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/barkeep/core"
)

// Pipeline 把一个推荐模式拆成可组合的 Node 链：
//
//	recall.catalog -> feature.enrich -> filter -> rank.mode -> rerank.ranker
//
// 每个模式一条 Pipeline，共享同一个 RecommendContext。
type Pipeline struct {
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: node %s: %w", p.Name, node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Kinds 返回节点阶段序列，用于日志与校验。
func (p *Pipeline) Kinds() []Kind {
	out := make([]Kind, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, n.Kind())
	}
	return out
}

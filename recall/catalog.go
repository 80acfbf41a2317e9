package recall

import (
	"context"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
	"github.com/rushteam/barkeep/pkg/utils"
)

// CatalogNode 是每条模式 Pipeline 的第一个节点：把本次运行的目录快照（rctx.Recipes）
// 展开为候选 Item。每次调用都生成新的 Item，模式之间互不影响。
// Item.Index 为配方在目录中的位置；nil 与没有 ID 的配方被跳过。
type CatalogNode struct {
	// SourceName 写入 catalog_source label，为空时为 "catalog"
	SourceName string
}

func (n *CatalogNode) Name() string        { return "recall.catalog" }
func (n *CatalogNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *CatalogNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rctx == nil || len(rctx.Recipes) == 0 {
		return []*core.Item{}, nil
	}

	name := n.SourceName
	if name == "" {
		name = "catalog"
	}
	lbl := utils.Label{Value: name, Source: "recall"}

	out := make([]*core.Item, 0, len(rctx.Recipes))
	for i, r := range rctx.Recipes {
		// 没有 ID 的配方无法去重，也无法被引用
		if r == nil || r.ID == "" {
			continue
		}
		it := core.NewItem(r, i)
		it.PutLabel(utils.LabelCatalog, lbl)
		out = append(out, it)
	}
	return out, nil
}

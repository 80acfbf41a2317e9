package engine

import (
	"context"
	"time"

	"github.com/rushteam/barkeep/core"
)

// Input 是一次刷新的全部输入，调用方负责读取外部数据。
type Input struct {
	// Now 已转换到用户时区
	Now       time.Time
	Recipes   []*core.Recipe
	Inventory core.Inventory
	History   []core.HistoryRecord

	// Params 透传给 rctx.Params（CEL 规则中的 ctx.params）
	Params map[string]any
}

// NewContext 由输入构建本次运行的 RecommendContext：解析情境、统计历史。
func NewContext(in Input) *core.RecommendContext {
	rc := &core.DefaultRankConfig{}
	return &core.RecommendContext{
		Now:       in.Now,
		Situation: core.ResolveSituation(in.Now),
		Recipes:   in.Recipes,
		Inventory: in.Inventory,
		History:   core.BuildHistoryStats(in.History, in.Recipes, rc.DefaultFavoriteCount(), rc.DefaultTopIngredientCount()),
		Params:    in.Params,
	}
}

// Compute 依次运行每个模式的 Pipeline，返回完整的模式→列表映射。
// 每个模式都有 key；没有配置 Pipeline 或没有合格配方的模式是空列表。
// 不修改任何共享状态，相同输入总是得到相同输出。
func Compute(ctx context.Context, pipelines Pipelines, in Input) (map[core.Mode][]core.Recommendation, error) {
	return compute(ctx, pipelines, NewContext(in))
}

func compute(ctx context.Context, pipelines Pipelines, rctx *core.RecommendContext) (map[core.Mode][]core.Recommendation, error) {
	lists := make(map[core.Mode][]core.Recommendation, len(core.AllModes()))
	for _, m := range core.AllModes() {
		p, ok := pipelines[m]
		if !ok || p == nil {
			lists[m] = []core.Recommendation{}
			continue
		}
		items, err := p.Run(ctx, rctx, nil)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInternalError, "mode "+m.String(), err)
		}
		recs := make([]core.Recommendation, 0, len(items))
		for _, it := range items {
			if it == nil {
				continue
			}
			rec := core.RecommendationFromItem(it)
			rec.Mode = m
			recs = append(recs, rec)
		}
		lists[m] = recs
	}
	return lists, nil
}

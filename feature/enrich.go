package feature

import (
	"context"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// EnrichNode 是特征注入节点，把配方特征、用户（酒柜/历史）特征、情境特征写入 item.Features。
// 写入的特征只用于过滤规则（CEL）与解释，打分由 rank 节点基于同一个 Extractor 完成。
//
// 特征命名：
//
//	item_ingredient_count  配方去重后的配料数
//	item_iba               是否 IBA 经典
//	item_alcoholic         是否含酒精
//	user_have_count        酒柜中已有的配料数
//	user_times_made        历史中做过的次数
//	scene_weekend_eve      是否周五/周六
type EnrichNode struct {
	// Extractor 为 nil 时使用 DefaultExtractor
	Extractor Extractor

	// 特征前缀，为空时使用 item_ / user_ / scene_
	UserFeaturePrefix  string
	ItemFeaturePrefix  string
	SceneFeaturePrefix string
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	extractor := n.Extractor
	if extractor == nil {
		extractor = NewDefaultExtractor()
	}
	userPrefix := prefixOr(n.UserFeaturePrefix, "user_")
	itemPrefix := prefixOr(n.ItemFeaturePrefix, "item_")
	scenePrefix := prefixOr(n.SceneFeaturePrefix, "scene_")

	var weekendEve float64
	if rctx != nil && rctx.Situation.DayOfWeek.IsWeekendEve() {
		weekendEve = 1
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Features == nil {
			item.Features = make(map[string]float64)
		}
		f := extractor.Extract(item.Recipe)

		for k, v := range f.ToMap() {
			item.Features[itemPrefix+k] = v
		}

		var have int
		if rctx != nil {
			for _, ing := range f.Ingredients {
				if rctx.Inventory.HasNormalized(ing) {
					have++
				}
			}
		}
		item.Features[userPrefix+"have_count"] = float64(have)

		var made int
		if rctx != nil && rctx.History != nil && item.Recipe != nil {
			made = rctx.History.TimesMade(item.Recipe.Name)
		}
		item.Features[userPrefix+"times_made"] = float64(made)
		item.Features[scenePrefix+"weekend_eve"] = weekendEve
	}

	return items, nil
}

func prefixOr(p, def string) string {
	if p == "" {
		return def
	}
	return p
}

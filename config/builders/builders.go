// Package builders 注册内置 Node 的配置构建器。
//
//	import _ "github.com/rushteam/barkeep/config/builders"
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/barkeep/config"
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/filter"
	"github.com/rushteam/barkeep/pipeline"
	"github.com/rushteam/barkeep/pkg/conv"
	"github.com/rushteam/barkeep/rank"
	"github.com/rushteam/barkeep/recall"
	"github.com/rushteam/barkeep/rerank"
)

// extractor 在配置构建的所有节点间共享，特征缓存可跨模式复用。
var extractor = feature.NewCachedExtractor(nil, nil)

func init() {
	config.Register("recall.catalog", BuildCatalogNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
	config.Register("filter", filterBuilder(nil))
	config.Register("rank.mode", BuildModeNode)
	config.Register("rerank.ranker", BuildRankerNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// FactoryWithStore 返回默认工厂，其中 filter 节点的 store 类过滤器（blacklist.key、
// ingredient_block.key）从 s 读取列表。s 为 nil 时等同 config.DefaultFactory()。
func FactoryWithStore(s core.Store) *pipeline.NodeFactory {
	f := config.DefaultFactory()
	if s != nil {
		f.Register("filter", filterBuilder(filter.NewStoreAdapter(s)))
	}
	return f
}

func BuildCatalogNode(cfg map[string]any) (pipeline.Node, error) {
	return &recall.CatalogNode{SourceName: conv.ConfigGet(cfg, "source_name", "")}, nil
}

func BuildFeatureEnrichNode(cfg map[string]any) (pipeline.Node, error) {
	return &feature.EnrichNode{
		Extractor:          extractor,
		UserFeaturePrefix:  conv.ConfigGet(cfg, "user_feature_prefix", ""),
		ItemFeaturePrefix:  conv.ConfigGet(cfg, "item_feature_prefix", ""),
		SceneFeaturePrefix: conv.ConfigGet(cfg, "scene_feature_prefix", ""),
	}, nil
}

func BuildModeNode(cfg map[string]any) (pipeline.Node, error) {
	raw := conv.ConfigGet(cfg, "mode", "")
	if raw == "" {
		return nil, fmt.Errorf("mode not found")
	}
	m, err := core.ParseMode(raw)
	if err != nil {
		return nil, err
	}
	return &rank.ModeNode{Mode: m, Extractor: extractor}, nil
}

func BuildRankerNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", rerank.DefaultN)
	if n <= 0 {
		return nil, fmt.Errorf("rerank.ranker: n must be positive, got %d", n)
	}
	return &rerank.Ranker{N: int(n)}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{MaxPerCategory: int(conv.ConfigGetInt64(cfg, "max_per_category", 1))}, nil
}

func filterBuilder(adapter *filter.StoreAdapter) pipeline.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		return buildFilterNode(cfg, adapter)
	}
}

// BuildFilterNode 构建不带 store 的 filter 节点。
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return buildFilterNode(cfg, nil)
}

func buildFilterNode(cfg map[string]any, adapter *filter.StoreAdapter) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))
		case "ingredient_block":
			names := conv.SliceAnyToString(filterMap["ingredients"])
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewIngredientBlockFilter(names, adapter, key))
		case "alcohol":
			pref, err := filter.ParseAlcoholPreference(conv.ConfigGet(filterMap, "preference", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, &filter.AlcoholFilter{Preference: pref})
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "recently_made":
			days := conv.ConfigGetInt64(filterMap, "days", 0)
			filters = append(filters, &filter.RecentlyMadeFilter{Window: time.Duration(days) * 24 * time.Hour})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

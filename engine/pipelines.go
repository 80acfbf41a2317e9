package engine

import (
	"fmt"

	"github.com/rushteam/barkeep/config"
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/filter"
	"github.com/rushteam/barkeep/pipeline"
	"github.com/rushteam/barkeep/rank"
	"github.com/rushteam/barkeep/recall"
	"github.com/rushteam/barkeep/rerank"
)

// Pipelines 是模式到 Pipeline 的映射。
type Pipelines map[core.Mode]*pipeline.Pipeline

// DefaultPipelines 为每个模式构建默认链路：
//
//	recall.catalog → feature.enrich → filter（有过滤器时）→ rank.mode → rerank.ranker
//
// 过滤器在各模式间共享，Prepare 每次运行都会重新执行。
func DefaultPipelines(topN int, extractor feature.Extractor, filters ...filter.Filter) Pipelines {
	if extractor == nil {
		extractor = feature.NewCachedExtractor(nil, nil)
	}
	out := make(Pipelines, len(core.AllModes()))
	for _, m := range core.AllModes() {
		nodes := []pipeline.Node{
			&recall.CatalogNode{},
			&feature.EnrichNode{Extractor: extractor},
		}
		if len(filters) > 0 {
			nodes = append(nodes, &filter.FilterNode{Filters: filters})
		}
		nodes = append(nodes,
			&rank.ModeNode{Mode: m, Extractor: extractor},
			&rerank.Ranker{N: topN},
		)
		out[m] = &pipeline.Pipeline{Name: m.String(), Nodes: nodes}
	}
	return out
}

// PipelinesFromConfig 按配置构建模式链路，key 为模式名；未配置的模式保留 base 中的链路。
func PipelinesFromConfig(cfg *pipeline.Config, factory *pipeline.NodeFactory, base Pipelines) (Pipelines, error) {
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	out := make(Pipelines, len(base))
	for m, p := range base {
		out[m] = p
	}
	for _, name := range cfg.Names() {
		m, err := core.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
		p, err := cfg.BuildPipeline(name, factory)
		if err != nil {
			return nil, err
		}
		p.Name = m.String()
		out[m] = p
	}
	return out, nil
}

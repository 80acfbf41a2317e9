package engine

import (
	"fmt"

	"github.com/rushteam/barkeep/config"
	"github.com/rushteam/barkeep/config/builders"
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// OptionsFromConfig 把 EngineConfig 转为 Option：top_n、时区、过滤器、快照存储、pipeline_file。
// s 为 nil 时不持久化快照。
func OptionsFromConfig(cfg *config.EngineConfig, s core.Store) ([]Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	filters, err := cfg.BuildFilters(s)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithTopN(cfg.TopN),
		WithLocation(loc),
		WithFilters(filters...),
	}
	if s != nil {
		opts = append(opts, WithStore(s, cfg.Store.Key))
	}
	if cfg.PipelineFile != "" {
		pcfg, err := pipeline.LoadFromYAML(cfg.PipelineFile)
		if err != nil {
			return nil, fmt.Errorf("pipeline file %s: %w", cfg.PipelineFile, err)
		}
		p, err := PipelinesFromConfig(pcfg, builders.FactoryWithStore(s), nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPipelines(p))
	}
	return opts, nil
}

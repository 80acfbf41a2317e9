package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/filter"
)

// Option 配置 Engine。
type Option func(*Engine)

// WithCatalog 设置配方目录来源。
func WithCatalog(src core.CatalogSource) Option {
	return func(e *Engine) { e.catalog = src }
}

// WithInventory 设置酒柜来源。
func WithInventory(src core.InventorySource) Option {
	return func(e *Engine) { e.inventory = src }
}

// WithHistory 设置调制历史来源。
func WithHistory(src core.HistorySource) Option {
	return func(e *Engine) { e.history = src }
}

// WithLogger 设置 logger，默认 zerolog.Nop()。
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock 替换时钟（测试用）。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation 设置判断“同一天”与解析情境所用的时区，默认 time.Local。
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithTopN 设置每个模式的输出条数，只影响默认链路。
func WithTopN(n int) Option {
	return func(e *Engine) { e.topN = n }
}

// WithExtractor 设置默认链路使用的特征抽取器。
func WithExtractor(ex feature.Extractor) Option {
	return func(e *Engine) { e.extractor = ex }
}

// WithFilters 设置默认链路的过滤器。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithPipelines 覆盖部分或全部模式的链路，未给出的模式使用默认链路。
func WithPipelines(p Pipelines) Option {
	return func(e *Engine) { e.overrides = p }
}

// WithSnapshotStore 设置快照持久化。
func WithSnapshotStore(s SnapshotStore) Option {
	return func(e *Engine) { e.snapshots = s }
}

// WithStore 使用 core.Store 保存快照，等价于 WithSnapshotStore(NewStoreSnapshotStore(s, key))。
func WithStore(s core.Store, key string) Option {
	return func(e *Engine) {
		if s != nil {
			e.snapshots = NewStoreSnapshotStore(s, key)
		}
	}
}

// WithRegistry 把指标注册到 reg。
func WithRegistry(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.reg = reg }
}

// WithParams 设置透传给 CEL 规则的运行级参数。
func WithParams(params map[string]any) Option {
	return func(e *Engine) { e.params = params }
}

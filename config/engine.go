package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/filter"
	"github.com/rushteam/barkeep/pkg/dsl"
	"github.com/rushteam/barkeep/store"
)

// EnvPrefix 是环境变量前缀：BARKEEP_TOP_N -> top_n，BARKEEP_STORE__REDIS_ADDR -> store.redis_addr。
const EnvPrefix = "BARKEEP_"

// EngineConfig 是推荐引擎的运行配置。
// 加载顺序（后者覆盖前者）：结构体默认值 → YAML 文件 → BARKEEP_ 环境变量。
type EngineConfig struct {
	TopN         int    `koanf:"top_n"`
	Timezone     string `koanf:"timezone"`
	PipelineFile string `koanf:"pipeline_file"`

	Store   StoreConfig   `koanf:"store"`
	Log     LogConfig     `koanf:"log"`
	Filters FiltersConfig `koanf:"filters"`
}

// StoreConfig 配置快照持久化后端。
type StoreConfig struct {
	Backend   string `koanf:"backend"` // none / memory / redis
	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`
	Key       string `koanf:"key"`
	// ExcludeKey 为 store 中保存排除配方 ID 列表（JSON 数组）的 key，可选
	ExcludeKey string `koanf:"exclude_key"`
}

// LogConfig 配置 zerolog。
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json / console
}

// FiltersConfig 是所有模式共用的过滤规则。
type FiltersConfig struct {
	ExcludeIDs         []string `koanf:"exclude_ids"`
	ExcludeIngredients []string `koanf:"exclude_ingredients"`
	Alcohol            string   `koanf:"alcohol"`
	Expr               string   `koanf:"expr"`
	// RecentDays 过滤最近 N 天做过的配方，0 表示不过滤
	RecentDays int `koanf:"recent_days"`
}

// DefaultEngineConfig 返回默认配置。
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		TopN:     (&core.DefaultRankConfig{}).DefaultTopN(),
		Timezone: "Local",
		Store: StoreConfig{
			Backend: string(store.BackendNone),
			Key:     "barkeep:snapshot",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Filters: FiltersConfig{
			Alcohol: string(filter.AlcoholAny),
		},
	}
}

// 环境变量中以逗号分隔的列表字段
var sliceConfigPaths = []string{
	"filters.exclude_ids",
	"filters.exclude_ingredients",
}

// LoadEngineConfig 加载配置；path 为空时跳过文件层。
func LoadEngineConfig(path string) (*EngineConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultEngineConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &EngineConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate 校验配置，失败时返回包装了 core.ErrInvalidConfig 的错误。
func (c *EngineConfig) Validate() error {
	if c.TopN <= 0 {
		return invalid("top_n must be positive, got %d", c.TopN)
	}
	if _, err := c.Location(); err != nil {
		return invalid("timezone %q: %v", c.Timezone, err)
	}
	switch store.Backend(c.Store.Backend) {
	case store.BackendNone, store.BackendMemory:
	case store.BackendRedis:
		if c.Store.RedisAddr == "" {
			return invalid("store.redis_addr is required for the redis backend")
		}
	default:
		return invalid("unknown store backend %q", c.Store.Backend)
	}
	if _, err := filter.ParseAlcoholPreference(c.Filters.Alcohol); err != nil {
		return invalid("filters.alcohol: %v", err)
	}
	if c.Filters.Expr != "" {
		if _, err := dsl.Compile(c.Filters.Expr); err != nil {
			return invalid("filters.expr: %v", err)
		}
	}
	if c.Filters.RecentDays < 0 {
		return invalid("filters.recent_days must not be negative")
	}
	return nil
}

// Location 解析时区；"Local" 与空串都是本地时区。
func (c *EngineConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// RecentWindow 返回最近做过的过滤窗口。
func (c *EngineConfig) RecentWindow() time.Duration {
	return time.Duration(c.Filters.RecentDays) * 24 * time.Hour
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// BuildFilters 按 filters 段构建所有模式共用的过滤器；s 非空时排除列表还会合并 store.exclude_key 中的 ID。
func (c *EngineConfig) BuildFilters(s core.Store) ([]filter.Filter, error) {
	var adapter *filter.StoreAdapter
	if s != nil {
		adapter = filter.NewStoreAdapter(s)
	}

	var out []filter.Filter
	if len(c.Filters.ExcludeIDs) > 0 || (adapter != nil && c.Store.ExcludeKey != "") {
		out = append(out, filter.NewBlacklistFilter(c.Filters.ExcludeIDs, adapter, c.Store.ExcludeKey))
	}
	if len(c.Filters.ExcludeIngredients) > 0 {
		out = append(out, filter.NewIngredientBlockFilter(c.Filters.ExcludeIngredients, nil, ""))
	}
	pref, err := filter.ParseAlcoholPreference(c.Filters.Alcohol)
	if err != nil {
		return nil, invalid("filters.alcohol: %v", err)
	}
	if pref != filter.AlcoholAny {
		out = append(out, &filter.AlcoholFilter{Preference: pref})
	}
	if c.Filters.Expr != "" {
		f, err := filter.NewExprFilter(c.Filters.Expr)
		if err != nil {
			return nil, invalid("filters.expr: %v", err)
		}
		out = append(out, f)
	}
	if w := c.RecentWindow(); w > 0 {
		out = append(out, &filter.RecentlyMadeFilter{Window: w})
	}
	return out, nil
}

// Package engine 是推荐引擎的入口：刷新调度（每天一次或强制）+ 编排（目录 × 模式）。
//
//	e, _ := engine.New(
//	    engine.WithCatalog(recall.NewFileCatalog("drinks.json")),
//	    engine.WithInventory(core.StaticInventory("gin", "lime")),
//	    engine.WithHistory(recall.FileHistory{Path: "history.json"}),
//	)
//	snap, err := e.Generate(ctx, false)
//	top := e.Recommendations(core.ModeCabinet)
//
// 并发模型：单写多读。任意时刻最多一次刷新在执行，并发的 Generate 合并到同一次刷新；
// 结果以整份快照原子替换，读者只会看到完整的旧快照或完整的新快照。
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/filter"
	"github.com/rushteam/barkeep/recall"
)

// 强制刷新与按天刷新分开合并：强制刷新不会搭上一次可能直接返回缓存的按天刷新。
const (
	refreshKey      = "refresh"
	forceRefreshKey = "refresh:force"
)

// Engine 持有当前发布的快照。零值不可用，使用 New 创建。
type Engine struct {
	catalog   core.CatalogSource
	inventory core.InventorySource
	history   core.HistorySource

	pipelines Pipelines
	overrides Pipelines
	filters   []filter.Filter
	extractor feature.Extractor
	topN      int
	params    map[string]any

	loc *time.Location
	now func() time.Time
	log zerolog.Logger

	snapshots SnapshotStore
	reg       prometheus.Registerer
	metrics   *Metrics

	current     atomic.Pointer[core.Snapshot]
	stale       atomic.Bool
	restoreOnce sync.Once
	group       singleflight.Group
	// refreshMu 串行化刷新，保证发布顺序与计算顺序一致
	refreshMu sync.Mutex
}

// New 创建引擎。未设置的来源按空目录 / 空酒柜 / 空历史处理。
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		topN: (&core.DefaultRankConfig{}).DefaultTopN(),
		loc:  time.Local,
		now:  time.Now,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", core.ErrInvalidConfig, e.topN)
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.catalog == nil {
		e.catalog = recall.NewStaticCatalog("empty", nil)
	}
	if e.inventory == nil {
		e.inventory = core.StaticInventory()
	}
	if e.history == nil {
		e.history = core.StaticHistory(nil)
	}
	if e.extractor == nil {
		e.extractor = feature.NewCachedExtractor(nil, nil)
	}

	e.pipelines = DefaultPipelines(e.topN, e.extractor, e.filters...)
	for m, p := range e.overrides {
		if p != nil {
			e.pipelines[m] = p
		}
	}
	e.metrics = NewMetrics(e.reg)
	e.log = e.log.With().Str("component", "recommend").Logger()
	return e, nil
}

// Generate 返回当前快照：
//   - force 为 false 且上次刷新与现在是同一天（按引擎时区）时，直接返回已发布的快照
//   - 否则执行一次刷新并原子发布
//
// 并发的同类调用共享同一次刷新；强制调用总会重新计算，不会复用进行中的按天刷新。
// 刷新一旦开始就会执行完毕；ctx 取消只让调用方提前返回，不影响刷新本身。
// 外部来源出错时返回错误，已发布的快照保持不变。
func (e *Engine) Generate(ctx context.Context, force bool) (*core.Snapshot, error) {
	e.restore(ctx)
	if !force {
		if snap, ok := e.fresh(); ok {
			e.metrics.cacheHits.Inc()
			e.log.Debug().Str("run_id", snap.RunID).Msg("serving cached recommendations")
			return snap, nil
		}
	}

	key := refreshKey
	if force {
		key = forceRefreshKey
	}
	ch := e.group.DoChan(key, func() (any, error) {
		e.refreshMu.Lock()
		defer e.refreshMu.Unlock()
		if !force {
			if snap, ok := e.fresh(); ok {
				return snap, nil
			}
		}
		return e.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*core.Snapshot), nil
	}
}

// Recommendations 返回某个模式的列表拷贝；从未计算过时返回空列表。
func (e *Engine) Recommendations(m core.Mode) []core.Recommendation {
	return e.current.Load().Get(m)
}

// Snapshot 返回当前发布的快照（只读），从未刷新过时为 nil。
func (e *Engine) Snapshot() *core.Snapshot {
	return e.current.Load()
}

// LastRefresh 返回上次刷新时间；从未刷新或已 Invalidate 时 ok 为 false。
func (e *Engine) LastRefresh() (time.Time, bool) {
	snap := e.current.Load()
	if snap == nil || e.stale.Load() {
		return time.Time{}, false
	}
	return snap.RefreshedAt, true
}

// Invalidate 清除刷新时间，下一次 Generate(false) 会重新计算。已发布的列表仍然可读。
func (e *Engine) Invalidate() {
	e.stale.Store(true)
}

func (e *Engine) fresh() (*core.Snapshot, bool) {
	snap := e.current.Load()
	if snap == nil || e.stale.Load() {
		return nil, false
	}
	return snap, sameDay(snap.RefreshedAt, e.now(), e.loc)
}

// restore 在第一次使用时加载持久化的快照。
func (e *Engine) restore(ctx context.Context) {
	if e.snapshots == nil {
		return
	}
	e.restoreOnce.Do(func() {
		snap, err := e.snapshots.Load(context.WithoutCancel(ctx))
		if err != nil {
			e.log.Warn().Err(err).Msg("restore snapshot failed")
			return
		}
		if snap == nil {
			return
		}
		if e.current.CompareAndSwap(nil, snap) {
			e.log.Info().
				Str("run_id", snap.RunID).
				Time("refreshed_at", snap.RefreshedAt).
				Msg("restored persisted recommendations")
		}
	})
}

func (e *Engine) refresh(ctx context.Context) (*core.Snapshot, error) {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()
	start := time.Now()
	now := e.now().In(e.loc)
	wasStale := e.stale.Swap(false)

	fail := func(err error) (*core.Snapshot, error) {
		if wasStale {
			e.stale.Store(true)
		}
		e.metrics.refreshes.WithLabelValues(resultError).Inc()
		log.Error().Err(err).Msg("refresh failed, keeping previous recommendations")
		return nil, err
	}

	rctx, err := e.load(ctx, now)
	if err != nil {
		return fail(err)
	}
	lists, err := compute(ctx, e.pipelines, rctx)
	if err != nil {
		return fail(err)
	}

	snap := &core.Snapshot{
		RunID:       runID,
		RefreshedAt: now,
		Situation:   rctx.Situation,
		Lists:       lists,
	}
	e.current.Store(snap)

	elapsed := time.Since(start)
	e.metrics.refreshes.WithLabelValues(resultOK).Inc()
	e.metrics.duration.Observe(elapsed.Seconds())
	ev := log.Info().
		Dur("duration", elapsed).
		Int("recipes", len(rctx.Recipes)).
		Str("time_of_day", string(rctx.Situation.TimeOfDay)).
		Str("season", string(rctx.Situation.Season))
	for _, m := range core.AllModes() {
		n := len(lists[m])
		e.metrics.listSize.WithLabelValues(m.String()).Set(float64(n))
		ev = ev.Int(m.String(), n)
	}
	ev.Msg("recommendations refreshed")

	if e.snapshots != nil {
		if err := e.snapshots.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Msg("persist snapshot failed")
		}
	}
	return snap, nil
}

func (e *Engine) load(ctx context.Context, now time.Time) (*core.RecommendContext, error) {
	recipes, err := e.catalog.Recipes(ctx)
	if err != nil {
		if core.IsDomainError(err) {
			return nil, err
		}
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog "+e.catalog.Name(), err)
	}
	inv, err := e.inventory.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	records, err := e.history.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return NewContext(Input{
		Now:       now,
		Recipes:   recipes,
		Inventory: inv,
		History:   records,
		Params:    e.params,
	}), nil
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

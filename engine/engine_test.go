package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/barkeep/config/builders"
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/filter"
	"github.com/rushteam/barkeep/pipeline"
	"github.com/rushteam/barkeep/recall"
	"github.com/rushteam/barkeep/store"
)

// clock 是可拨动的测试时钟。
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// 2024-05-03 是周五
var friday = time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC)

func barCatalog() []*core.Recipe {
	margarita := core.NewRecipe("11007", "Margarita", "Ordinary Drink", []string{"Tequila", "Triple sec", "Lime juice", "Salt"})
	margarita.IBA = "Contemporary Classics"
	return []*core.Recipe{
		core.NewRecipe("11000", "Mojito", "Cocktail", []string{"Light rum", "Mint", "Sugar", "Soda water"}),
		core.NewRecipe("11001", "Negroni", "Ordinary Drink", []string{"Gin", "Campari", "Sweet Vermouth"}),
		margarita,
		core.NewRecipe("11002", "Screwdriver", "Cocktail", []string{"Vodka", "Orange juice"}),
		core.NewRecipe("11003", "Irish Coffee", "Coffee / Tea", []string{"Irish whiskey", "Hot coffee", "Brown sugar", "Cream"}),
	}
}

func margaritaHistory() []core.HistoryRecord {
	return []core.HistoryRecord{
		{CocktailName: "Margarita", MadeAt: friday.Add(-48 * time.Hour)},
		{CocktailName: "Margarita", MadeAt: friday.Add(-24 * time.Hour)},
	}
}

// countingCatalog 记录被读取的次数。
type countingCatalog struct {
	recipes []*core.Recipe
	calls   atomic.Int32
	err     atomic.Pointer[error]
	gate    chan struct{}
}

func (c *countingCatalog) Name() string { return "counting" }

func (c *countingCatalog) Recipes(ctx context.Context) ([]*core.Recipe, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	if p := c.err.Load(); p != nil {
		return nil, *p
	}
	return c.recipes, nil
}

func (c *countingCatalog) fail(err error) { c.err.Store(&err) }
func (c *countingCatalog) heal()          { c.err.Store(nil) }

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithClock(newClock(friday).Now),
		WithLocation(time.UTC),
		WithCatalog(recall.NewStaticCatalog("bar", barCatalog())),
		WithInventory(core.StaticInventory("Tequila", "triple sec", "lime juice", "salt", "gin")),
		WithHistory(core.StaticHistory(margaritaHistory())),
		WithRegistry(prometheus.NewRegistry()),
	}
	e, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return e
}

func TestEngine_GenerateIsDeterministic(t *testing.T) {
	e := newEngine(t)
	first, err := e.Generate(context.Background(), true)
	require.NoError(t, err)
	second, err := e.Generate(context.Background(), true)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Lists, second.Lists)
	assert.Len(t, first.Lists, 4)
}

func TestEngine_RefreshCadence(t *testing.T) {
	clk := newClock(friday)
	cat := &countingCatalog{recipes: barCatalog()}
	e := newEngine(t, WithClock(clk.Now), WithCatalog(cat))

	first, err := e.Generate(context.Background(), false)
	require.NoError(t, err)

	clk.Set(friday.Add(4 * time.Hour)) // 23:00 同一天
	again, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.EqualValues(t, 1, cat.calls.Load())

	forced, err := e.Generate(context.Background(), true)
	require.NoError(t, err)
	assert.NotSame(t, first, forced)
	assert.EqualValues(t, 2, cat.calls.Load())

	clk.Set(friday.Add(6 * time.Hour)) // 次日 01:00
	nextDay, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.NotSame(t, forced, nextDay)
	assert.EqualValues(t, 3, cat.calls.Load())

	assert.Equal(t, 3.0, testutil.ToFloat64(e.metrics.refreshes.WithLabelValues(resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.cacheHits))
}

func TestEngine_CalendarDayUsesLocation(t *testing.T) {
	// UTC 13:00 与 15:00 在 UTC+10 分别是 23:00 和次日 01:00
	clk := newClock(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC))
	e := newEngine(t, WithClock(clk.Now), WithLocation(time.FixedZone("AEST", 10*3600)))

	first, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, core.Night, first.Situation.TimeOfDay)

	clk.Set(time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC))
	second, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, core.Thu, second.Situation.DayOfWeek)
}

func TestEngine_ConcurrentGenerateCoalesces(t *testing.T) {
	cat := &countingCatalog{recipes: barCatalog(), gate: make(chan struct{})}
	e := newEngine(t, WithCatalog(cat))

	const callers = 8
	results := make([]*core.Snapshot, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := e.Generate(context.Background(), false)
			assert.NoError(t, err)
			results[i] = snap
		}()
	}

	require.Eventually(t, func() bool { return cat.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(cat.gate)
	wg.Wait()

	assert.EqualValues(t, 1, cat.calls.Load())
	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
}

func TestEngine_ForcedGenerateRecomputesDuringScheduledRefresh(t *testing.T) {
	cat := &countingCatalog{recipes: barCatalog(), gate: make(chan struct{})}
	e := newEngine(t, WithCatalog(cat))

	scheduled := make(chan *core.Snapshot, 1)
	go func() {
		snap, err := e.Generate(context.Background(), false)
		assert.NoError(t, err)
		scheduled <- snap
	}()
	require.Eventually(t, func() bool { return cat.calls.Load() == 1 }, time.Second, time.Millisecond)

	forced := make(chan *core.Snapshot, 1)
	go func() {
		snap, err := e.Generate(context.Background(), true)
		assert.NoError(t, err)
		forced <- snap
	}()
	// 强制刷新排在进行中的刷新之后，不读目录
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, cat.calls.Load())

	close(cat.gate)
	first, second := <-scheduled, <-forced
	assert.EqualValues(t, 2, cat.calls.Load())
	assert.NotSame(t, first, second)
	assert.Same(t, second, e.Snapshot())
}

func TestEngine_CancelledCallerDoesNotAbortRefresh(t *testing.T) {
	cat := &countingCatalog{recipes: barCatalog(), gate: make(chan struct{})}
	e := newEngine(t, WithCatalog(cat))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.Generate(ctx, false)
		done <- err
	}()
	require.Eventually(t, func() bool { return cat.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Nil(t, e.Snapshot())

	close(cat.gate)
	require.Eventually(t, func() bool { return e.Snapshot() != nil }, time.Second, time.Millisecond)
	snap, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, e.Snapshot(), snap)
	assert.EqualValues(t, 1, cat.calls.Load())
}

func TestEngine_SourceErrorKeepsPublishedSnapshot(t *testing.T) {
	cat := &countingCatalog{recipes: barCatalog()}
	e := newEngine(t, WithCatalog(cat))

	good, err := e.Generate(context.Background(), false)
	require.NoError(t, err)

	boom := errors.New("catalog offline")
	cat.fail(boom)
	_, err = e.Generate(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, core.IsUnavailable(err))
	assert.Same(t, good, e.Snapshot())
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.refreshes.WithLabelValues(resultError)))

	cat.heal()
	_, err = e.Generate(context.Background(), true)
	require.NoError(t, err)
}

func TestEngine_Invalidate(t *testing.T) {
	cat := &countingCatalog{recipes: barCatalog()}
	e := newEngine(t, WithCatalog(cat))

	_, ok := e.LastRefresh()
	assert.False(t, ok)

	first, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	at, ok := e.LastRefresh()
	require.True(t, ok)
	assert.Equal(t, friday, at)

	e.Invalidate()
	_, ok = e.LastRefresh()
	assert.False(t, ok)
	assert.NotEmpty(t, e.Recommendations(core.ModeCabinet))

	second, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, cat.calls.Load())
	_, ok = e.LastRefresh()
	assert.True(t, ok)
}

func TestEngine_RecommendationsBeforeGenerate(t *testing.T) {
	e := newEngine(t)
	for _, m := range core.AllModes() {
		got := e.Recommendations(m)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Nil(t, e.Snapshot())
}

func TestEngine_CabinetScenario(t *testing.T) {
	e := newEngine(t,
		WithCatalog(recall.NewStaticCatalog("one", []*core.Recipe{core.NewRecipe("A", "A", "", []string{"gin", "lime"})})),
		WithInventory(core.StaticInventory("gin")),
	)
	_, err := e.Generate(context.Background(), true)
	require.NoError(t, err)

	got := e.Recommendations(core.ModeCabinet)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].RecipeID)
	assert.InDelta(t, 50.0, got[0].Score, 1e-9)
	assert.Contains(t, got[0].Reason, "missing 1 ingredient")
	assert.Equal(t, core.ModeCabinet, got[0].Mode)
}

func TestEngine_PersonalizedRanksMargaritaFirst(t *testing.T) {
	e := newEngine(t)
	_, err := e.Generate(context.Background(), true)
	require.NoError(t, err)

	got := e.Recommendations(core.ModePersonalized)
	require.NotEmpty(t, got)
	assert.Equal(t, "Margarita", got[0].Name)
	for _, rec := range got[1:] {
		assert.Less(t, rec.Score, got[0].Score)
	}
}

func TestEngine_EmptyHistoryMeansNoSimilar(t *testing.T) {
	e := newEngine(t, WithHistory(core.StaticHistory(nil)))
	snap, err := e.Generate(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, []core.Recommendation{}, snap.Get(core.ModeSimilar))
	assert.NotEmpty(t, snap.Get(core.ModeTrending))
}

func TestEngine_EmptyCatalog(t *testing.T) {
	e := newEngine(t, WithCatalog(recall.NewStaticCatalog("empty", nil)))
	snap, err := e.Generate(context.Background(), true)
	require.NoError(t, err)
	for _, m := range core.AllModes() {
		assert.Empty(t, snap.Get(m), m.String())
	}
}

func TestEngine_BoundedUniqueSortedOutput(t *testing.T) {
	var recipes []*core.Recipe
	for i := 0; i < 15; i++ {
		recipes = append(recipes, core.NewRecipe(fmt.Sprintf("r%02d", i), fmt.Sprintf("Gin %d", i), "Cocktail", []string{"gin", fmt.Sprintf("bitters %d", i%3)}))
	}
	// 重复 ID 只保留一次
	recipes = append(recipes, core.NewRecipe("r00", "Gin 0 again", "Cocktail", []string{"gin"}))

	e := newEngine(t,
		WithCatalog(recall.NewStaticCatalog("gins", recipes)),
		WithInventory(core.StaticInventory("gin", "bitters 0")),
		WithTopN(10),
	)
	snap, err := e.Generate(context.Background(), true)
	require.NoError(t, err)

	for _, m := range core.AllModes() {
		list := snap.Get(m)
		assert.LessOrEqual(t, len(list), 10, m.String())
		seen := make(map[string]bool)
		for i, rec := range list {
			assert.False(t, seen[rec.RecipeID], "duplicate %s in %s", rec.RecipeID, m)
			seen[rec.RecipeID] = true
			if i > 0 {
				assert.GreaterOrEqual(t, list[i-1].Score, rec.Score)
			}
		}
	}
	assert.Len(t, snap.Get(core.ModeCabinet), 10)
}

func TestEngine_FiltersApplyToEveryMode(t *testing.T) {
	e := newEngine(t, WithFilters(filter.NewBlacklistFilter([]string{"11007"}, nil, "")))
	snap, err := e.Generate(context.Background(), true)
	require.NoError(t, err)
	for _, m := range core.AllModes() {
		for _, rec := range snap.Get(m) {
			assert.NotEqual(t, "11007", rec.RecipeID, m.String())
		}
	}
}

func TestEngine_PersistenceRestore(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	e1 := newEngine(t, WithStore(s, ""))
	saved, err := e1.Generate(context.Background(), false)
	require.NoError(t, err)

	cat := &countingCatalog{recipes: barCatalog()}
	e2 := newEngine(t, WithStore(s, ""), WithCatalog(cat), WithClock(newClock(friday.Add(time.Hour)).Now))
	restored, err := e2.Generate(context.Background(), false)
	require.NoError(t, err)

	assert.EqualValues(t, 0, cat.calls.Load())
	assert.Equal(t, saved.RunID, restored.RunID)
	assert.True(t, saved.RefreshedAt.Equal(restored.RefreshedAt))
	assert.Equal(t, saved.Get(core.ModeCabinet)[0].RecipeID, restored.Get(core.ModeCabinet)[0].RecipeID)

	// 新的一天照常重算
	e3 := newEngine(t, WithStore(s, ""), WithCatalog(cat), WithClock(newClock(friday.Add(30*time.Hour)).Now))
	fresh, err := e3.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.NotEqual(t, saved.RunID, fresh.RunID)
	assert.EqualValues(t, 1, cat.calls.Load())
}

// brokenSnapshots 的读写总是失败。
type brokenSnapshots struct{}

func (brokenSnapshots) Load(context.Context) (*core.Snapshot, error) { return nil, errors.New("load") }
func (brokenSnapshots) Save(context.Context, *core.Snapshot) error   { return errors.New("save") }

func TestEngine_PersistenceFailuresAreNotFatal(t *testing.T) {
	e := newEngine(t, WithSnapshotStore(brokenSnapshots{}))
	snap, err := e.Generate(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestNew_RejectsBadTopN(t *testing.T) {
	_, err := New(WithTopN(0))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestCompute_MissingPipelineYieldsEmptyList(t *testing.T) {
	p := DefaultPipelines(10, nil)
	delete(p, core.ModeTrending)

	lists, err := Compute(context.Background(), p, Input{
		Now:       friday,
		Recipes:   barCatalog(),
		Inventory: core.NewInventory("gin", "campari", "sweet vermouth"),
	})
	require.NoError(t, err)
	assert.Len(t, lists, 4)
	assert.Equal(t, []core.Recommendation{}, lists[core.ModeTrending])
	require.NotEmpty(t, lists[core.ModeCabinet])
	assert.Equal(t, "Negroni", lists[core.ModeCabinet][0].Name)
	assert.Equal(t, "you have all ingredients", lists[core.ModeCabinet][0].Reason)
}

func TestPipelinesFromConfig(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipelines:
  cabinet:
    nodes:
      - type: recall.catalog
      - type: rank.mode
        config: {mode: cabinet}
      - type: rerank.ranker
        config: {n: 1}
`))
	require.NoError(t, err)

	p, err := PipelinesFromConfig(cfg, builders.FactoryWithStore(nil), nil)
	require.NoError(t, err)
	require.Contains(t, p, core.ModeCabinet)

	e := newEngine(t, WithPipelines(p))
	snap, err := e.Generate(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, snap.Get(core.ModeCabinet), 1)
	assert.NotEmpty(t, snap.Get(core.ModeTrending))

	bad, err := pipeline.ParseYAML([]byte(`
pipelines:
  weekly:
    nodes:
      - type: recall.catalog
`))
	require.NoError(t, err)
	_, err = PipelinesFromConfig(bad, builders.FactoryWithStore(nil), nil)
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}

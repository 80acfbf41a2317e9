package filter

import (
	"context"
	"time"

	"github.com/rushteam/barkeep/core"
)

// RecentlyMadeFilter 过滤最近 Window 时间内做过的配方，让列表更有新鲜感。
// 以 rctx.Now 为基准；Window <= 0 时不过滤。
type RecentlyMadeFilter struct {
	Window time.Duration
}

func (f *RecentlyMadeFilter) Name() string {
	return "filter.recently_made"
}

func (f *RecentlyMadeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Recipe == nil {
		return true, nil
	}
	if f.Window <= 0 || rctx == nil || rctx.History.Empty() {
		return false, nil
	}
	last, ok := rctx.History.LastMade(item.Recipe.Name)
	if !ok {
		return false, nil
	}
	return rctx.Now.Sub(last) < f.Window, nil
}

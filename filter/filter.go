package filter

import (
	"context"

	"github.com/rushteam/barkeep/core"
)

// Filter 是过滤器的抽象接口，用于判断一个配方是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Preparer 由需要在每次运行前加载数据的过滤器实现（例如从 Store 读取黑名单）。
// FilterNode 在遍历配方前调用一次 Prepare；失败时本次运行跳过该过滤器。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RecommendContext) error
}

package recall

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/barkeep/core"
)

// Fanout 并发读取多个目录来源，并按 Sources 的声明顺序合并：
// 同一个配方 ID 只保留第一个来源中的版本，合并后的位置即目录顺序（排序 tiebreak）。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个来源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）

	// BestEffort 为 true 时跳过失败的来源；否则任一来源失败都返回错误
	BestEffort bool
}

func (n *Fanout) Name() string { return "recall.fanout" }

func (n *Fanout) Recipes(ctx context.Context) ([]*core.Recipe, error) {
	if len(n.Sources) == 0 {
		return []*core.Recipe{}, nil
	}

	results := make([][]*core.Recipe, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			srcCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				srcCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			recipes, err := src.Recipes(srcCtx)
			if err != nil {
				if n.BestEffort {
					return nil
				}
				return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable,
					fmt.Sprintf("catalog source %s", src.Name()), err)
			}
			results[i] = recipes
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return Merge(results...), nil
}

// Merge 按顺序合并多个目录，按 ID 去重保留第一个；nil 与无 ID 的配方被丢弃。
func Merge(lists ...[]*core.Recipe) []*core.Recipe {
	var total int
	for _, l := range lists {
		total += len(l)
	}
	seen := make(map[string]struct{}, total)
	out := make([]*core.Recipe, 0, total)
	for _, l := range lists {
		for _, r := range l {
			if r == nil || r.ID == "" {
				continue
			}
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

var _ Source = (*Fanout)(nil)

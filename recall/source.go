package recall

import (
	"context"

	"github.com/rushteam/barkeep/core"
)

// Source 表示一个配方目录来源（内置目录、用户自建配方、远程目录...）。
// 你可以把它理解为“可并发 fan-out 的目录单元”。返回顺序即目录顺序。
type Source = core.CatalogSource

// StaticCatalog 是内存中的固定目录。
type StaticCatalog struct {
	name    string
	recipes []*core.Recipe
}

// NewStaticCatalog 创建固定目录；nil 配方和没有 ID 的配方会被忽略。
func NewStaticCatalog(name string, recipes []*core.Recipe) *StaticCatalog {
	cp := make([]*core.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r != nil && r.ID != "" {
			cp = append(cp, r)
		}
	}
	if name == "" {
		name = "static"
	}
	return &StaticCatalog{name: name, recipes: cp}
}

func (c *StaticCatalog) Name() string { return c.name }

func (c *StaticCatalog) Recipes(ctx context.Context) ([]*core.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*core.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out, nil
}

// SourceFunc 让普通函数实现 Source。
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context) ([]*core.Recipe, error)
}

func (s SourceFunc) Name() string { return s.SourceName }

func (s SourceFunc) Recipes(ctx context.Context) ([]*core.Recipe, error) {
	return s.Fn(ctx)
}

var (
	_ Source = (*StaticCatalog)(nil)
	_ Source = SourceFunc{}
)

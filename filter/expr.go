package filter

import (
	"context"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pkg/dsl"
)

// ExprFilter 用 CEL 规则筛选配方：表达式为 true 的配方保留，false 的过滤。
// 表达式变量见 dsl.Program。
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式，编译失败时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string {
	return f.program.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("recipe", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("label", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("ctx", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的规则表达式，使用 CEL (Common Expression Language) 语法。
// 编译一次、并发安全，可以对多个配方反复求值。
//
// 可用变量：
//   - recipe.id / name / category / glass / alcoholic / iba / ingredients / ingredient_count
//   - item.id / score / reason / mode / features / components
//   - label.<key>（label 值）
//   - ctx.time_of_day / day_of_week / season / inventory / params
//
// 示例：
//   - `recipe.category != "shot"`
//   - `!("raw egg" in recipe.ingredients)`
//   - `recipe.alcoholic || ctx.time_of_day == "morning"`
//   - `item.features["user_have_count"] >= 2.0`
//
// 访问不存在的 map key 会报错，先用 `"key" in label` 判断存在性。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，结果必须是 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对单个配方求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(BuildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式；空表达式视为 true。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

// BuildInput 构建 CEL 表达式的输入数据
func BuildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	recipe := map[string]any{
		"id":               "",
		"name":             "",
		"category":         "",
		"glass":            "",
		"alcoholic":        false,
		"iba":              false,
		"ingredients":      []string{},
		"ingredient_count": int64(0),
	}
	itemMap := map[string]any{
		"id":         "",
		"score":      0.0,
		"reason":     "",
		"mode":       "",
		"features":   map[string]float64{},
		"components": map[string]float64{},
	}
	labels := map[string]string{}

	if item != nil {
		itemMap["id"] = item.ID
		itemMap["score"] = item.Score
		itemMap["reason"] = item.Reason
		itemMap["mode"] = item.Mode.String()
		if item.Features != nil {
			itemMap["features"] = item.Features
		}
		if item.Components != nil {
			itemMap["components"] = item.Components
		}
		labels = utils.LabelValues(item.Labels)

		if r := item.Recipe; r != nil {
			ingredients := make([]string, 0, len(r.Ingredients))
			for _, ing := range r.Ingredients {
				if k := core.NormalizeName(ing); k != "" {
					ingredients = append(ingredients, k)
				}
			}
			recipe["id"] = r.ID
			recipe["name"] = r.Name
			recipe["category"] = r.NormalizedCategory()
			recipe["glass"] = core.NormalizeName(r.Glass)
			recipe["alcoholic"] = r.IsAlcoholic()
			recipe["iba"] = r.IsIBA()
			recipe["ingredients"] = ingredients
			recipe["ingredient_count"] = int64(len(ingredients))
		}
	}

	ctx := map[string]any{
		"time_of_day": "",
		"day_of_week": "",
		"season":      "",
		"inventory":   []string{},
		"params":      map[string]any{},
	}
	if rctx != nil {
		ctx["time_of_day"] = string(rctx.Situation.TimeOfDay)
		ctx["day_of_week"] = string(rctx.Situation.DayOfWeek)
		ctx["season"] = string(rctx.Situation.Season)
		ctx["inventory"] = rctx.Inventory.Names()
		if rctx.Params != nil {
			ctx["params"] = rctx.Params
		}
	}

	return map[string]any{
		"recipe": recipe,
		"item":   itemMap,
		"label":  labels,
		"ctx":    ctx,
	}
}

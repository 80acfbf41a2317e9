package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// MaxIngredients 是单个配方保留的最大配料数。
const MaxIngredients = 15

// Recipe 是外部配方目录中的一条记录（只读）。
// 引擎从不修改 Recipe；NewRecipe 负责把配料名规整为 trim 过且非空的列表。
type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Glass       string   `json:"glass,omitempty"`
	Alcoholic   string   `json:"alcoholic,omitempty"`
	IBA         string   `json:"iba,omitempty"` // 非空即视为 IBA 经典款
	Ingredients []string `json:"ingredients"`
}

// NewRecipe 创建配方并规整配料列表：
//   - 去除首尾空白，合并内部连续空白
//   - 丢弃空字符串
//   - 最多保留 MaxIngredients 个
func NewRecipe(id, name, category string, ingredients []string) *Recipe {
	return &Recipe{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Category:    strings.TrimSpace(category),
		Ingredients: CleanIngredients(ingredients),
	}
}

// CleanIngredients 规整配料名列表（保留原始大小写，用于展示）。
func CleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxIngredients {
			break
		}
	}
	return out
}

// NormalizeName 返回用于比较的配料名/配方名/类别：
// case folding + trim + 合并空白。比较一律使用该形式。
func NormalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Caser 有状态，不能跨 goroutine 共享
	return cases.Fold().String(s)
}

// IsIBA 判断是否带有非空的 IBA 经典标记。
func (r *Recipe) IsIBA() bool {
	return r != nil && strings.TrimSpace(r.IBA) != ""
}

// NormalizedCategory 返回规整后的类别，缺失时为空串。
func (r *Recipe) NormalizedCategory() string {
	if r == nil {
		return ""
	}
	return NormalizeName(r.Category)
}

// IsAlcoholic 按 alcoholic 字段判断；字段缺失时视为含酒精（目录默认）。
func (r *Recipe) IsAlcoholic() bool {
	if r == nil {
		return false
	}
	switch NormalizeName(r.Alcoholic) {
	case "non alcoholic", "non-alcoholic", "optional alcohol", "false", "no":
		return false
	default:
		return true
	}
}

package feature

import (
	"strings"
	"unicode"

	"github.com/rushteam/barkeep/core"
)

// RecipeFeatures 是从单个配方抽取出的、评分阶段共用的特征。
// 所有字符串均为 core.NormalizeName 之后的形式。
type RecipeFeatures struct {
	Recipe *core.Recipe

	// Ingredients 去重后的配料（保持目录中的顺序）
	Ingredients   []string
	IngredientSet map[string]struct{}

	// Tokens 来自配方名、类别、配料名的单词，用于关键词匹配
	Tokens map[string]struct{}

	Category string
	IBA      bool
}

// IngredientCount 返回去重后的配料数。
func (f *RecipeFeatures) IngredientCount() int {
	if f == nil {
		return 0
	}
	return len(f.Ingredients)
}

// HasToken 判断是否包含任一关键词。
func (f *RecipeFeatures) HasToken(words ...string) bool {
	if f == nil {
		return false
	}
	for _, w := range words {
		if _, ok := f.Tokens[w]; ok {
			return true
		}
	}
	return false
}

// HasIngredient 判断是否包含某个（已规整的）配料。
func (f *RecipeFeatures) HasIngredient(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f.IngredientSet[key]
	return ok
}

// ToMap 导出数值特征，写入 Item.Features 供规则/观测使用。
func (f *RecipeFeatures) ToMap() map[string]float64 {
	m := map[string]float64{
		"ingredient_count": float64(f.IngredientCount()),
		"iba":              0,
		"alcoholic":        0,
	}
	if f.IBA {
		m["iba"] = 1
	}
	if f.Recipe.IsAlcoholic() {
		m["alcoholic"] = 1
	}
	return m
}

// Extractor 是配方特征抽取器接口，采用策略模式，便于替换规整/分词规则。
type Extractor interface {
	// Name 返回抽取器名称（用于日志/监控）
	Name() string

	// Extract 抽取特征；nil 配方返回空特征，从不失败
	Extract(r *core.Recipe) *RecipeFeatures
}

// DefaultExtractor 是默认的特征抽取器实现。
//
// 关键词来源：
//   - 配方名
//   - 类别
//   - 配料名（IncludeIngredientTokens 为 true 时）
//
// 分词按非字母数字字符切分，因此 "Lime juice" 不会命中关键词 "ice"。
type DefaultExtractor struct {
	IncludeIngredientTokens bool
}

// NewDefaultExtractor 创建默认抽取器
func NewDefaultExtractor(opts ...DefaultExtractorOption) *DefaultExtractor {
	e := &DefaultExtractor{IncludeIngredientTokens: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultExtractorOption 默认抽取器配置选项
type DefaultExtractorOption func(*DefaultExtractor)

// WithIngredientTokens 设置是否把配料名加入关键词
func WithIngredientTokens(include bool) DefaultExtractorOption {
	return func(e *DefaultExtractor) {
		e.IncludeIngredientTokens = include
	}
}

func (e *DefaultExtractor) Name() string { return "default" }

func (e *DefaultExtractor) Extract(r *core.Recipe) *RecipeFeatures {
	f := &RecipeFeatures{
		Recipe:        r,
		IngredientSet: make(map[string]struct{}),
		Tokens:        make(map[string]struct{}),
	}
	if r == nil {
		return f
	}

	f.Category = r.NormalizedCategory()
	f.IBA = r.IsIBA()

	for _, name := range r.Ingredients {
		k := core.NormalizeName(name)
		if k == "" {
			continue
		}
		if _, dup := f.IngredientSet[k]; dup {
			continue
		}
		if len(f.Ingredients) == core.MaxIngredients {
			break
		}
		f.IngredientSet[k] = struct{}{}
		f.Ingredients = append(f.Ingredients, k)
	}

	addTokens(f.Tokens, core.NormalizeName(r.Name))
	addTokens(f.Tokens, f.Category)
	if e.IncludeIngredientTokens {
		for _, k := range f.Ingredients {
			addTokens(f.Tokens, k)
		}
	}
	return f
}

func addTokens(dst map[string]struct{}, s string) {
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		dst[w] = struct{}{}
	}
}

// ExtractorFunc 让普通函数实现 Extractor。
type ExtractorFunc struct {
	name    string
	extract func(r *core.Recipe) *RecipeFeatures
}

// NewExtractorFunc 创建自定义抽取器
func NewExtractorFunc(name string, extract func(r *core.Recipe) *RecipeFeatures) *ExtractorFunc {
	return &ExtractorFunc{name: name, extract: extract}
}

func (e *ExtractorFunc) Name() string { return e.name }

func (e *ExtractorFunc) Extract(r *core.Recipe) *RecipeFeatures {
	if e.extract == nil {
		return NewDefaultExtractor().Extract(r)
	}
	return e.extract(r)
}

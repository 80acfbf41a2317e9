package rank

import (
	"sync"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/model"
)

// Strategy 是单个推荐模式的打分规则。
// 每个模式声明自己需要的组件，再把组件分组合成最终分数与理由。
type Strategy interface {
	Mode() core.Mode

	// Kinds 返回需要计算的组件
	Kinds() []model.Kind

	// Score 返回 0-100 的分数与理由；ok=false 表示该配方不进入本模式的候选集
	Score(env *Env, f *feature.RecipeFeatures, cs model.Components) (score float64, reason string, ok bool)
}

// Env 是一次 ModeNode.Process 内所有配方共享的只读状态。
type Env struct {
	Ctx *core.RecommendContext

	// Favorites 偏爱配方及其特征，按调制次数降序
	Favorites []FavoriteFeatures
}

// FavoriteFeatures 是带特征的偏爱配方。
type FavoriteFeatures struct {
	core.Favorite
	Features *feature.RecipeFeatures
}

// NewEnv 预先抽取偏爱配方的特征；目录里找不到的偏爱配方只有名字，没有配料与类别。
func NewEnv(rctx *core.RecommendContext, extractor feature.Extractor) *Env {
	env := &Env{Ctx: rctx}
	if rctx == nil || rctx.History.Empty() {
		return env
	}
	for _, fav := range rctx.History.Favorites() {
		r := fav.Recipe
		if r == nil {
			r = &core.Recipe{Name: fav.Name}
		}
		env.Favorites = append(env.Favorites, FavoriteFeatures{
			Favorite: fav,
			Features: extractor.Extract(r),
		})
	}
	return env
}

// Scale 是组件分 [0,1] 到输出分数的倍率。
const Scale = 100.0

// 模式理由
const (
	ReasonForYou          = "recommended for you"
	ReasonClassicFavorite = "classic favorite"
	ReasonPreferences     = "matches your preferences"

	// TrendingContextThreshold 情境分严格大于该值时理由为 "popular this <season>"
	TrendingContextThreshold = 0.7
)

type cabinetStrategy struct{}

func (cabinetStrategy) Mode() core.Mode     { return core.ModeCabinet }
func (cabinetStrategy) Kinds() []model.Kind { return []model.Kind{model.KindCabinet} }

func (cabinetStrategy) Score(_ *Env, _ *feature.RecipeFeatures, cs model.Components) (float64, string, bool) {
	c := cs.Get(model.KindCabinet)
	if c.Value <= 0 {
		return 0, "", false
	}
	return c.Value * Scale, c.Reason, true
}

var (
	personalizedBlend = model.PersonalizedBlend()
	trendingBlend     = model.TrendingBlend()
)

type personalizedStrategy struct{}

func (personalizedStrategy) Mode() core.Mode { return core.ModePersonalized }
func (personalizedStrategy) Kinds() []model.Kind {
	return personalizedBlend.Kinds()
}

func (personalizedStrategy) Score(_ *Env, _ *feature.RecipeFeatures, cs model.Components) (float64, string, bool) {
	v, best := personalizedBlend.Combine(cs)
	if v <= 0 {
		return 0, "", false
	}
	reason := best.Reason
	if reason == "" {
		reason = ReasonForYou
	}
	return v * Scale, reason, true
}

type trendingStrategy struct{}

func (trendingStrategy) Mode() core.Mode     { return core.ModeTrending }
func (trendingStrategy) Kinds() []model.Kind { return trendingBlend.Kinds() }

func (trendingStrategy) Score(env *Env, _ *feature.RecipeFeatures, cs model.Components) (float64, string, bool) {
	v, _ := trendingBlend.Combine(cs)
	if v <= 0 {
		return 0, "", false
	}
	reason := ReasonClassicFavorite
	if cs.Get(model.KindContextual).Value > TrendingContextThreshold && env != nil && env.Ctx != nil {
		reason = "popular this " + string(env.Ctx.Situation.Season)
	}
	return v * Scale, reason, true
}

var (
	strategiesMu sync.RWMutex
	strategies   = map[core.Mode]Strategy{
		core.ModeCabinet:      cabinetStrategy{},
		core.ModePersonalized: personalizedStrategy{},
		core.ModeTrending:     trendingStrategy{},
		core.ModeSimilar:      similarStrategy{},
	}
)

// StrategyFor 返回模式对应的打分规则。
func StrategyFor(m core.Mode) (Strategy, bool) {
	strategiesMu.RLock()
	defer strategiesMu.RUnlock()
	s, ok := strategies[m]
	return s, ok
}

// RegisterStrategy 注册（或替换）一个模式的打分规则。
func RegisterStrategy(s Strategy) {
	if s == nil {
		return
	}
	strategiesMu.Lock()
	defer strategiesMu.Unlock()
	strategies[s.Mode()] = s
}

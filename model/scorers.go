package model

import (
	"fmt"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
)

// 理由片段
const (
	ReasonAllIngredients = "you have all ingredients"
	ReasonMissingOne     = "only missing 1 ingredient"
	ReasonMadeBefore     = "you've enjoyed this before"
	ReasonTopIngredients = "matches your favorite ingredients"
	ReasonFavoriteStyle  = "similar to your favorites"
	ReasonIBAClassic     = "IBA classic"
	ReasonPopular        = "popular choice"
	ReasonWeekend        = "a weekend treat"
)

// ReasonMissing 返回缺少 n 个配料时的理由。
func ReasonMissing(n int) string {
	if n == 1 {
		return ReasonMissingOne
	}
	return fmt.Sprintf("missing %d ingredients", n)
}

// CabinetMatch 按酒柜覆盖率打分：|配料 ∩ 酒柜| / |配料|。
type CabinetMatch struct{}

func (CabinetMatch) Kind() Kind { return KindCabinet }

func (CabinetMatch) Score(rctx *core.RecommendContext, f *feature.RecipeFeatures) Component {
	if f == nil || rctx == nil || f.IngredientCount() == 0 {
		return Component{Kind: KindCabinet}
	}
	n := f.IngredientCount()
	var have int
	for _, ing := range f.Ingredients {
		if rctx.Inventory.HasNormalized(ing) {
			have++
		}
	}
	c := Component{Kind: KindCabinet, Value: float64(have) / float64(n)}
	if have == n {
		c.Reason = ReasonAllIngredients
	} else {
		c.Reason = ReasonMissing(n - have)
	}
	return c
}

// 历史偏好打分常量
const (
	RatingWeight       = 0.15
	VarietyPenalty     = 0.1
	FavoriteCategoryUp = 0.05
	TopIngredientUp    = 0.1
)

// HistoryPattern 按调制历史打分：
//   - 做过：+评分×0.15，再 -0.1（鼓励尝新）
//   - 每个同类别的偏爱配方 +0.05
//   - 每个属于常用配料的配料 +0.1
type HistoryPattern struct{}

func (HistoryPattern) Kind() Kind { return KindHistory }

func (HistoryPattern) Score(rctx *core.RecommendContext, f *feature.RecipeFeatures) Component {
	c := Component{Kind: KindHistory}
	if f == nil || f.Recipe == nil || rctx == nil || rctx.History.Empty() {
		return c
	}
	hs := rctx.History

	var v float64
	made := hs.TimesMade(f.Recipe.Name) > 0
	if made {
		rating, _ := hs.Rating(f.Recipe.Name)
		v += float64(rating) * RatingWeight
		v -= VarietyPenalty
	}

	var sameCategory int
	if f.Category != "" {
		for _, fav := range hs.Favorites() {
			if fav.Recipe != nil && fav.Recipe.NormalizedCategory() == f.Category {
				sameCategory++
			}
		}
	}
	v += float64(sameCategory) * FavoriteCategoryUp

	var top int
	for _, ing := range f.Ingredients {
		if hs.IsTopIngredient(ing) {
			top++
		}
	}
	v += float64(top) * TopIngredientUp

	c.Value = clamp01(v)
	switch {
	case made:
		c.Reason = ReasonMadeBefore
	case top > 0:
		c.Reason = ReasonTopIngredients
	case sameCategory > 0:
		c.Reason = ReasonFavoriteStyle
	}
	return c
}

// 情境打分常量
const (
	MorningBonus   = 0.4
	AfternoonBonus = 0.3
	EveningBonus   = 0.35
	NightBonus     = 0.35
	SeasonBonus    = 0.3
	MildSeasonFlat = 0.2
	WeekendBonus   = 0.15

	// WeekendMinIngredients 周末加分要求配料数严格大于该值
	WeekendMinIngredients = 5
)

var (
	morningWords = []string{"coffee", "espresso", "brunch", "mimosa", "bloody", "bellini", "breakfast"}
	nightWords   = []string{"martini"}
	summerWords  = []string{"frozen", "ice", "tropical"}
	winterWords  = []string{"hot", "toddy", "coffee", "irish"}
)

// 流行类别
const (
	CategoryCocktail      = "cocktail"
	CategoryOrdinaryDrink = "ordinary drink"
	CategoryShot          = "shot"
)

func isPopularCategory(c string) bool {
	return c == CategoryCocktail || c == CategoryOrdinaryDrink
}

// Contextual 按时段、季节、周末打分，各项加分可叠加，最终截断到 [0,1]。
// 关键词按整词匹配配方名、类别和配料名。
type Contextual struct{}

func (Contextual) Kind() Kind { return KindContextual }

func (Contextual) Score(rctx *core.RecommendContext, f *feature.RecipeFeatures) Component {
	c := Component{Kind: KindContextual}
	if f == nil || f.Recipe == nil || rctx == nil {
		return c
	}
	sit := rctx.Situation

	var timeBonus float64
	switch sit.TimeOfDay {
	case core.Morning:
		if f.HasToken(morningWords...) {
			timeBonus = MorningBonus
		}
	case core.Afternoon:
		if f.Category != "" && f.Category != CategoryShot {
			timeBonus = AfternoonBonus
		}
	case core.Evening:
		if isPopularCategory(f.Category) {
			timeBonus = EveningBonus
		}
	case core.Night:
		if f.HasToken(nightWords...) || f.Category == CategoryCocktail {
			timeBonus = NightBonus
		}
	}

	var seasonBonus float64
	switch sit.Season {
	case core.Summer:
		if f.HasToken(summerWords...) {
			seasonBonus = SeasonBonus
		}
	case core.Winter:
		if f.HasToken(winterWords...) {
			seasonBonus = SeasonBonus
		}
	case core.Spring, core.Fall:
		seasonBonus = MildSeasonFlat
	}

	var weekendBonus float64
	if sit.DayOfWeek.IsWeekendEve() && f.IngredientCount() > WeekendMinIngredients {
		weekendBonus = WeekendBonus
	}

	c.Value = clamp01(timeBonus + seasonBonus + weekendBonus)
	switch {
	case timeBonus > 0:
		c.Reason = "perfect for the " + string(sit.TimeOfDay)
	case seasonBonus > 0:
		c.Reason = "great for " + string(sit.Season)
	case weekendBonus > 0:
		c.Reason = ReasonWeekend
	}
	return c
}

// 流行度打分常量
const (
	PopularityBase    = 0.5
	IBABonus          = 0.3
	PopularCategoryUp = 0.2
)

// Popularity 基础分 0.5，IBA 经典 +0.3，流行类别 +0.2。
type Popularity struct{}

func (Popularity) Kind() Kind { return KindPopularity }

func (Popularity) Score(_ *core.RecommendContext, f *feature.RecipeFeatures) Component {
	c := Component{Kind: KindPopularity}
	if f == nil || f.Recipe == nil {
		return c
	}
	v := PopularityBase
	if f.IBA {
		v += IBABonus
		c.Reason = ReasonIBAClassic
	}
	if isPopularCategory(f.Category) {
		v += PopularCategoryUp
		if c.Reason == "" {
			c.Reason = ReasonPopular
		}
	}
	c.Value = clamp01(v)
	return c
}

var (
	_ Scorer = CabinetMatch{}
	_ Scorer = HistoryPattern{}
	_ Scorer = Contextual{}
	_ Scorer = Popularity{}
)

package rank

import (
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/model"
	"github.com/rushteam/barkeep/similarity"
)

// 类别加分：0.6 + 0.05 × 偏爱配方的调制次数，上限 1
const (
	CategoryBase    = 0.6
	CategoryPerMade = 0.05
)

// similarStrategy 按与偏爱配方的相似度打分：
// 对每个偏爱配方取 max(配料重合度, 同类别加分)，再在所有偏爱配方中取最大值。
// 配方与偏爱配方同名时不与其自身比较。
type similarStrategy struct{}

func (similarStrategy) Mode() core.Mode     { return core.ModeSimilar }
func (similarStrategy) Kinds() []model.Kind { return nil }

func (similarStrategy) Score(env *Env, f *feature.RecipeFeatures, _ model.Components) (float64, string, bool) {
	if env == nil || len(env.Favorites) == 0 || f == nil || f.Recipe == nil {
		return 0, "", false
	}
	self := core.NormalizeName(f.Recipe.Name)

	var (
		best    float64
		bestFav string
	)
	for _, fav := range env.Favorites {
		if fav.Key == self {
			continue
		}
		v := similarity.OverlapRatio(f.IngredientSet, fav.Features.IngredientSet)
		if similarity.CategoryMatches(f.Recipe, fav.Features.Recipe) {
			v = max(v, min(1, CategoryBase+CategoryPerMade*float64(fav.Count)))
		}
		if v > best {
			best = v
			bestFav = fav.Name
		}
	}
	if best <= 0 {
		return 0, "", false
	}
	reason := ReasonPreferences
	if bestFav != "" {
		reason = "similar to " + bestFav
	}
	return best * Scale, reason, true
}

package core

import (
	"sort"
	"time"
)

// HistoryRecord 是一次调制记录（由外部历史存储提供，只读）。
type HistoryRecord struct {
	CocktailName string    `json:"cocktail_name"`
	MadeAt       time.Time `json:"made_at"`
	// Rating 为可选的 1-5 评分；nil 或越界都视为未评分
	Rating      *int     `json:"rating,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// Favorite 是按调制次数统计出的偏爱配方。
type Favorite struct {
	Name  string // 首次出现时的原始名字
	Key   string // NormalizeName(Name)
	Count int
	// Recipe 为目录中的同名配方；目录中找不到时为 nil
	Recipe *Recipe
}

// HistoryStats 是从历史记录派生出的用户画像。
//
// 它不是持久化数据：每次推荐运行都从 HistoryRecord 重新计算。
//
//	维度          作用
//	调制次数      历史模式加分 / 多样性惩罚
//	最近评分      历史模式加分
//	偏爱配方      类别加分 / 相似推荐
//	常用配料      历史模式加分
type HistoryStats struct {
	counts   map[string]int
	ratings  map[string]int
	ratedAt  map[string]time.Time
	lastMade map[string]time.Time
	topIngr  map[string]struct{}
	topOrder []string

	favorites []Favorite
	records   int

	// UpdateTime 最新一条记录的时间
	UpdateTime time.Time
}

// BuildHistoryStats 统计历史记录。
//   - favorites: 按次数降序，次数相同按首次出现顺序，取前 favoriteN 个
//   - 常用配料: 记录自带配料优先；记录没有配料时回退到目录中同名配方的配料
//   - 评分: 同一配方取时间最晚的有效评分
func BuildHistoryStats(records []HistoryRecord, catalog []*Recipe, favoriteN, topIngredientN int) *HistoryStats {
	hs := &HistoryStats{
		counts:   make(map[string]int),
		ratings:  make(map[string]int),
		ratedAt:  make(map[string]time.Time),
		lastMade: make(map[string]time.Time),
		topIngr:  make(map[string]struct{}),
		records:  len(records),
	}
	if len(records) == 0 {
		return hs
	}

	byName := make(map[string]*Recipe, len(catalog))
	for _, r := range catalog {
		if r == nil {
			continue
		}
		k := NormalizeName(r.Name)
		if _, dup := byName[k]; !dup && k != "" {
			byName[k] = r
		}
	}

	type seen struct {
		name  string
		first int
	}
	firstSeen := make(map[string]seen)
	ingrCount := make(map[string]int)
	ingrFirst := make(map[string]int)
	ingrSeq := 0

	for i, rec := range records {
		key := NormalizeName(rec.CocktailName)
		if key == "" {
			continue
		}
		hs.counts[key]++
		if _, ok := firstSeen[key]; !ok {
			firstSeen[key] = seen{name: rec.CocktailName, first: i}
		}
		if rec.MadeAt.After(hs.UpdateTime) {
			hs.UpdateTime = rec.MadeAt
		}
		if rec.MadeAt.After(hs.lastMade[key]) {
			hs.lastMade[key] = rec.MadeAt
		}

		if rec.Rating != nil && *rec.Rating >= 1 && *rec.Rating <= 5 {
			if at, ok := hs.ratedAt[key]; !ok || !rec.MadeAt.Before(at) {
				hs.ratings[key] = *rec.Rating
				hs.ratedAt[key] = rec.MadeAt
			}
		}

		ingredients := rec.Ingredients
		if len(CleanIngredients(ingredients)) == 0 {
			if r, ok := byName[key]; ok {
				ingredients = r.Ingredients
			}
		}
		for _, name := range ingredients {
			k := NormalizeName(name)
			if k == "" {
				continue
			}
			if _, ok := ingrFirst[k]; !ok {
				ingrFirst[k] = ingrSeq
				ingrSeq++
			}
			ingrCount[k]++
		}
	}

	keys := make([]string, 0, len(hs.counts))
	for k := range hs.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := hs.counts[keys[i]], hs.counts[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[keys[i]].first < firstSeen[keys[j]].first
	})
	if favoriteN > 0 && len(keys) > favoriteN {
		keys = keys[:favoriteN]
	}
	hs.favorites = make([]Favorite, 0, len(keys))
	for _, k := range keys {
		hs.favorites = append(hs.favorites, Favorite{
			Name:   firstSeen[k].name,
			Key:    k,
			Count:  hs.counts[k],
			Recipe: byName[k],
		})
	}

	ingr := make([]string, 0, len(ingrCount))
	for k := range ingrCount {
		ingr = append(ingr, k)
	}
	sort.Slice(ingr, func(i, j int) bool {
		ci, cj := ingrCount[ingr[i]], ingrCount[ingr[j]]
		if ci != cj {
			return ci > cj
		}
		return ingrFirst[ingr[i]] < ingrFirst[ingr[j]]
	})
	if topIngredientN > 0 && len(ingr) > topIngredientN {
		ingr = ingr[:topIngredientN]
	}
	hs.topOrder = ingr
	for _, k := range ingr {
		hs.topIngr[k] = struct{}{}
	}
	return hs
}

// Empty 判断是否没有任何历史。
func (hs *HistoryStats) Empty() bool {
	return hs == nil || len(hs.counts) == 0
}

// Records 返回参与统计的原始记录数。
func (hs *HistoryStats) Records() int {
	if hs == nil {
		return 0
	}
	return hs.records
}

// TimesMade 返回某配方被调制的次数。
func (hs *HistoryStats) TimesMade(name string) int {
	if hs == nil {
		return 0
	}
	return hs.counts[NormalizeName(name)]
}

// Rating 返回某配方最近一次的有效评分。
func (hs *HistoryStats) Rating(name string) (int, bool) {
	if hs == nil {
		return 0, false
	}
	r, ok := hs.ratings[NormalizeName(name)]
	return r, ok
}

// LastMade 返回某配方最近一次的调制时间。
func (hs *HistoryStats) LastMade(name string) (time.Time, bool) {
	if hs == nil {
		return time.Time{}, false
	}
	t, ok := hs.lastMade[NormalizeName(name)]
	return t, ok
}

// Favorites 返回偏爱配方（调用方不应修改返回值）。
func (hs *HistoryStats) Favorites() []Favorite {
	if hs == nil {
		return nil
	}
	return hs.favorites
}

// TopIngredients 返回最常用的配料（规整后的名字，按频次降序）。
func (hs *HistoryStats) TopIngredients() []string {
	if hs == nil {
		return nil
	}
	return hs.topOrder
}

// IsTopIngredient 判断规整后的配料名是否属于常用配料。
func (hs *HistoryStats) IsTopIngredient(key string) bool {
	if hs == nil {
		return false
	}
	_, ok := hs.topIngr[key]
	return ok
}

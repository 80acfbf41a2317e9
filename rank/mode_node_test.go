package rank

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pkg/utils"
)

func itemsOf(recipes ...*core.Recipe) []*core.Item {
	out := make([]*core.Item, 0, len(recipes))
	for i, r := range recipes {
		out = append(out, core.NewItem(r, i))
	}
	return out
}

func byID(items []*core.Item) map[string]*core.Item {
	m := make(map[string]*core.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

func TestModeNode_Cabinet(t *testing.T) {
	a := core.NewRecipe("A", "A", "", []string{"gin", "lime"})
	b := core.NewRecipe("B", "B", "", []string{"rum"})
	c := core.NewRecipe("C", "C", "", []string{"Gin"})
	rctx := &core.RecommendContext{Inventory: core.NewInventory("gin")}

	out, err := (&ModeNode{Mode: core.ModeCabinet}).Process(context.Background(), rctx, itemsOf(a, b, c))
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := byID(out)
	assert.InDelta(t, 50.0, got["A"].Score, 1e-9)
	assert.Contains(t, got["A"].Reason, "missing 1 ingredient")
	assert.InDelta(t, 100.0, got["C"].Score, 1e-9)
	assert.Equal(t, "you have all ingredients", got["C"].Reason)
	assert.NotContains(t, got, "B")

	assert.Equal(t, core.ModeCabinet, got["A"].Mode)
	assert.Equal(t, map[string]float64{"cabinet": 0.5}, got["A"].Components)
	assert.Equal(t, "cabinet", got["A"].Labels[utils.LabelMode].Value)
	assert.Equal(t, "0.5000", got["A"].Labels[utils.LabelComponentPfx+"cabinet"].Value)
}

func TestModeNode_PersonalizedRanksMadeRecipeFirst(t *testing.T) {
	margarita := core.NewRecipe("m", "Margarita", "Ordinary Drink", []string{"Tequila", "Triple sec", "Lime juice", "Salt"})
	others := []*core.Recipe{
		core.NewRecipe("1", "Mojito", "Cocktail", []string{"Rum", "Mint", "Soda water"}),
		core.NewRecipe("2", "Negroni", "Ordinary Drink", []string{"Gin", "Campari", "Sweet vermouth"}),
		core.NewRecipe("3", "Screwdriver", "Cocktail", []string{"Vodka", "Orange juice"}),
		core.NewRecipe("4", "Irish Coffee", "Coffee / Tea", []string{"Irish whiskey", "Coffee", "Cream"}),
	}
	catalog := append(append([]*core.Recipe{}, others...), margarita)
	now := time.Date(2024, 12, 6, 8, 0, 0, 0, time.UTC)
	rctx := &core.RecommendContext{
		Now:       now,
		Situation: core.ResolveSituation(now),
		Recipes:   catalog,
		Inventory: core.NewInventory("tequila", "triple sec", "lime juice", "salt"),
		History: core.BuildHistoryStats([]core.HistoryRecord{
			{CocktailName: "Margarita", MadeAt: now.Add(-48 * time.Hour)},
			{CocktailName: "Margarita", MadeAt: now.Add(-24 * time.Hour)},
		}, catalog, 5, 5),
	}

	out, err := (&ModeNode{Mode: core.ModePersonalized}).Process(context.Background(), rctx, itemsOf(catalog...))
	require.NoError(t, err)
	require.Len(t, out, 5)

	got := byID(out)
	for _, o := range others {
		assert.Greater(t, got["m"].Score, got[o.ID].Score, o.Name)
	}
	assert.Equal(t, "you have all ingredients", got["m"].Reason)
	assert.Len(t, got["m"].Components, 4)
}

func TestModeNode_PersonalizedFallbackReason(t *testing.T) {
	r := core.NewRecipe("x", "Odd", "", []string{"unobtainium"})
	out, err := (&ModeNode{Mode: core.ModePersonalized}).Process(context.Background(),
		&core.RecommendContext{Situation: core.Situation{TimeOfDay: core.Evening, Season: core.Summer, DayOfWeek: core.Mon}},
		itemsOf(r))
	require.NoError(t, err)
	require.Len(t, out, 1)
	// 只剩流行度基础分 0.5，且没有理由片段
	assert.InDelta(t, 5.0, out[0].Score, 1e-9)
	assert.Equal(t, ReasonForYou, out[0].Reason)
}

func TestModeNode_Trending(t *testing.T) {
	punch := core.NewRecipe("p", "Hot Toddy Punch", "Cocktail", []string{"Whiskey", "Honey", "Lemon", "Clove", "Cinnamon", "Hot water"})
	plain := core.NewRecipe("q", "Plain", "Shot", []string{"Vodka"})
	fri := time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC)
	rctx := &core.RecommendContext{Situation: core.ResolveSituation(fri)}

	out, err := (&ModeNode{Mode: core.ModeTrending}).Process(context.Background(), rctx, itemsOf(punch, plain))
	require.NoError(t, err)
	got := byID(out)

	// 情境 0.35 + 0.3 + 0.15 = 0.8；流行度 0.7
	assert.InDelta(t, (0.6*0.8+0.4*0.7)*100, got["p"].Score, 1e-9)
	assert.Equal(t, "popular this winter", got["p"].Reason)
	assert.InDelta(t, 0.4*0.5*100, got["q"].Score, 1e-9)
	assert.Equal(t, ReasonClassicFavorite, got["q"].Reason)
}

func TestModeNode_Similar(t *testing.T) {
	margarita := core.NewRecipe("m", "Margarita", "Ordinary Drink", []string{"Tequila", "Triple sec", "Lime juice"})
	tommy := core.NewRecipe("t", "Tommy's Margarita", "Cocktail", []string{"Tequila", "Agave syrup", "Lime juice"})
	sidecar := core.NewRecipe("s", "Sidecar", "Ordinary Drink", []string{"Cognac", "Triple sec", "Lemon juice"})
	mojito := core.NewRecipe("j", "Mojito", "Cocktail", []string{"Rum", "Mint"})
	catalog := []*core.Recipe{margarita, tommy, sidecar, mojito}

	t.Run("empty history yields nothing", func(t *testing.T) {
		rctx := &core.RecommendContext{Recipes: catalog, History: core.BuildHistoryStats(nil, catalog, 5, 5)}
		out, err := (&ModeNode{Mode: core.ModeSimilar}).Process(context.Background(), rctx, itemsOf(catalog...))
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("scores against favorites", func(t *testing.T) {
		hs := core.BuildHistoryStats([]core.HistoryRecord{
			{CocktailName: "Margarita"}, {CocktailName: "Margarita"}, {CocktailName: "Margarita"},
		}, catalog, 5, 5)
		rctx := &core.RecommendContext{Recipes: catalog, History: hs}

		out, err := (&ModeNode{Mode: core.ModeSimilar}).Process(context.Background(), rctx, itemsOf(catalog...))
		require.NoError(t, err)
		got := byID(out)

		assert.NotContains(t, got, "m", "favorite is not compared with itself")
		assert.NotContains(t, got, "j", "zero similarity is excluded")

		// 2/3 配料重合
		assert.InDelta(t, 200.0/3, got["t"].Score, 1e-9)
		assert.Equal(t, "similar to Margarita", got["t"].Reason)

		// 同类别 0.6 + 0.05*3 = 0.75 > 1/3 重合
		assert.InDelta(t, 75.0, got["s"].Score, 1e-9)
	})

	t.Run("category bonus is capped", func(t *testing.T) {
		records := make([]core.HistoryRecord, 20)
		for i := range records {
			records[i] = core.HistoryRecord{CocktailName: "Margarita"}
		}
		rctx := &core.RecommendContext{History: core.BuildHistoryStats(records, catalog, 5, 5)}
		out, err := (&ModeNode{Mode: core.ModeSimilar}).Process(context.Background(), rctx, itemsOf(sidecar))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.InDelta(t, 100.0, out[0].Score, 1e-9)
	})
}

func TestModeNode_UnknownMode(t *testing.T) {
	_, err := (&ModeNode{Mode: core.Mode(42)}).Process(context.Background(), &core.RecommendContext{},
		itemsOf(core.NewRecipe("a", "A", "", []string{"gin"})))
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}

func TestStrategyFor_AllModes(t *testing.T) {
	for _, m := range core.AllModes() {
		s, ok := StrategyFor(m)
		require.True(t, ok, m.String())
		assert.Equal(t, m, s.Mode())
	}
}

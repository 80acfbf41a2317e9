package rerank

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/barkeep/core"
)

func scored(id string, index int, score float64, category string) *core.Item {
	it := core.NewItem(core.NewRecipe(id, id, category, []string{"x"}), index)
	it.Score = score
	return it
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRanker_SortsWithCatalogOrderTiebreak(t *testing.T) {
	items := []*core.Item{
		scored("c", 2, 50, ""),
		scored("a", 0, 50, ""),
		scored("d", 3, 90, ""),
		nil,
		scored("b", 1, 10, ""),
	}
	out, err := (&Ranker{N: 10}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(out))
}

func TestRanker_DedupesKeepingHighest(t *testing.T) {
	items := []*core.Item{
		scored("a", 0, 10, ""),
		scored("b", 1, 20, ""),
		scored("a", 2, 30, ""),
	}
	out, err := (&Ranker{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ids(out))
	assert.Equal(t, 30.0, out[0].Score)
}

func TestRanker_Truncates(t *testing.T) {
	var items []*core.Item
	for i := 0; i < 25; i++ {
		items = append(items, scored(fmt.Sprintf("r%02d", i), i, float64(i), ""))
	}

	out, err := (&Ranker{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Len(t, out, DefaultN)
	assert.Equal(t, "r24", out[0].ID)

	out, err = (&Ranker{N: 3}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"r24", "r23", "r22"}, ids(out))
}

func TestRanker_Empty(t *testing.T) {
	out, err := (&Ranker{N: 5}).Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{scored("a", 0, 3, ""), scored("b", 1, 2, ""), scored("c", 2, 1, "")}

	out, _ := (&TopNNode{N: 2}).Process(context.Background(), nil, items)
	assert.Equal(t, []string{"a", "b"}, ids(out))

	out, _ = (&TopNNode{}).Process(context.Background(), nil, items)
	assert.Len(t, out, 3)
}

func TestDiversity_LimitsPerCategory(t *testing.T) {
	items := []*core.Item{
		scored("a", 0, 5, "Cocktail"),
		scored("b", 1, 4, "cocktail"),
		scored("c", 2, 3, "Shot"),
		scored("d", 3, 2, ""),
		scored("e", 4, 1, "Cocktail"),
	}

	out, err := (&Diversity{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, ids(out))

	out, err = (&Diversity{MaxPerCategory: 2}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(out))
}

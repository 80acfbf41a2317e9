package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/barkeep/core"
)

// AlcoholPreference 是用户的含酒精偏好。
type AlcoholPreference string

const (
	AlcoholAny          AlcoholPreference = "any"
	AlcoholOnly         AlcoholPreference = "alcoholic"
	AlcoholNonAlcoholic AlcoholPreference = "non_alcoholic"
)

// ParseAlcoholPreference 解析偏好，空串视为 any。
func ParseAlcoholPreference(s string) (AlcoholPreference, error) {
	switch p := AlcoholPreference(s); p {
	case "", AlcoholAny:
		return AlcoholAny, nil
	case AlcoholOnly, AlcoholNonAlcoholic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown alcohol preference %q", s)
	}
}

// AlcoholFilter 按含酒精偏好过滤。
type AlcoholFilter struct {
	Preference AlcoholPreference
}

func (f *AlcoholFilter) Name() string {
	return "filter.alcohol"
}

func (f *AlcoholFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Recipe == nil {
		return true, nil
	}
	switch f.Preference {
	case AlcoholOnly:
		return !item.Recipe.IsAlcoholic(), nil
	case AlcoholNonAlcoholic:
		return item.Recipe.IsAlcoholic(), nil
	default:
		return false, nil
	}
}

package core

// RankConfig 是排序相关的配置接口，用于提供默认值。
type RankConfig interface {
	// DefaultTopN 每个模式输出的最大条数
	DefaultTopN() int

	// DefaultFavoriteCount 参与类别加分/相似推荐的偏爱配方数
	DefaultFavoriteCount() int

	// DefaultTopIngredientCount 常用配料数
	DefaultTopIngredientCount() int
}

// DefaultRankConfig 是默认的排序配置实现。
type DefaultRankConfig struct{}

func (c *DefaultRankConfig) DefaultTopN() int {
	return 10
}

func (c *DefaultRankConfig) DefaultFavoriteCount() int {
	return 5
}

func (c *DefaultRankConfig) DefaultTopIngredientCount() int {
	return 5
}

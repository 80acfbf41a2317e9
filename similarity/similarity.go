// Package similarity 计算配方之间的配料重合度与类别匹配。
package similarity

import "github.com/rushteam/barkeep/core"

// OverlapRatio 返回 |a ∩ b| / max(|a|, |b|)。
// 两个集合的 key 必须已经过 core.NormalizeName；任一集合为空时返回 0。
func OverlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var inter int
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(large))
}

// OverlapNames 与 OverlapRatio 相同，但接受原始配料名（大小写不敏感，忽略首尾空白）。
func OverlapNames(a, b []string) float64 {
	return OverlapRatio(NameSet(a), NameSet(b))
}

// NameSet 把配料名规整为集合，空名被忽略。
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := core.NormalizeName(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// CategoryMatches 比较规整后的类别；任一方缺失类别时不算匹配。
func CategoryMatches(a, b *core.Recipe) bool {
	if a == nil || b == nil {
		return false
	}
	ca := a.NormalizedCategory()
	return ca != "" && ca == b.NormalizedCategory()
}

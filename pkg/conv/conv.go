// Package conv 读取 YAML/JSON 解析出的节点配置（map[string]any）。
package conv

import "strconv"

// ConfigGet 按 key 取 T 类型的值；缺失或类型不符时返回 def。
func ConfigGet[T any](m map[string]any, key string, def T) T {
	if v, ok := m[key].(T); ok {
		return v
	}
	return def
}

// ConfigGetInt64 取整数配置。yaml.v3 解出 int，JSON 解出 float64，两者都接受。
func ConfigGetInt64(m map[string]any, key string, def int64) int64 {
	switch v := m[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	}
	return def
}

// SliceAnyToString 把 []any 转为 []string：字符串原样保留，整数与浮点数按整数格式化，其他元素丢弃。
// v 不是 []any 时返回 nil。
func SliceAnyToString(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		switch x := e.(type) {
		case string:
			out = append(out, x)
		case int:
			out = append(out, strconv.Itoa(x))
		case int64:
			out = append(out, strconv.FormatInt(x, 10))
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', 0, 64))
		}
	}
	return out
}

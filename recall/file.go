package recall

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/barkeep/core"
)

// FileCatalog 从 JSON 文件读取配方目录，文件未变化（mtime + size）时复用上次解析结果，
// 从而保持 *core.Recipe 指针稳定，特征缓存可以命中。
//
// 支持两种布局：
//
//	[{"id": "1", "name": "Mojito", "category": "Cocktail", "ingredients": ["Rum", "Mint"]}]
//	{"drinks": [{"idDrink": "1", "strDrink": "Mojito", "strIngredient1": "Rum", ...}]}
//
// 解析是宽松的：
//   - 配料字段无法解析的记录保留，按零配料处理
//   - 缺少 id 的记录被跳过
//   - 重复 id 保留第一条
type FileCatalog struct {
	Path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	cached  []*core.Recipe
}

// NewFileCatalog 创建文件目录来源。
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{Path: path}
}

func (c *FileCatalog) Name() string { return "file:" + c.Path }

func (c *FileCatalog) Recipes(ctx context.Context) ([]*core.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := os.Stat(c.Path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "stat "+c.Path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && st.ModTime().Equal(c.modTime) && st.Size() == c.size {
		return append([]*core.Recipe(nil), c.cached...), nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "read "+c.Path, err)
	}
	recipes, err := DecodeCatalog(data)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "decode "+c.Path, err)
	}
	c.cached, c.modTime, c.size = recipes, st.ModTime(), st.Size()
	return append([]*core.Recipe(nil), recipes...), nil
}

// DecodeCatalog 解析目录 JSON。只有整体结构无法解析时才返回错误。
func DecodeCatalog(data []byte) ([]*core.Recipe, error) {
	data = bytes.TrimSpace(data)
	var raw []map[string]json.RawMessage
	switch {
	case len(data) == 0:
		return []*core.Recipe{}, nil
	case data[0] == '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	default:
		var wrapped struct {
			Drinks  []map[string]json.RawMessage `json:"drinks"`
			Recipes []map[string]json.RawMessage `json:"recipes"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		raw = append(wrapped.Drinks, wrapped.Recipes...)
	}

	out := make([]*core.Recipe, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, rec := range raw {
		r := decodeRecipe(rec)
		if r == nil {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func decodeRecipe(rec map[string]json.RawMessage) *core.Recipe {
	r := core.NewRecipe(str(rec, "id", "idDrink"), str(rec, "name", "strDrink"), str(rec, "category", "strCategory"), decodeIngredients(rec))
	if r.ID == "" {
		return nil
	}
	r.Glass = str(rec, "glass", "strGlass")
	r.Alcoholic = str(rec, "alcoholic", "strAlcoholic")
	r.IBA = str(rec, "iba", "strIBA")
	return r
}

// str 读取第一个存在的字符串字段；数字会被格式化，其它类型视为缺失。
func str(rec map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return ""
}

// decodeIngredients 支持字符串数组、对象数组（name / ingredient 字段）以及 strIngredient1..15。
func decodeIngredients(rec map[string]json.RawMessage) []string {
	if v, ok := rec["ingredients"]; ok {
		var names []string
		if err := json.Unmarshal(v, &names); err == nil {
			return names
		}
		var objs []struct {
			Name       string `json:"name"`
			Ingredient string `json:"ingredient"`
		}
		if err := json.Unmarshal(v, &objs); err == nil {
			names = make([]string, 0, len(objs))
			for _, o := range objs {
				if o.Name != "" {
					names = append(names, o.Name)
				} else {
					names = append(names, o.Ingredient)
				}
			}
			return names
		}
		return nil
	}

	var names []string
	for i := 1; i <= core.MaxIngredients; i++ {
		if s := str(rec, "strIngredient"+strconv.Itoa(i)); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// FileHistory 从 JSON 文件读取调制历史（HistoryRecord 数组）。文件不存在视为空历史。
type FileHistory struct {
	Path string
}

func (h FileHistory) History(ctx context.Context) ([]core.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []core.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", h.Path, err)
	}
	return records, nil
}

// FileInventory 从 JSON 文件读取酒柜（配料名数组）。文件不存在视为空酒柜。
type FileInventory struct {
	Path string
}

func (f FileInventory) Inventory(ctx context.Context) (core.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return core.Inventory{}, err
	}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return core.NewInventory(), nil
	}
	if err != nil {
		return core.Inventory{}, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return core.Inventory{}, fmt.Errorf("parse inventory %s: %w", f.Path, err)
	}
	return core.NewInventory(names...), nil
}

var (
	_ Source               = (*FileCatalog)(nil)
	_ core.HistorySource   = FileHistory{}
	_ core.InventorySource = FileInventory{}
)

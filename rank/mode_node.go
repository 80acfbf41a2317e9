package rank

import (
	"context"
	"strconv"

	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/feature"
	"github.com/rushteam/barkeep/model"
	"github.com/rushteam/barkeep/pipeline"
	"github.com/rushteam/barkeep/pkg/utils"
)

// ModeNode 按某个推荐模式给候选配方打分。
//   - 更新 item.Score / Reason / Mode / Components
//   - 写入 labels：mode、reason、component_<kind>
//   - 丢弃本模式不接受的配方（分数 <= 0）
//
// 不排序，排序与截断由 rerank.Ranker 完成。
type ModeNode struct {
	Mode core.Mode

	// Scorers 为 nil 时使用 model.DefaultSet()
	Scorers *model.Set

	// Extractor 为 nil 时使用 feature.DefaultExtractor
	Extractor feature.Extractor
}

func (n *ModeNode) Name() string        { return "rank.mode" }
func (n *ModeNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModeNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	strategy, ok := StrategyFor(n.Mode)
	if !ok {
		return nil, core.ErrUnknownMode
	}
	scorers := n.Scorers
	if scorers == nil {
		scorers = model.DefaultSet()
	}
	extractor := n.Extractor
	if extractor == nil {
		extractor = feature.NewDefaultExtractor()
	}

	env := NewEnv(rctx, extractor)
	kinds := strategy.Kinds()
	modeLabel := utils.Label{Value: n.Mode.String(), Source: "rank"}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Recipe == nil {
			continue
		}
		f := extractor.Extract(it.Recipe)
		cs := scorers.Score(rctx, f, kinds...)
		score, reason, ok := strategy.Score(env, f, cs)
		if !ok || score <= 0 {
			continue
		}

		it.Score = score
		it.Reason = reason
		it.Mode = n.Mode
		if it.Components == nil {
			it.Components = make(map[string]float64, len(kinds))
		}
		for _, k := range kinds {
			c := cs.Get(k)
			it.Components[k.String()] = c.Value
			it.PutLabel(utils.LabelComponentPfx+k.String(), utils.Label{
				Value:  strconv.FormatFloat(c.Value, 'f', 4, 64),
				Source: "rank",
			})
		}
		it.PutLabel(utils.LabelMode, modeLabel)
		it.PutLabel(utils.LabelReason, utils.Label{Value: reason, Source: "rank"})
		out = append(out, it)
	}
	return out, nil
}

// Package barkeep 是一个鸡尾酒推荐引擎。
//
// 设计要点：
// - Pipeline-first: 每种推荐模式都是一条 Node 链（Recall → Filter → Rank → ReRank）
// - Labels-first: 打分分量与理由以 label 形式透传，输出时汇总为推荐理由
// - 快照发布：engine 每个日历日至多重算一次，所有模式的列表原子替换
package barkeep

import (
	"github.com/rushteam/barkeep/core"
	"github.com/rushteam/barkeep/pipeline"
)

// 轻量 facade：便于直接 import "barkeep" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Mode = core.Mode
type Recommendation = core.Recommendation

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

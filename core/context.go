package core

import (
	"time"

	"github.com/rushteam/barkeep/pkg/utils"
)

// TimeOfDay 是按小时划分的时段。
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // [6,12)
	Afternoon TimeOfDay = "afternoon" // [12,17)
	Evening   TimeOfDay = "evening"   // [17,21)
	Night     TimeOfDay = "night"     // 其余
)

// Season 按月份划分（北半球）。
type Season string

const (
	Spring Season = "spring" // 3-5
	Summer Season = "summer" // 6-8
	Fall   Season = "fall"   // 9-11
	Winter Season = "winter" // 12-2
)

// Weekday 是 mon..sun 的短名。
type Weekday string

const (
	Mon Weekday = "mon"
	Tue Weekday = "tue"
	Wed Weekday = "wed"
	Thu Weekday = "thu"
	Fri Weekday = "fri"
	Sat Weekday = "sat"
	Sun Weekday = "sun"
)

var weekdays = [...]Weekday{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// IsWeekendEve 判断是否为周五/周六。
func (d Weekday) IsWeekendEve() bool {
	return d == Fri || d == Sat
}

// Situation 是一次运行的情境快照，值类型，计算后不再修改。
type Situation struct {
	TimeOfDay TimeOfDay `json:"time_of_day"`
	DayOfWeek Weekday   `json:"day_of_week"`
	Season    Season    `json:"season"`
}

// ResolveSituation 由时间点推导情境。使用 t 自身的时区；
// 边界按左闭右开处理，例如 12:00 属于 afternoon。
func ResolveSituation(t time.Time) Situation {
	return Situation{
		TimeOfDay: timeOfDay(t.Hour()),
		DayOfWeek: weekdays[t.Weekday()],
		Season:    season(t.Month()),
	}
}

func timeOfDay(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

func season(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// RecommendContext 承载一次刷新所需的全部输入，贯穿所有模式的 Pipeline 透传。
// 一次运行内只读；每次运行都会新建。
type RecommendContext struct {
	// Now 是本次运行的时间点
	Now       time.Time
	Situation Situation

	// Recipes 是本次运行的目录快照，顺序即目录顺序（排序的 tiebreak）
	Recipes   []*Recipe
	Inventory Inventory
	History   *HistoryStats

	// Labels 是运行级标签，可驱动 Pipeline 行为（例如实验桶）
	Labels map[string]utils.Label

	// Params 运行级参数（例如 CEL 过滤表达式中可访问的 ctx.params）
	Params map[string]any
}

// PutLabel 写入运行级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取运行级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

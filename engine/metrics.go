package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 刷新结果
const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics 是引擎的 Prometheus 指标。reg 为 nil 时创建但不注册。
type Metrics struct {
	refreshes *prometheus.CounterVec
	cacheHits prometheus.Counter
	duration  prometheus.Histogram
	listSize  *prometheus.GaugeVec
}

// NewMetrics 创建并注册指标。同一个 Registerer 只能注册一次。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "barkeep_refresh_total",
			Help: "Total number of recommendation refresh passes by result",
		}, []string{"result"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "barkeep_refresh_cache_hits_total",
			Help: "Total number of generate calls served from the published snapshot",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "barkeep_refresh_duration_seconds",
			Help:    "Refresh pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		listSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "barkeep_recommendations",
			Help: "Number of recommendations in the published snapshot by mode",
		}, []string{"mode"}),
	}
}

package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})

	AnalysisCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed",
	})

	AnalysisFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total analyses failed",
	}, []string{"reason"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "Analysis duration in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	AnalysisScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_ats_score",
		Help:    "Distribution of ATS scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_cache_lookups_total",
		Help: "Analysis cache lookups by result",
	}, []string{"result"})

	SuggestionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "suggestions_applied_total",
		Help: "Suggestions applied by type",
	}, []string{"type"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"group"})

	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_panics_recovered_total",
		Help: "Handler panics turned into 500 responses, by route",
	}, []string{"route"})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	AnalysisStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter and records the score.
func IncAnalysisCompleted(score int) {
	AnalysisCompleted.Inc()
	AnalysisScore.Observe(float64(score))
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed(reason string) {
	AnalysisFailed.WithLabelValues(reason).Inc()
}

// ObserveAnalysisDuration records how long an analysis took.
func ObserveAnalysisDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	AnalysisDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// ObserveCache records a cache hit or miss.
func ObserveCache(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// IncSuggestionApplied counts an applied suggestion type.
func IncSuggestionApplied(kind string) {
	SuggestionsApplied.WithLabelValues(kind).Inc()
}

// IncRateLimited counts a rejected request.
func IncRateLimited(group string) {
	RateLimited.WithLabelValues(group).Inc()
}

// IncPanicRecovered counts a recovered handler panic.
func IncPanicRecovered(route string) {
	PanicsRecovered.WithLabelValues(route).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

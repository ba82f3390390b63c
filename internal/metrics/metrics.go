// metrics описывает prometheus-метрики пайплайна briefing-service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Runs — счётчик завершённых запусков по категории и исходу.
	// Исход: succeeded, succeeded_degraded, no_content, generation_error,
	// publish_error, timeout.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefing",
		Name:      "pipeline_runs_total",
		Help:      "Completed pipeline runs by category and outcome.",
	}, []string{"category", "outcome"})

	// StageDuration — длительность стадий пайплайна.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "briefing",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Pipeline stage duration by category and stage.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"category", "stage"})

	// FeedErrors — счётчик лент, завершившихся ошибкой.
	FeedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefing",
		Name:      "feed_errors_total",
		Help:      "Feed fetches that failed, by category.",
	}, []string{"category"})
)

// ObserveStage фиксирует длительность стадии.
func ObserveStage(category, stage string, start time.Time) {
	StageDuration.WithLabelValues(category, stage).Observe(time.Since(start).Seconds())
}

// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefinementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goal_refinements_total",
			Help: "Total number of refinement attempts by outcome",
		},
		[]string{"outcome"},
	)

	RefinementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goal_refinement_duration_seconds",
			Help:    "Duration of one model invocation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	PromptTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_prompt_tokens_total",
			Help: "Total prompt tokens consumed across invocations",
		},
	)

	CompletionTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_completion_tokens_total",
			Help: "Total completion tokens consumed across invocations",
		},
	)

	EstimatedCostUSD = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_estimated_cost_usd_total",
			Help: "Estimated cumulative model spend in USD",
		},
	)
)

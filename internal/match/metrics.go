package match

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_interactions_total",
			Help: "Total number of like/skip actions recorded",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_matches_total",
			Help: "Total number of reciprocal matches completed",
		},
	)

	hobbyScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_hobby_scores",
			Help:    "Distribution of hobby overlap scores served to users",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		},
	)
)

func RecordInteraction(action string) {
	interactionsTotal.WithLabelValues(action).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordHobbyScore(score int) {
	hobbyScores.Observe(float64(score))
}

package services

import "github.com/prometheus/client_golang/prometheus"

var (
	challengeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyhub_challenge_events_total",
			Help: "Successful challenge mutations by kind",
		},
		[]string{"event"},
	)
	focusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyhub_focus_transitions_total",
			Help: "Focus session state transitions by target state",
		},
		[]string{"status"},
	)
	plantGrowth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studyhub_focus_plant_growth",
			Help:    "Plant growth awarded on session completion",
			Buckets: []float64{0, 0.33, 0.66, 1},
		},
	)
	leaderboardLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyhub_leaderboard_lookups_total",
			Help: "Leaderboard reads by cache result",
		},
		[]string{"result"},
	)
)

// Collectors returns the domain metrics for registration next to the HTTP ones.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{challengeEvents, focusTransitions, plantGrowth, leaderboardLookups}
}

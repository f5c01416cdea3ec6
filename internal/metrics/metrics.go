package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "social",
		Name:      "votes_total",
		Help:      "Votes applied, by target kind, vote type and outcome.",
	}, []string{"target", "type", "outcome"})

	VoteConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "social",
		Name:      "vote_conflicts_total",
		Help:      "Vote writes rejected because the item changed after it was read.",
	}, []string{"target"})

	LiveSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "social",
		Name:      "live_subscriptions",
		Help:      "Open live snapshot subscriptions, by kind.",
	}, []string{"kind"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "social",
		Name:      "events_published_total",
		Help:      "Domain events published to the message broker.",
	}, []string{"queue", "outcome"})
)

package simulation

import "github.com/prometheus/client_golang/prometheus"

// Metrics may be shared by concurrent simulation runs.
type Metrics struct {
	// Runs is the number of completed runs labelled by outcome.
	Runs *prometheus.CounterVec

	// Rounds is the distribution of rounds per completed run.
	Rounds prometheus.Histogram

	// Exchanges is the total number of pairwise reconciliation exchanges.
	Exchanges prometheus.Counter

	// Votes is the total number of self-votes cast.
	Votes prometheus.Counter

	// QuorumNodes is the total number of nodes that reached quorum.
	QuorumNodes prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rumour",
				Subsystem: "simulation",
				Name:      "runs_total",
				Help:      "Total number of completed simulation runs",
			},
			[]string{"outcome"},
		),
		Rounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "rumour",
				Subsystem: "simulation",
				Name:      "rounds",
				Help:      "Number of rounds per simulation run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		Exchanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rumour",
				Subsystem: "simulation",
				Name:      "exchanges_total",
				Help:      "Total number of pairwise reconciliation exchanges",
			},
		),
		Votes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rumour",
				Subsystem: "simulation",
				Name:      "votes_total",
				Help:      "Total number of votes cast by designated voters",
			},
		),
		QuorumNodes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rumour",
				Subsystem: "simulation",
				Name:      "quorum_nodes_total",
				Help:      "Total number of nodes that reached quorum",
			},
		),
	}
}

func (m *Metrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		m.Runs,
		m.Rounds,
		m.Exchanges,
		m.Votes,
		m.QuorumNodes,
	)
}

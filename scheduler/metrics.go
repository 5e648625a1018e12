package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datverify",
		Subsystem: "scheduler",
		Name:      "challenges_total",
		Help:      "Number of challenges by outcome (issued, cleared, failed)",
	}, []string{"outcome"})

	pendingChallengesMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "datverify",
		Subsystem: "scheduler",
		Name:      "pending_challenges",
		Help:      "Number of challenges awaiting a proof",
	})

	proofsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datverify",
		Subsystem: "scheduler",
		Name:      "proofs_total",
		Help:      "Number of submitted proofs by result",
	}, []string{"result"})

	datsMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "datverify",
		Subsystem: "scheduler",
		Name:      "dats",
		Help:      "Number of registered dats",
	})
)

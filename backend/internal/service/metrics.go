package service

import (
	"github.com/itchan-dev/boardsync/shared/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reindexTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "reindex_total",
			Help:      "Containers whose order keys were respaced after the key space ran out",
		},
		[]string{"container"},
	)

	conflictRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "mutation_conflict_retries_total",
			Help:      "Mutations retried after a storage write conflict",
		},
		[]string{"operation"},
	)

	conflictExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "mutation_conflict_exhausted_total",
			Help:      "Mutations that hit a write conflict on the retry as well",
		},
		[]string{"operation"},
	)
)

package broadcast

import (
	"github.com/itchan-dev/boardsync/shared/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "events_published_total",
			Help:      "Board events handed to the pub/sub transport",
		},
		[]string{"entity_type"},
	)

	publishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "event_publish_failures_total",
			Help:      "Board events that could not be published",
		},
		[]string{"entity_type"},
	)
)

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pages_total",
			Help: "Total number of feed pages served",
		},
		[]string{"source"},
	)

	likeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_like_toggles_total",
			Help: "Total number of like toggles",
		},
		[]string{"result"},
	)

	feedFanOutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fanout_events_total",
			Help: "Total number of feed events delivered to followers",
		},
		[]string{"action", "transport"},
	)

	sagaCompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Total number of executed saga compensations",
		},
		[]string{"saga", "step"},
	)
)

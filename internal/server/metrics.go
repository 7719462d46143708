package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsgenius_actions_total",
		Help: "User actions processed, by action.",
	}, []string{"action"})

	actionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsgenius_action_failures_total",
		Help: "User actions that surfaced an error, by action.",
	}, []string{"action"})
)

func observe(action string, err error) {
	actionsTotal.WithLabelValues(action).Inc()
	if err != nil {
		actionFailures.WithLabelValues(action).Inc()
	}
}

// Package metrics holds the prometheus collectors shared by the agent's services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_events_received_total",
		Help: "Websocket events published on the bus, by type.",
	}, []string{"type"})

	EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_events_applied_total",
		Help: "Events patched into a local store.",
	}, []string{"store", "type"})

	EventsMissed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_events_missed_total",
		Help: "Events whose entity was not found in a local store.",
	}, []string{"store", "policy"})

	Refetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_refetches_total",
		Help: "Full refetches of a store from the REST API, by reason.",
	}, []string{"store", "reason"})

	Rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_optimistic_rollbacks_total",
		Help: "Optimistic local changes reverted after a failed request.",
	}, []string{"action"})

	NotificationsQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamvault_agent_notifications_queued",
		Help: "Notifications currently held in the live queue.",
	})

	NotificationsEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamvault_agent_notifications_removed_total",
		Help: "Notifications removed from the live queue, by reason.",
	}, []string{"reason"})

	WSReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamvault_agent_ws_reconnects_total",
		Help: "Websocket reconnect attempts.",
	})
)

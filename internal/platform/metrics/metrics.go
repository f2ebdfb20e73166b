package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions tracks the number of registered player sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_server_active_sessions",
		Help: "The number of registered player sessions",
	})

	// AuthenticatedSessions tracks sessions bound to an account.
	AuthenticatedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_server_authenticated_sessions",
		Help: "The number of sessions with an authenticated account",
	})

	// CommandsTotal counts processed commands by type and outcome.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_commands_total",
		Help: "The total number of processed commands",
	}, []string{"command", "outcome"})

	// CommandDuration measures command handling latency.
	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "game_server_command_duration_seconds",
		Help:    "The command handling duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	// EventsPublishedTotal counts domain events by type.
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_events_published_total",
		Help: "The total number of published domain events",
	}, []string{"event"})

	// EventHandlerFailuresTotal counts subscriber errors and panics.
	EventHandlerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_event_handler_failures_total",
		Help: "The total number of event handler failures",
	}, []string{"event"})

	// LoginAttemptsTotal counts login attempts by status.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// DatabaseOperationsTotal counts repository operations.
	DatabaseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_database_operations_total",
		Help: "The total number of database operations",
	}, []string{"operation", "status"})

	// CacheOperationsTotal counts character cache hits and misses.
	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_cache_operations_total",
		Help: "The total number of cache operations",
	}, []string{"operation", "status"})

	// RelayPublishTotal counts events relayed to the broker.
	RelayPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_server_relay_publish_total",
		Help: "The total number of events relayed to the message broker",
	}, []string{"status"})
)

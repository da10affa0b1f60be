package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis Metrics
var (
	// AnalysesTotal tracks analysis requests by entry point and resulting action
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total analyses by entry point (analyze/decision) and resulting action",
		},
		[]string{"entrypoint", "action"},
	)

	// AnalysisDuration tracks end-to-end analysis latency including preference resolution
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Analysis duration in seconds by entry point",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"entrypoint"},
	)

	// CategoryBreaches tracks threshold breaches by category
	CategoryBreaches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_breaches_total",
			Help: "Total threshold breaches by matched category",
		},
		[]string{"category"},
	)
)

// Preference Cache Metrics (in-memory layer)
var (
	// PrefCacheHits tracks in-memory preference cache hits
	PrefCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pref_cache_hits_total",
			Help: "Total in-memory preference cache hits",
		},
	)

	// PrefCacheMisses tracks in-memory preference cache misses
	PrefCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pref_cache_misses_total",
			Help: "Total in-memory preference cache misses",
		},
	)

	// PrefCacheEvictions tracks expired entries removed by the eviction timer
	PrefCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pref_cache_evictions_total",
			Help: "Total expired in-memory preference cache entries evicted",
		},
	)

	// PrefCacheSize tracks current number of cached preference entries
	PrefCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pref_cache_size",
			Help: "Current number of in-memory preference cache entries",
		},
	)
)

// Redis Cache Metrics (read-through layer)
var (
	// RedisCacheHits tracks Redis preference cache hits
	RedisCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_hits_total",
			Help: "Total Redis preference cache hits",
		},
	)

	// RedisCacheMisses tracks Redis preference cache misses (fell through to Postgres)
	RedisCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_misses_total",
			Help: "Total Redis preference cache misses",
		},
	)
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by command and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks query latency by query type
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds by query type",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query type
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query type",
		},
		[]string{"query"},
	)
)

// Decision Feed Metrics
var (
	// FeedConnectionsCurrent tracks current active decision feed connections
	FeedConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_connections_current",
			Help: "Current number of active decision feed WebSocket connections",
		},
	)

	// FeedConnectionsTotal tracks total feed connection attempts by result
	FeedConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_connections_total",
			Help: "Total decision feed connection attempts by result (success/error)",
		},
		[]string{"result"},
	)

	// FeedDecisionsPublished tracks decisions pushed to the feed
	FeedDecisionsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_decisions_published_total",
			Help: "Total decisions published to the live feed",
		},
	)

	// FeedSlowClientsDropped tracks slow clients dropped due to full send buffers
	FeedSlowClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_slow_clients_dropped_total",
			Help: "Total decision feed clients dropped due to full send buffer",
		},
	)

	// FeedPingFailures tracks keepalive pings that could not be written
	FeedPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_ping_failures_total",
			Help: "Total keepalive ping write failures on feed connections",
		},
	)
)

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Matchmaking Metrics (component A/B/E)
	MatchmakingRequestsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_requests_submitted_total",
			Help: "Total match requests submitted to the queue",
		},
		[]string{"game", "mode", "region"},
	)

	MatchmakingRequestsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_requests_cancelled_total",
			Help: "Total match requests cancelled before a match formed",
		},
		[]string{"game", "mode", "reason"},
	)

	MatchmakingQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matchmaking_queue_depth",
			Help: "Current number of requests waiting in a (game, mode, region) bucket",
		},
		[]string{"game", "mode", "region"},
	)

	MatchmakingWaitTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchmaking_wait_seconds",
			Help:    "Time a request spent searching before a match formed or it was cancelled",
			Buckets: []float64{1, 5, 15, 30, 60, 90, 120, 180, 300, 600},
		},
		[]string{"game", "mode", "region", "outcome"},
	)

	MatchmakingMatchesFormed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_matches_formed_total",
			Help: "Total matches formed by the formation engine",
		},
		[]string{"game", "mode", "region"},
	)

	MatchmakingTickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchmaking_tick_duration_seconds",
			Help:    "Duration of one coordinator tick across all buckets",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"outcome"},
	)

	// Lobby Metrics (component F)
	LobbyCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_created_total",
			Help: "Total lobbies created from a formed match",
		},
		[]string{"game"},
	)

	LobbyActiveCurrent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lobby_active_current",
			Help: "Current lobbies by lifecycle status",
		},
		[]string{"game", "status"},
	)

	LobbyAutoCloseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_auto_close_total",
			Help: "Lobbies auto-closed after falling below the capacity minimum",
		},
		[]string{"game"},
	)

	LobbyLifecycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lobby_lifecycle_seconds",
			Help:    "Time from lobby formation to close",
			Buckets: []float64{30, 60, 120, 180, 300, 600, 900, 1800},
		},
		[]string{"game", "outcome"},
	)

	// Chat Metrics (component G)
	ChatMessagesPostedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_posted_total",
			Help: "Total chat messages posted to a lobby channel",
		},
		[]string{"content_type"},
	)

	// Notification Metrics (component H)
	NotificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total notifications created",
		},
		[]string{"type", "priority"},
	)

	NotificationDeliveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_total",
			Help: "Total notification delivery attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	NotificationRetryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_retry_total",
			Help: "Total notification delivery retries",
		},
		[]string{"channel", "attempt"},
	)

	// Kafka Metrics (component I cross-replica relay)
	KafkaMessagesProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic"},
	)

	KafkaMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		},
		[]string{"topic", "consumer_group"},
	)

	KafkaDLQTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_dlq_messages_total",
			Help: "Messages sent to the dead letter queue",
		},
		[]string{"original_topic", "error_type"},
	)

	// WebSocket Metrics (component I socket fan-out)
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_current",
			Help: "Current WebSocket connections on this replica",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total WebSocket messages sent",
		},
		[]string{"event_type"},
	)

	WebSocketSendBufferDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_send_buffer_dropped_total",
			Help: "Messages dropped because a client's send buffer was full",
		},
		[]string{"room_kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrapped.statusCode)
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func normalizePath(path string) string {
	if len(path) > 50 {
		return path[:50]
	}
	return path
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordDBOperation(operation, collection string, duration time.Duration) {
	DatabaseOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

func RecordMatchmakingRequestSubmitted(game, mode, region string) {
	MatchmakingRequestsSubmitted.WithLabelValues(game, mode, region).Inc()
}

func RecordMatchmakingRequestCancelled(game, mode, reason string) {
	MatchmakingRequestsCancelled.WithLabelValues(game, mode, reason).Inc()
}

func SetMatchmakingQueueDepth(game, mode, region string, depth int) {
	MatchmakingQueueDepth.WithLabelValues(game, mode, region).Set(float64(depth))
}

func RecordMatchmakingWaitTime(game, mode, region, outcome string, d time.Duration) {
	MatchmakingWaitTime.WithLabelValues(game, mode, region, outcome).Observe(d.Seconds())
}

func RecordMatchmakingMatchFormed(game, mode, region string) {
	MatchmakingMatchesFormed.WithLabelValues(game, mode, region).Inc()
}

func RecordMatchmakingTickDuration(outcome string, d time.Duration) {
	MatchmakingTickDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func RecordLobbyCreated(game string) {
	LobbyCreatedTotal.WithLabelValues(game).Inc()
}

// AddLobbyActive adjusts the current-lobbies-by-status gauge; callers pass
// -1 when a lobby leaves a status and +1 when it enters one.
func AddLobbyActive(game, status string, delta float64) {
	LobbyActiveCurrent.WithLabelValues(game, status).Add(delta)
}

func RecordLobbyAutoClose(game string) {
	LobbyAutoCloseTotal.WithLabelValues(game).Inc()
}

func RecordLobbyLifecycle(game, outcome string, d time.Duration) {
	LobbyLifecycleDuration.WithLabelValues(game, outcome).Observe(d.Seconds())
}

func RecordChatMessagePosted(contentType string) {
	ChatMessagesPostedTotal.WithLabelValues(contentType).Inc()
}

func RecordNotificationCreated(notificationType, priority string) {
	NotificationsCreatedTotal.WithLabelValues(notificationType, priority).Inc()
}

func RecordNotificationDelivery(channel, outcome string) {
	NotificationDeliveryTotal.WithLabelValues(channel, outcome).Inc()
}

func RecordNotificationRetry(channel string, attempt int) {
	NotificationRetryTotal.WithLabelValues(channel, strconv.Itoa(attempt)).Inc()
}

func RecordKafkaMessageProduced(topic string) {
	KafkaMessagesProduced.WithLabelValues(topic).Inc()
}

func RecordKafkaMessageConsumed(topic, consumerGroup string) {
	KafkaMessagesConsumed.WithLabelValues(topic, consumerGroup).Inc()
}

func RecordKafkaDLQ(originalTopic, errorType string) {
	KafkaDLQTotal.WithLabelValues(originalTopic, errorType).Inc()
}

func IncWebSocketConnections() { WebSocketConnections.Inc() }
func DecWebSocketConnections() { WebSocketConnections.Dec() }

func RecordWebSocketMessageSent(eventType string) {
	WebSocketMessagesSent.WithLabelValues(eventType).Inc()
}

func RecordWebSocketSendBufferDropped(roomKind string) {
	WebSocketSendBufferDropped.WithLabelValues(roomKind).Inc()
}

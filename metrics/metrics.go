package metrics

import (
	"VidPlayer/core/outcome"
	"VidPlayer/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics
var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidplayer_operations_total",
			Help: "Total number of session operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidplayer_events_total",
			Help: "Total number of session events emitted",
		},
		[]string{"kind"},
	)

	CatalogVideos = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidplayer_catalog_videos",
			Help: "Number of videos in the loaded catalog",
		},
	)

	FlaggedVideos = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidplayer_flagged_videos",
			Help: "Number of currently flagged videos",
		},
	)

	Playlists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidplayer_playlists",
			Help: "Number of existing playlists",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidplayer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidplayer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidplayer_websocket_clients",
			Help: "Number of connected event stream clients",
		},
	)
)

// Event delivery metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidplayer_events_published_total",
			Help: "Events delivered to external sinks by result",
		},
		[]string{"sink", "result"},
	)
)

// OutcomeLabel maps an operation result to a low-cardinality label.
func OutcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := outcome.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

// ObserveOperation 记录一次会话操作及其结果
func ObserveOperation(operation string, err error) {
	OperationsTotal.WithLabelValues(operation, OutcomeLabel(err)).Inc()
}

// ObserveEvents 记录操作产生的事件
func ObserveEvents(events []model.Event) {
	for _, e := range events {
		EventsTotal.WithLabelValues(string(e.Kind)).Inc()
	}
}

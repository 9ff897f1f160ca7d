package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voyara"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, including streamed bodies.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	completionStreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "streams_total",
			Help:      "Completion streams by outcome (ok, failed_before_output, failed_mid_stream).",
		},
		[]string{"outcome"},
	)

	completionFragmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "fragments_total",
			Help:      "Text fragments relayed to clients.",
		},
	)

	completionBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "bytes_total",
			Help:      "Bytes of generated text relayed to clients.",
		},
	)

	itinerariesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "itineraries_saved_total",
			Help:      "Itineraries persisted.",
		},
	)

	avatarUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "avatar_uploads_total",
			Help:      "Avatar uploads by outcome.",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeOK                 = "ok"
	OutcomeFailedBeforeOutput = "failed_before_output"
	OutcomeFailedMidStream    = "failed_mid_stream"
	OutcomeFailed             = "failed"
)

func ObserveFragment(size int) {
	completionFragmentsTotal.Inc()
	completionBytesTotal.Add(float64(size))
}

func ObserveStream(outcome string) {
	completionStreamsTotal.WithLabelValues(outcome).Inc()
}

func ObserveItinerarySaved() {
	itinerariesSavedTotal.Inc()
}

func ObserveAvatarUpload(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	avatarUploadsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern, never the raw path. Handler errors are rendered first so the
// status is known, then returned for outer middleware to log.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)
			httpRequestsTotal.WithLabelValues(method, route, status).Inc()
			httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

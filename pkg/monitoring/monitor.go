package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	QuizSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Quiz submissions by verdict",
		},
		[]string{"result"},
	)

	IQResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_iq_resolutions_total",
			Help: "IQ grade resolution outcome per submission",
		},
		[]string{"outcome"},
	)

	QuizScorePercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score_percentage",
			Help:    "Distribution of submission percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	OTPDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_deliveries_total",
			Help: "OTP deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)

	Payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment operations by stage and status",
		},
		[]string{"stage", "status"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizSubmissions,
			IQResolutions,
			QuizScorePercentage,
			OTPDeliveries,
			Payments,
		)
	})
}

func RecordSubmission(passed bool, percentage float64, iqResolved bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	QuizSubmissions.WithLabelValues(result).Inc()
	QuizScorePercentage.Observe(percentage)

	outcome := "no_band"
	if iqResolved {
		outcome = "resolved"
	}
	IQResolutions.WithLabelValues(outcome).Inc()
}

func RecordOTPDelivery(channel string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	OTPDeliveries.WithLabelValues(channel, status).Inc()
}

func RecordPayment(stage, status string) {
	Payments.WithLabelValues(stage, status).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

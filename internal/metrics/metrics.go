package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trailbook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailbook",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailbook",
		Name:      "logins_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	PasswordResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailbook",
		Name:      "password_resets_total",
		Help:      "Password reset flow events, by stage.",
	}, []string{"stage"})

	ResetTokensCleanedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trailbook",
		Name:      "reset_tokens_cleaned_total",
		Help:      "Expired reset tokens removed by the background cleaner.",
	})

	// Booking metrics

	BookingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trailbook",
		Name:      "bookings_total",
		Help:      "Completed bookings.",
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		LoginsTotal,
		PasswordResetsTotal,
		ResetTokensCleanedTotal,
		BookingsTotal,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

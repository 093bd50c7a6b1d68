// Package metrics holds the Prometheus collectors exported at /metrics.
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
			Name: "clinic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	reservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinic_reservations_created_total",
		Help: "Total number of reservations created by students",
	})

	reservationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_reservation_decisions_total",
			Help: "Total number of accept/decline decisions",
		},
		[]string{"status"},
	)

	transfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinic_transfers_total",
		Help: "Total number of reservations transferred to external hospitals",
	})

	// AuditAppendFailures counts best-effort audit entries that could not be stored.
	AuditAppendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinic_audit_append_failures_total",
		Help: "Total number of audit entries that failed to append",
	})

	mailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_mails_total",
			Help: "Total number of emails by outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ReservationCreated counts a new pending reservation.
func ReservationCreated() { reservationsCreated.Inc() }

// ReservationDecided counts an accept or decline.
func ReservationDecided(status string) { reservationDecisions.WithLabelValues(status).Inc() }

// Transferred counts a completed transfer.
func Transferred() { transfersTotal.Inc() }

// MailQueued counts an email pushed onto the queue.
func MailQueued(kind string) { mailsTotal.WithLabelValues(kind, "queued").Inc() }

// MailSent counts a delivered email.
func MailSent(kind string) { mailsTotal.WithLabelValues(kind, "sent").Inc() }

// MailFailed counts an email dropped after its last attempt.
func MailFailed(kind string) { mailsTotal.WithLabelValues(kind, "failed").Inc() }

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/invoice"
)

const (
	OutcomeCommitted     = "committed"
	OutcomeReplayed      = "replayed"
	OutcomeValidation    = "validation"
	OutcomeChargeBilled  = "charge_billed"
	OutcomeActiveInvoice = "active_invoice"
	OutcomeNotFound      = "not_found"
	OutcomeInProgress    = "in_progress"
	OutcomeRolledBack    = "rolled_back"
)

// Metrics holds the ledger's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	invoiceGenerations *prometheus.CounterVec
	invoiceVoids       prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	invoiceGenerations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uvledger_invoice_generations_total",
		Help: "Invoice generation attempts by outcome.",
	}, []string{"outcome"})
	invoiceVoids := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "uvledger_invoice_voids_total",
		Help: "Invoices voided.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uvledger_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uvledger_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	registerer.MustRegister(invoiceGenerations, invoiceVoids, httpRequests, httpDuration)

	return &Metrics{
		invoiceGenerations: invoiceGenerations,
		invoiceVoids:       invoiceVoids,
		httpRequests:       httpRequests,
		httpDuration:       httpDuration,
	}
}

// GenerationOutcome maps a finished generation attempt to a low-cardinality label.
func GenerationOutcome(a *invoice.Attempt) string {
	err := a.Err

	switch {
	case a.State == invoice.StateCommitted && a.Replayed:
		return OutcomeReplayed
	case a.State == invoice.StateCommitted:
		return OutcomeCommitted
	case apperr.IsValidation(err):
		return OutcomeValidation
	case errors.Is(err, invoice.ErrChargeBilled):
		return OutcomeChargeBilled
	case errors.Is(err, invoice.ErrActiveInvoiceExists):
		return OutcomeActiveInvoice
	case errors.Is(err, apperr.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, invoice.ErrGenerationInProgress):
		return OutcomeInProgress
	default:
		return OutcomeRolledBack
	}
}

func (m *Metrics) RecordGeneration(a *invoice.Attempt) {
	if m == nil {
		return
	}

	m.invoiceGenerations.WithLabelValues(GenerationOutcome(a)).Inc()
}

func (m *Metrics) RecordVoid() {
	if m == nil {
		return
	}

	m.invoiceVoids.Inc()
}

// Middleware records request counts and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

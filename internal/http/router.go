package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uvdesk/uvledger/internal/http/auth"
	"github.com/uvdesk/uvledger/internal/http/charge"
	"github.com/uvdesk/uvledger/internal/http/finance"
	"github.com/uvdesk/uvledger/internal/http/invoice"
	"github.com/uvdesk/uvledger/internal/http/salesmetrics"
	"github.com/uvdesk/uvledger/internal/http/statement"
	"github.com/uvdesk/uvledger/internal/http/transaction"
	"github.com/uvdesk/uvledger/internal/metrics"
)

type Options struct {
	AllowedOrigins []string
	JWTSecret      string

	// Metrics and Gatherer are nil when /metrics is disabled.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func New(
	opts Options,
	chargesV1 *charge.Handler,
	financeV1 *finance.Handler,
	invoicesV1 *invoice.Handler,
	transactionsV1 *transaction.Handler,
	statementsV1 *statement.Handler,
	salesMetricsV1 *salesmetrics.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", invoice.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(opts.Metrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/charges", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			chargesV1.Routes(r)
		})

		r.Route("/finance", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			financeV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/sales-metrics", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			salesMetricsV1.Routes(r)
		})

		r.Route("/deals/{dealID}/statement", statementsV1.Routes)
	})

	return router
}

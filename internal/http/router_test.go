package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/finance"
	ledgerHttp "github.com/uvdesk/uvledger/internal/http"
	chargeHandler "github.com/uvdesk/uvledger/internal/http/charge"
	financeHandler "github.com/uvdesk/uvledger/internal/http/finance"
	invoiceHandler "github.com/uvdesk/uvledger/internal/http/invoice"
	salesMetricsHandler "github.com/uvdesk/uvledger/internal/http/salesmetrics"
	statementHandler "github.com/uvdesk/uvledger/internal/http/statement"
	txHandler "github.com/uvdesk/uvledger/internal/http/transaction"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/metrics"
	"github.com/uvdesk/uvledger/internal/salesmetrics"
	"github.com/uvdesk/uvledger/internal/statement"
	"github.com/uvdesk/uvledger/internal/transaction"
)

func newRouter(t *testing.T, secret string) (http.Handler, *charge.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	reg := prometheus.NewRegistry()

	var (
		chargeRepo         = charge.NewMockRepository(ctrl)
		chargeService      = charge.NewService(chargeRepo)
		transactionService = transaction.NewService(transaction.NewMockRepository(ctrl))
		invoiceService     = invoice.NewService(invoice.NewMockRepository(ctrl), nil)
		statementService   = statement.NewService(chargeService, transactionService, invoiceService, nil, time.Minute)
		m                  = metrics.New(reg)
	)

	router := ledgerHttp.New(
		ledgerHttp.Options{
			AllowedOrigins: []string{"http://localhost:3000"},
			JWTSecret:      secret,
			Metrics:        m,
			Gatherer:       reg,
		},
		chargeHandler.NewHandler(chargeService),
		financeHandler.NewHandler(finance.NewService(finance.NewMockRepository(ctrl))),
		invoiceHandler.NewHandler(invoiceService, m),
		txHandler.NewHandler(transactionService),
		statementHandler.NewHandler(statementService),
		salesMetricsHandler.NewHandler(salesmetrics.NewService(salesmetrics.NewMockRepository(ctrl))),
	)

	return router, chargeRepo
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router, repo := newRouter(t, "")
	dealID := uuid.New()

	repo.EXPECT().ListCharges(gomock.Any(), dealID).Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charges?deal_id="+dealID.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `uvledger_http_requests_total{method="GET",route="/api/v1/charges`)
}

func TestRouter_RequiresTokenWhenConfigured(t *testing.T) {
	router, _ := newRouter(t, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charges?deal_id="+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	router, _ := newRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges", http.NoBody)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 4

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

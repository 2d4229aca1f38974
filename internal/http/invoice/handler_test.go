package invoice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/uvdesk/uvledger/internal/charge"
	invoiceHandler "github.com/uvdesk/uvledger/internal/http/invoice"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/metrics"
)

type fixture struct {
	router http.Handler
	repo   *invoice.MockRepository
	gtx    *invoice.MockGenerationTx
	cache  *invoice.MockIdempotencyCache
	reg    *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:  invoice.NewMockRepository(ctrl),
		gtx:   invoice.NewMockGenerationTx(ctrl),
		cache: invoice.NewMockIdempotencyCache(ctrl),
		reg:   prometheus.NewRegistry(),
	}

	h := invoiceHandler.NewHandler(invoice.NewService(f.repo, f.cache), metrics.New(f.reg))

	r := chi.NewRouter()
	r.Route("/invoices", h.Routes)
	f.router = r

	return f
}

func (f *fixture) serve(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

type generateBody struct {
	InvoiceID     *uuid.UUID `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	State         string     `json:"state"`
	Replayed      bool       `json:"replayed"`
	Message       string     `json:"message"`
	Error         string     `json:"error"`
}

func decodeGenerate(t *testing.T, rec *httptest.ResponseRecorder) generateBody {
	t.Helper()

	var body generateBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandler_Generate(t *testing.T) {
	dealID := uuid.New()
	c1 := &charge.Charge{ID: uuid.New(), DealID: dealID, Type: charge.TypeVehiclePrice, Amount: decimal.NewFromInt(50000)}
	billed := &charge.Charge{ID: uuid.New(), DealID: dealID, Type: charge.TypeRTAFee, Amount: decimal.NewFromInt(500), InvoiceID: new(uuid.New())}

	t.Run("Committed", func(t *testing.T) {
		f := newFixture(t)
		invoiceID := uuid.New()

		f.repo.EXPECT().BeginGeneration(gomock.Any()).Return(f.gtx, nil)
		f.gtx.EXPECT().LockCharges(gomock.Any(), []uuid.UUID{c1.ID}).Return([]*charge.Charge{c1}, nil)
		f.gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000001", nil)
		f.gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				inv.ID = invoiceID
				return nil
			})
		f.gtx.EXPECT().MarkBilled(gomock.Any(), invoiceID, []uuid.UUID{c1.ID}).Return(nil)
		f.gtx.EXPECT().Commit().Return(nil)
		f.gtx.EXPECT().Rollback().Return(nil)

		rec := f.serve(http.MethodPost, "/invoices/generate",
			`{"deal_id":"`+dealID.String()+`","billing_period":"2025-01","charge_ids":["`+c1.ID.String()+`"]}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeGenerate(t, rec)
		assert.Equal(t, invoiceID, *body.InvoiceID)
		assert.Equal(t, "INV-000001", body.InvoiceNumber)
		assert.Equal(t, "committed", body.State)
		assert.False(t, body.Replayed)
	})

	t.Run("ChargeAlreadyBilled", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().BeginGeneration(gomock.Any()).Return(f.gtx, nil)
		f.gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{billed}, nil)
		f.gtx.EXPECT().Rollback().Return(nil)

		rec := f.serve(http.MethodPost, "/invoices/generate",
			`{"deal_id":"`+dealID.String()+`","charge_ids":["`+billed.ID.String()+`"]}`, nil)
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeGenerate(t, rec)
		assert.Equal(t, "rolled_back", body.State)
		assert.Equal(t, invoice.RolledBackMessage, body.Message)
		assert.Nil(t, body.InvoiceID)
		assert.NotEmpty(t, body.Error)

		expected := `
# HELP uvledger_invoice_generations_total Invoice generation attempts by outcome.
# TYPE uvledger_invoice_generations_total counter
uvledger_invoice_generations_total{outcome="charge_billed"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "uvledger_invoice_generations_total"))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPost, "/invoices/generate", `{"deal_id":"`+dealID.String()+`","charge_ids":[]}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "rolled_back", decodeGenerate(t, rec).State)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().BeginGeneration(gomock.Any()).Return(f.gtx, nil)
		f.gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
		f.gtx.EXPECT().Rollback().Return(nil)

		rec := f.serve(http.MethodPost, "/invoices/generate",
			`{"deal_id":"`+dealID.String()+`","charge_ids":["`+c1.ID.String()+`"]}`, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeGenerate(t, rec)
		assert.Equal(t, "rolled_back", body.State)
		assert.Equal(t, invoice.RolledBackMessage, body.Message)
		assert.Contains(t, body.Error, "connection reset")
		assert.Nil(t, body.InvoiceID)
	})

	t.Run("IdempotentReplay", func(t *testing.T) {
		f := newFixture(t)
		invoiceID := uuid.New()

		f.cache.EXPECT().Reserve(gomock.Any(), dealID.String()+":req-42").Return(invoiceID, false, nil)

		header := http.Header{}
		header.Set(invoiceHandler.IdempotencyKeyHeader, "req-42")

		rec := f.serve(http.MethodPost, "/invoices/generate",
			`{"deal_id":"`+dealID.String()+`","charge_ids":["`+c1.ID.String()+`"]}`, header)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeGenerate(t, rec)
		assert.Equal(t, invoiceID, *body.InvoiceID)
		assert.True(t, body.Replayed)
		assert.Empty(t, body.InvoiceNumber)
	})
}

func TestHandler_Generate_KeyInFlight(t *testing.T) {
	f := newFixture(t)
	dealID := uuid.New()

	f.cache.EXPECT().Reserve(gomock.Any(), dealID.String()+":req-7").Return(uuid.Nil, false, nil)

	header := http.Header{}
	header.Set(invoiceHandler.IdempotencyKeyHeader, "req-7")

	rec := f.serve(http.MethodPost, "/invoices/generate",
		`{"deal_id":"`+dealID.String()+`","charge_ids":["`+uuid.NewString()+`"]}`, header)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeGenerate(t, rec)
	assert.Equal(t, "rolled_back", body.State)
	assert.Equal(t, invoice.RolledBackMessage, body.Message)
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t)
	dealID := uuid.New()
	active := &invoice.Invoice{ID: uuid.New(), DealID: dealID, Number: "INV-000002", TotalAmount: decimal.NewFromInt(1000), Status: invoice.StatusActive}
	voided := &invoice.Invoice{ID: uuid.New(), DealID: dealID, Number: "INV-000001", TotalAmount: decimal.NewFromInt(900), Status: invoice.StatusVoided}

	f.repo.EXPECT().ListInvoices(gomock.Any(), dealID).Return([]*invoice.Invoice{active, voided}, nil)
	f.repo.EXPECT().AllocatedTotal(gomock.Any(), active.ID).Return(decimal.NewFromInt(400), nil)
	f.repo.EXPECT().AllocatedTotal(gomock.Any(), voided.ID).Return(decimal.Zero, nil)

	rec := f.serve(http.MethodGet, "/invoices/?deal_id="+dealID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Invoices      []json.RawMessage `json:"invoices"`
		ActiveInvoice *struct {
			InvoiceNumber  string          `json:"invoice_number"`
			InvoiceBalance decimal.Decimal `json:"invoice_balance"`
		} `json:"activeInvoice"`
		VoidedInvoices   []json.RawMessage `json:"voidedInvoices"`
		HasActiveInvoice bool              `json:"hasActiveInvoice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Invoices, 2)
	assert.Len(t, body.VoidedInvoices, 1)
	assert.True(t, body.HasActiveInvoice)
	require.NotNil(t, body.ActiveInvoice)
	assert.Equal(t, "INV-000002", body.ActiveInvoice.InvoiceNumber)
	assert.True(t, decimal.NewFromInt(600).Equal(body.ActiveInvoice.InvoiceBalance))
}

func TestHandler_Void(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *invoice.MockRepository)
		wantStatus int
	}{
		{
			name: "Voided",
			body: `{"reason":"wrong billing period"}`,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "wrong billing period").
					Return(&invoice.Invoice{ID: id, Status: invoice.StatusVoided}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "ReasonRequired",
			body:       `{"reason":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "AlreadyVoided",
			body: `{"reason":"dup"}`,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "dup").Return(nil, invoice.ErrAlreadyVoided)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "NotFound",
			body: `{"reason":"gone"}`,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "gone").Return(nil, invoice.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f.repo)
			}

			rec := f.serve(http.MethodPost, "/invoices/"+id.String()+"/void", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

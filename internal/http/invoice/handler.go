package invoice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/uvdesk/uvledger/internal/http/respond"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/metrics"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Handler struct {
	svc     *invoice.Service
	metrics *metrics.Metrics
}

// NewHandler creates an invoice Handler. m may be nil.
func NewHandler(svc *invoice.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/generate", h.generate)
	r.Post("/{id}/void", h.void)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(r.URL.Query().Get("deal_id"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ledger, err := h.svc.List(r.Context(), dealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLedgerResponse(ledger))
}

type generateRequest struct {
	DealID        uuid.UUID   `json:"deal_id"`
	BillingPeriod string      `json:"billing_period"`
	ChargeIDs     []uuid.UUID `json:"charge_ids"`
}

type generateResponse struct {
	InvoiceID     *uuid.UUID    `json:"invoice_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number,omitempty"`
	State         invoice.State `json:"state"`
	Replayed      bool          `json:"replayed"`
	Message       string        `json:"message"`
	Error         string        `json:"error,omitempty"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	attempt := invoice.NewAttempt(invoice.GenerateParams{
		DealID:         req.DealID,
		BillingPeriod:  req.BillingPeriod,
		ChargeIDs:      req.ChargeIDs,
		IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
	})

	err := h.svc.Run(r.Context(), attempt, func(invoiceID uuid.UUID) {
		slog.Info("invoice generated", "deal_id", req.DealID, "invoice_id", invoiceID, "replayed", attempt.Replayed)
	})
	h.metrics.RecordGeneration(attempt)

	if err != nil {
		status := respond.Status(err)
		if status == http.StatusInternalServerError {
			slog.Error("invoice generation failed", "deal_id", req.DealID, "error", err)
		}

		respond.JSON(w, status, generateResponse{
			State:   attempt.State,
			Message: attempt.Message(),
			Error:   err.Error(),
		})

		return
	}

	resp := generateResponse{
		InvoiceID: &attempt.InvoiceID,
		State:     attempt.State,
		Replayed:  attempt.Replayed,
		Message:   attempt.Message(),
	}
	if attempt.Invoice != nil {
		resp.InvoiceNumber = attempt.Invoice.Number
	}

	respond.JSON(w, http.StatusCreated, resp)
}

type voidRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req voidRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Void(r.Context(), id, req.Reason)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.metrics.RecordVoid()

	respond.JSON(w, http.StatusOK, invoiceEnvelope{Invoice: toInvoiceResponse(inv)})
}

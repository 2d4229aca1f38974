package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/http/auth"
	"github.com/uvdesk/uvledger/internal/http/respond"
	"github.com/uvdesk/uvledger/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/allocate", h.allocate)
	r.Delete("/allocate", h.unallocate)
	r.Get("/{id}", h.get)
}

type createTransactionRequest struct {
	DealID          uuid.UUID                  `json:"deal_id"`
	Type            transaction.Type           `json:"transaction_type"`
	Amount          *decimal.Decimal           `json:"amount"`
	PaymentMethod   *transaction.PaymentMethod `json:"payment_method,omitempty"`
	ReferenceNumber *string                    `json:"reference_number,omitempty"`
	Reason          *string                    `json:"reason,omitempty"`
	CreatedBy       *string                    `json:"created_by,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	createdBy := req.CreatedBy
	if createdBy == nil {
		createdBy = auth.Actor(r.Context())
	}

	tx, err := h.svc.Add(r.Context(), transaction.CreateParams{
		DealID:          req.DealID,
		Type:            req.Type,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Reason:          req.Reason,
		CreatedBy:       createdBy,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, transactionEnvelope{Transaction: toResponse(tx)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(r.URL.Query().Get("deal_id"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), dealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, transactionListResponse{Transactions: toResponseList(txs)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, transactionEnvelope{Transaction: toResponse(tx)})
}

type allocateRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
}

func (h *Handler) allocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Allocate(r.Context(), req.TransactionID, req.InvoiceID); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.respondTransaction(w, r, req.TransactionID)
}

func (h *Handler) unallocate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(r.URL.Query().Get("transaction_id"), "transaction_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Unallocate(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.respondTransaction(w, r, id)
}

func (h *Handler) respondTransaction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, transactionEnvelope{Transaction: toResponse(tx)})
}

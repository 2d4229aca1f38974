package charge

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/http/respond"
)

type Handler struct {
	svc *charge.Service
}

func NewHandler(svc *charge.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/types", h.types)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createChargeRequest struct {
	DealID      uuid.UUID        `json:"deal_id"`
	Type        charge.Type      `json:"charge_type"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createChargeRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Add(r.Context(), charge.AddParams{
		DealID:      req.DealID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, chargeEnvelope{Charge: toResponse(c)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(r.URL.Query().Get("deal_id"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	charges, err := h.svc.List(r.Context(), dealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, chargeListResponse{Charges: toResponseList(charges)})
}

func (h *Handler) types(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]charge.Type{"charge_types": charge.Types})
}

type updateChargeRequest struct {
	Type        *charge.Type     `json:"charge_type,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateChargeRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), id, charge.UpdateParams{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, chargeEnvelope{Charge: toResponse(c)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Success)
}

package finance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/finance"
	"github.com/uvdesk/uvledger/internal/http/respond"
)

type Handler struct {
	svc *finance.Service
}

func NewHandler(svc *finance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/documents", h.uploadDocument)
	r.Delete("/{id}/documents", h.deleteDocument)
}

type createFinanceRequest struct {
	DealID          uuid.UUID        `json:"deal_id"`
	BankName        string           `json:"bank_name"`
	LoanAmount      *decimal.Decimal `json:"loan_amount,omitempty"`
	ApplicationDate *string          `json:"application_date,omitempty"`
	ApplicationRef  *string          `json:"application_ref,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createFinanceRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := parseDate(req.ApplicationDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	app, err := h.svc.Create(r.Context(), finance.CreateParams{
		DealID:          req.DealID,
		BankName:        req.BankName,
		LoanAmount:      req.LoanAmount,
		ApplicationDate: date,
		ApplicationRef:  req.ApplicationRef,
		Notes:           req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, financeEnvelope{Finance: toResponse(app)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(r.URL.Query().Get("deal_id"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	apps, err := h.svc.List(r.Context(), dealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, financeListResponse{Finance: toResponseList(apps)})
}

type updateFinanceRequest struct {
	BankName        *string          `json:"bank_name,omitempty"`
	LoanAmount      *decimal.Decimal `json:"loan_amount,omitempty"`
	ApplicationDate *string          `json:"application_date,omitempty"`
	ApplicationRef  *string          `json:"application_ref,omitempty"`
	Status          *finance.Status  `json:"status,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateFinanceRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := parseDate(req.ApplicationDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	app, err := h.svc.Update(r.Context(), id, finance.UpdateParams{
		BankName:        req.BankName,
		LoanAmount:      req.LoanAmount,
		ApplicationDate: date,
		ApplicationRef:  req.ApplicationRef,
		Status:          req.Status,
		Notes:           req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, financeEnvelope{Finance: toResponse(app)})
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

type uploadDocumentRequest struct {
	DocumentType finance.DocumentType `json:"document_type"`
	FileURL      string               `json:"file_url"`
	FileName     string               `json:"file_name"`
}

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req uploadDocumentRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	doc, updated, err := h.svc.UploadDocument(r.Context(), finance.UploadParams{
		FinanceID: id,
		Type:      req.DocumentType,
		FileURL:   req.FileURL,
		FileName:  req.FileName,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}

	respond.JSON(w, status, documentEnvelope{Document: toDocumentResponse(doc), Updated: updated})
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	documentID, err := respond.ParseID(r.URL.Query().Get("document_id"), "document_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteDocument(r.Context(), id, documentID); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Success)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, apperr.Validation("application_date must be YYYY-MM-DD")
	}

	return &t, nil
}

package statement

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/uvdesk/uvledger/internal/http/respond"
	"github.com/uvdesk/uvledger/internal/statement"
)

type Handler struct {
	svc *statement.Service
}

func NewHandler(svc *statement.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted under a pattern carrying {dealID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/archive", h.archive)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(chi.URLParam(r, "dealID"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	st, data, err := h.svc.Export(r.Context(), dealID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", statement.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", statement.FileName(st)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write statement", "deal_id", dealID, "error", err)
	}
}

type archiveResponse struct {
	URL string `json:"url"`
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	dealID, err := respond.ParseID(chi.URLParam(r, "dealID"), "deal_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	url, err := h.svc.Archive(r.Context(), dealID)
	if err != nil {
		if errors.Is(err, statement.ErrStorageUnavailable) {
			respond.Message(w, http.StatusServiceUnavailable, err.Error())
			return
		}

		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, archiveResponse{URL: url})
}

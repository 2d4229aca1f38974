package salesmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/http/respond"
	"github.com/uvdesk/uvledger/internal/salesmetrics"
)

type Handler struct {
	svc *salesmetrics.Service
}

func NewHandler(svc *salesmetrics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.upsert)
	r.Delete("/", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		f   salesmetrics.Filter
		err error
	)

	if f.Date, err = parseDate(q.Get("date"), "date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if f.StartDate, err = parseDate(q.Get("start_date"), "start_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if f.EndDate, err = parseDate(q.Get("end_date"), "end_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if f.Year, err = parseInt(q.Get("year"), "year"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if f.Month, err = parseInt(q.Get("month"), "month"); err != nil {
		respond.Error(w, r, err)
		return
	}

	list, err := h.svc.List(r.Context(), f)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{Data: toResponseList(list), Count: len(list)})
}

type upsertRequest struct {
	Date                      string          `json:"date"`
	WorkingDaysElapsed        int             `json:"working_days_elapsed"`
	GrossSalesYearActual      decimal.Decimal `json:"gross_sales_year_actual"`
	CostOfSalesYearActual     decimal.Decimal `json:"cost_of_sales_year_actual"`
	GrossSalesMonthActual     decimal.Decimal `json:"gross_sales_month_actual"`
	CostOfSalesMonthActual    decimal.Decimal `json:"cost_of_sales_month_actual"`
	MarketingSpendMonth       decimal.Decimal `json:"marketing_spend_month"`
	UnitsDisposedMonth        int             `json:"units_disposed_month"`
	UnitsSoldStockMonth       int             `json:"units_sold_stock_month"`
	UnitsSoldConsignmentMonth int             `json:"units_sold_consignment_month"`
	Notes                     *string         `json:"notes,omitempty"`
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Upsert(r.Context(), salesmetrics.UpsertParams{
		Date:                      date,
		WorkingDaysElapsed:        req.WorkingDaysElapsed,
		GrossSalesYearActual:      req.GrossSalesYearActual,
		CostOfSalesYearActual:     req.CostOfSalesYearActual,
		GrossSalesMonthActual:     req.GrossSalesMonthActual,
		CostOfSalesMonthActual:    req.CostOfSalesMonthActual,
		MarketingSpendMonth:       req.MarketingSpendMonth,
		UnitsDisposedMonth:        req.UnitsDisposedMonth,
		UnitsSoldStockMonth:       req.UnitsSoldStockMonth,
		UnitsSoldConsignmentMonth: req.UnitsSoldConsignmentMonth,
		Notes:                     req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, salesMetricsEnvelope{SalesMetrics: toResponse(d)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"), "date")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	n, err := h.svc.Delete(r.Context(), date)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, deleteResponse{Success: true, DeletedCount: n})
}

func parseDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperr.Validation("%s must be YYYY-MM-DD", field)
	}

	return &t, nil
}

func parseInt(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation("%s must be a number", field)
	}

	return n, nil
}

package salesmetrics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/salesmetrics"
)

type salesMetricsResponse struct {
	ID                        uuid.UUID        `json:"id"`
	MetricDate                string           `json:"metric_date"`
	Year                      int              `json:"year"`
	Month                     int              `json:"month"`
	WorkingDaysElapsed        int              `json:"working_days_elapsed"`
	GrossSalesYearActual      decimal.Decimal  `json:"gross_sales_year_actual"`
	CostOfSalesYearActual     decimal.Decimal  `json:"cost_of_sales_year_actual"`
	GrossSalesMonthActual     decimal.Decimal  `json:"gross_sales_month_actual"`
	CostOfSalesMonthActual    decimal.Decimal  `json:"cost_of_sales_month_actual"`
	MarketingSpendMonth       decimal.Decimal  `json:"marketing_spend_month"`
	UnitsDisposedMonth        int              `json:"units_disposed_month"`
	UnitsSoldStockMonth       int              `json:"units_sold_stock_month"`
	UnitsSoldConsignmentMonth int              `json:"units_sold_consignment_month"`
	GrossProfitYearActual     decimal.Decimal  `json:"gross_profit_year_actual"`
	GrossProfitMonthActual    decimal.Decimal  `json:"gross_profit_month_actual"`
	TotalUnitsSoldMonth       int              `json:"total_units_sold_month"`
	AverageGrossProfitPerCar  *decimal.Decimal `json:"average_gross_profit_per_car_month"`
	MarketingRate             *decimal.Decimal `json:"marketing_rate_against_gross_profit"`
	Notes                     *string          `json:"notes"`
	CreatedAt                 time.Time        `json:"created_at"`
	UpdatedAt                 time.Time        `json:"updated_at"`
}

type salesMetricsEnvelope struct {
	SalesMetrics salesMetricsResponse `json:"sales_metrics"`
}

type listResponse struct {
	Data  []salesMetricsResponse `json:"data"`
	Count int                    `json:"count"`
}

type deleteResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deleted_count"`
}

func toResponse(d *salesmetrics.Daily) salesMetricsResponse {
	return salesMetricsResponse{
		ID:                        d.ID,
		MetricDate:                d.MetricDate.Format(time.DateOnly),
		Year:                      d.Year,
		Month:                     d.Month,
		WorkingDaysElapsed:        d.WorkingDaysElapsed,
		GrossSalesYearActual:      d.GrossSalesYearActual,
		CostOfSalesYearActual:     d.CostOfSalesYearActual,
		GrossSalesMonthActual:     d.GrossSalesMonthActual,
		CostOfSalesMonthActual:    d.CostOfSalesMonthActual,
		MarketingSpendMonth:       d.MarketingSpendMonth,
		UnitsDisposedMonth:        d.UnitsDisposedMonth,
		UnitsSoldStockMonth:       d.UnitsSoldStockMonth,
		UnitsSoldConsignmentMonth: d.UnitsSoldConsignmentMonth,
		GrossProfitYearActual:     d.GrossProfitYearActual,
		GrossProfitMonthActual:    d.GrossProfitMonthActual,
		TotalUnitsSoldMonth:       d.TotalUnitsSoldMonth,
		AverageGrossProfitPerCar:  d.AverageGrossProfitPerCar(),
		MarketingRate:             d.MarketingRate(),
		Notes:                     d.Notes,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}
}

func toResponseList(list []*salesmetrics.Daily) []salesMetricsResponse {
	resp := make([]salesMetricsResponse, len(list))
	for i, d := range list {
		resp[i] = toResponse(d)
	}

	return resp
}

package salesmetrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=salesmetrics
type Repository interface {
	UpsertDaily(ctx context.Context, d *Daily) error
	ListDaily(ctx context.Context, f Filter) ([]*Daily, error)
	DeleteDaily(ctx context.Context, date time.Time) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertParams holds the manually entered figures. Omitted values are zero.
type UpsertParams struct {
	Date               *time.Time
	WorkingDaysElapsed int

	GrossSalesYearActual   decimal.Decimal
	CostOfSalesYearActual  decimal.Decimal
	GrossSalesMonthActual  decimal.Decimal
	CostOfSalesMonthActual decimal.Decimal
	MarketingSpendMonth    decimal.Decimal

	UnitsDisposedMonth        int
	UnitsSoldStockMonth       int
	UnitsSoldConsignmentMonth int

	Notes *string
}

// Upsert records the figures for a date, replacing any earlier entry for it.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*Daily, error) {
	if err := validateUpsert(params); err != nil {
		return nil, err
	}

	date := dateOnly(*params.Date)

	d := &Daily{
		MetricDate:                date,
		Year:                      date.Year(),
		Month:                     int(date.Month()),
		WorkingDaysElapsed:        params.WorkingDaysElapsed,
		GrossSalesYearActual:      params.GrossSalesYearActual,
		CostOfSalesYearActual:     params.CostOfSalesYearActual,
		GrossSalesMonthActual:     params.GrossSalesMonthActual,
		CostOfSalesMonthActual:    params.CostOfSalesMonthActual,
		MarketingSpendMonth:       params.MarketingSpendMonth,
		UnitsDisposedMonth:        params.UnitsDisposedMonth,
		UnitsSoldStockMonth:       params.UnitsSoldStockMonth,
		UnitsSoldConsignmentMonth: params.UnitsSoldConsignmentMonth,
		Notes:                     params.Notes,
	}
	if err := s.repo.UpsertDaily(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func validateUpsert(params UpsertParams) error {
	if params.Date == nil {
		return apperr.Validation("date is required")
	}

	counts := []struct {
		field string
		v     int
	}{
		{"working_days_elapsed", params.WorkingDaysElapsed},
		{"units_disposed_month", params.UnitsDisposedMonth},
		{"units_sold_stock_month", params.UnitsSoldStockMonth},
		{"units_sold_consignment_month", params.UnitsSoldConsignmentMonth},
	}
	for _, c := range counts {
		if c.v < 0 {
			return apperr.Validation("%s cannot be negative", c.field)
		}
	}

	amounts := []struct {
		field string
		v     decimal.Decimal
	}{
		{"gross_sales_year_actual", params.GrossSalesYearActual},
		{"cost_of_sales_year_actual", params.CostOfSalesYearActual},
		{"gross_sales_month_actual", params.GrossSalesMonthActual},
		{"cost_of_sales_month_actual", params.CostOfSalesMonthActual},
		{"marketing_spend_month", params.MarketingSpendMonth},
	}
	for _, a := range amounts {
		if err := money.Validate(a.field, a.v); err != nil {
			return err
		}
	}

	return nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Daily, error) {
	switch {
	case f.Date != nil:
		f = Filter{Date: new(dateOnly(*f.Date))}
	case f.StartDate != nil && f.EndDate != nil:
		if f.EndDate.Before(*f.StartDate) {
			return nil, apperr.Validation("end_date cannot be before start_date")
		}

		f = Filter{StartDate: new(dateOnly(*f.StartDate)), EndDate: new(dateOnly(*f.EndDate))}
	case f.StartDate != nil || f.EndDate != nil:
		return nil, apperr.Validation("start_date and end_date must be given together")
	case f.Month != 0 && f.Year == 0:
		return nil, apperr.Validation("month requires year")
	case f.Month < 0 || f.Month > 12:
		return nil, apperr.Validation("month must be between 1 and 12")
	}

	return s.repo.ListDaily(ctx, f)
}

// Delete removes the entry for date and reports how many rows went.
func (s *Service) Delete(ctx context.Context, date *time.Time) (int64, error) {
	if date == nil {
		return 0, apperr.Validation("date is required")
	}

	return s.repo.DeleteDaily(ctx, dateOnly(*date))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

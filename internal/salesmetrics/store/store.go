package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uvdesk/uvledger/internal/salesmetrics"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectDailyColumns = `
	id, metric_date, year, month, working_days_elapsed,
	gross_sales_year_actual, cost_of_sales_year_actual,
	gross_sales_month_actual, cost_of_sales_month_actual, marketing_spend_month,
	units_disposed_month, units_sold_stock_month, units_sold_consignment_month,
	gross_profit_year_actual, gross_profit_month_actual, total_units_sold_month,
	notes, created_at, updated_at
`

func scanDaily(s scanner, d *salesmetrics.Daily) error {
	return s.Scan(
		&d.ID, &d.MetricDate, &d.Year, &d.Month, &d.WorkingDaysElapsed,
		&d.GrossSalesYearActual, &d.CostOfSalesYearActual,
		&d.GrossSalesMonthActual, &d.CostOfSalesMonthActual, &d.MarketingSpendMonth,
		&d.UnitsDisposedMonth, &d.UnitsSoldStockMonth, &d.UnitsSoldConsignmentMonth,
		&d.GrossProfitYearActual, &d.GrossProfitMonthActual, &d.TotalUnitsSoldMonth,
		&d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
}

// UpsertDaily writes d keyed on its metric date and reloads it so the
// computed columns are filled.
func (s *Store) UpsertDaily(ctx context.Context, d *salesmetrics.Daily) error {
	query := `
		INSERT INTO uv_sales_metrics (
			metric_date, year, month, working_days_elapsed,
			gross_sales_year_actual, cost_of_sales_year_actual,
			gross_sales_month_actual, cost_of_sales_month_actual, marketing_spend_month,
			units_disposed_month, units_sold_stock_month, units_sold_consignment_month,
			notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (metric_date) DO UPDATE SET
			year                         = EXCLUDED.year,
			month                        = EXCLUDED.month,
			working_days_elapsed         = EXCLUDED.working_days_elapsed,
			gross_sales_year_actual      = EXCLUDED.gross_sales_year_actual,
			cost_of_sales_year_actual    = EXCLUDED.cost_of_sales_year_actual,
			gross_sales_month_actual     = EXCLUDED.gross_sales_month_actual,
			cost_of_sales_month_actual   = EXCLUDED.cost_of_sales_month_actual,
			marketing_spend_month        = EXCLUDED.marketing_spend_month,
			units_disposed_month         = EXCLUDED.units_disposed_month,
			units_sold_stock_month       = EXCLUDED.units_sold_stock_month,
			units_sold_consignment_month = EXCLUDED.units_sold_consignment_month,
			notes                        = EXCLUDED.notes,
			updated_at                   = NOW()
		RETURNING ` + selectDailyColumns

	row := s.db.QueryRowContext(ctx, query,
		d.MetricDate,
		d.Year,
		d.Month,
		d.WorkingDaysElapsed,
		d.GrossSalesYearActual,
		d.CostOfSalesYearActual,
		d.GrossSalesMonthActual,
		d.CostOfSalesMonthActual,
		d.MarketingSpendMonth,
		d.UnitsDisposedMonth,
		d.UnitsSoldStockMonth,
		d.UnitsSoldConsignmentMonth,
		d.Notes,
	)
	if err := scanDaily(row, d); err != nil {
		return fmt.Errorf("upserting sales metrics: %w", err)
	}

	return nil
}

func (s *Store) ListDaily(ctx context.Context, f salesmetrics.Filter) ([]*salesmetrics.Daily, error) {
	where, args := filterClause(f)

	query := `SELECT ` + selectDailyColumns + `
		FROM uv_sales_metrics` + where + `
		ORDER BY metric_date DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales metrics: %w", err)
	}
	defer rows.Close()

	list := []*salesmetrics.Daily{}

	for rows.Next() {
		var d salesmetrics.Daily
		if err := scanDaily(rows, &d); err != nil {
			return nil, fmt.Errorf("scanning sales metrics: %w", err)
		}

		list = append(list, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales metrics rows: %w", err)
	}

	return list, nil
}

func filterClause(f salesmetrics.Filter) (string, []any) {
	switch {
	case f.Date != nil:
		return ` WHERE metric_date = $1`, []any{*f.Date}
	case f.StartDate != nil && f.EndDate != nil:
		return ` WHERE metric_date BETWEEN $1 AND $2`, []any{*f.StartDate, *f.EndDate}
	case f.Year != 0 && f.Month != 0:
		return ` WHERE year = $1 AND month = $2`, []any{f.Year, f.Month}
	case f.Year != 0:
		return ` WHERE year = $1`, []any{f.Year}
	default:
		return "", nil
	}
}

func (s *Store) DeleteDaily(ctx context.Context, date time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uv_sales_metrics WHERE metric_date = $1`, date)
	if err != nil {
		return 0, fmt.Errorf("deleting sales metrics: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting sales metrics: %w", err)
	}

	return n, nil
}

package salesmetrics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Daily is one day's sales figures. Year and Month follow MetricDate, and
// the gross profit and total units fields are computed by the database.
type Daily struct {
	ID                 uuid.UUID
	MetricDate         time.Time
	Year               int
	Month              int
	WorkingDaysElapsed int

	GrossSalesYearActual   decimal.Decimal
	CostOfSalesYearActual  decimal.Decimal
	GrossSalesMonthActual  decimal.Decimal
	CostOfSalesMonthActual decimal.Decimal
	MarketingSpendMonth    decimal.Decimal

	UnitsDisposedMonth        int
	UnitsSoldStockMonth       int
	UnitsSoldConsignmentMonth int

	GrossProfitYearActual  decimal.Decimal
	GrossProfitMonthActual decimal.Decimal
	TotalUnitsSoldMonth    int

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageGrossProfitPerCar is month gross profit over units sold, or nil
// when nothing was sold.
func (d *Daily) AverageGrossProfitPerCar() *decimal.Decimal {
	if d.TotalUnitsSoldMonth == 0 {
		return nil
	}

	return new(d.GrossProfitMonthActual.DivRound(decimal.NewFromInt(int64(d.TotalUnitsSoldMonth)), 2))
}

// MarketingRate is marketing spend as a percentage of month gross profit.
func (d *Daily) MarketingRate() *decimal.Decimal {
	if d.GrossProfitMonthActual.IsZero() {
		return nil
	}

	return new(d.MarketingSpendMonth.Mul(hundred).DivRound(d.GrossProfitMonthActual, 2))
}

// Filter narrows a listing. The first populated form wins: Date, then the
// StartDate/EndDate range, then Year with an optional Month.
type Filter struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Year      int
	Month     int
}

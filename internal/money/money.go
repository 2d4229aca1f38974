// Package money checks amounts against the NUMERIC(14,2) columns they are stored in.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
)

// Scale is the number of decimal places stored.
const Scale = 2

// limit is the smallest magnitude NUMERIC(14,2) cannot hold.
var limit = decimal.New(1, 14-Scale)

// Validate rejects amounts the database would round or overflow. field names
// the amount in the error message.
func Validate(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(Scale)) {
		return apperr.Validation("%s must have at most %d decimal places", field, Scale)
	}

	if d.Abs().GreaterThanOrEqual(limit) {
		return apperr.Validation("%s is out of range", field)
	}

	return nil
}

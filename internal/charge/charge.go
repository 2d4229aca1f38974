package charge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
)

var (
	ErrNotFound            = fmt.Errorf("charge %w", apperr.ErrNotFound)
	ErrDescriptionRequired = apperr.Validation("description is required when charge_type is other")
)

// Type is the kind of line item billed on a deal.
type Type string

const (
	TypeVehiclePrice        Type = "vehicle_price"
	TypeRTAFee              Type = "rta_fee"
	TypeInsurance           Type = "insurance"
	TypeExtendedWarranty    Type = "extended_warranty"
	TypeServiceCareStandard Type = "servicecare_standard"
	TypeServiceCarePremium  Type = "servicecare_premium"
	TypeCeramicCoating      Type = "ceramic_coating"
	TypeWindowTints         Type = "window_tints"
	TypeOther               Type = "other"
)

// Types lists every accepted charge type in display order.
var Types = []Type{
	TypeVehiclePrice,
	TypeRTAFee,
	TypeInsurance,
	TypeExtendedWarranty,
	TypeServiceCareStandard,
	TypeServiceCarePremium,
	TypeCeramicCoating,
	TypeWindowTints,
	TypeOther,
}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}

	return false
}

// Charge is a single billable line item on a deal.
type Charge struct {
	ID          uuid.UUID
	DealID      uuid.UUID
	Type        Type
	Description *string
	Amount      decimal.Decimal
	InvoiceID   *uuid.UUID // Set once the charge is billed
	BilledAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Billed reports whether the charge has been consumed by an invoice.
func (c *Charge) Billed() bool {
	return c.InvoiceID != nil
}

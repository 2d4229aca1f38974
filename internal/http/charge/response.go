package charge

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
)

type chargeResponse struct {
	ID          uuid.UUID       `json:"id"`
	DealID      uuid.UUID       `json:"deal_id"`
	Type        charge.Type     `json:"charge_type"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceID   *uuid.UUID      `json:"invoice_id"`
	BilledAt    *time.Time      `json:"billed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type chargeEnvelope struct {
	Charge chargeResponse `json:"charge"`
}

type chargeListResponse struct {
	Charges []chargeResponse `json:"charges"`
}

func toResponse(c *charge.Charge) chargeResponse {
	return chargeResponse{
		ID:          c.ID,
		DealID:      c.DealID,
		Type:        c.Type,
		Description: c.Description,
		Amount:      c.Amount,
		InvoiceID:   c.InvoiceID,
		BilledAt:    c.BilledAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toResponseList(charges []*charge.Charge) []chargeResponse {
	resp := make([]chargeResponse, len(charges))
	for i, c := range charges {
		resp[i] = toResponse(c)
	}

	return resp
}

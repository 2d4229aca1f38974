package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/invoice"
)

type invoiceResponse struct {
	ID              uuid.UUID        `json:"id"`
	DealID          uuid.UUID        `json:"deal_id"`
	InvoiceNumber   string           `json:"invoice_number"`
	BillingPeriod   *string          `json:"billing_period"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	Status          invoice.Status   `json:"status"`
	VoidReason      *string          `json:"void_reason,omitempty"`
	VoidedAt        *time.Time       `json:"voided_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	AllocatedAmount *decimal.Decimal `json:"allocated_amount,omitempty"`
	InvoiceBalance  *decimal.Decimal `json:"invoice_balance,omitempty"`
}

type invoiceEnvelope struct {
	Invoice invoiceResponse `json:"invoice"`
}

type ledgerResponse struct {
	Invoices         []invoiceResponse `json:"invoices"`
	ActiveInvoice    *invoiceResponse  `json:"activeInvoice"`
	VoidedInvoices   []invoiceResponse `json:"voidedInvoices"`
	HasActiveInvoice bool              `json:"hasActiveInvoice"`
}

func toInvoiceResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		DealID:        inv.DealID,
		InvoiceNumber: inv.Number,
		BillingPeriod: inv.BillingPeriod,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		VoidReason:    inv.VoidReason,
		VoidedAt:      inv.VoidedAt,
		CreatedAt:     inv.CreatedAt,
	}
}

func toSummaryResponse(s *invoice.Summary) invoiceResponse {
	resp := toInvoiceResponse(&s.Invoice)
	resp.AllocatedAmount = new(s.AllocatedAmount)
	resp.InvoiceBalance = new(s.Balance)

	return resp
}

func toSummaryList(summaries []*invoice.Summary) []invoiceResponse {
	resp := make([]invoiceResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toSummaryResponse(s)
	}

	return resp
}

func toLedgerResponse(l *invoice.Ledger) ledgerResponse {
	resp := ledgerResponse{
		Invoices:         toSummaryList(l.Invoices),
		VoidedInvoices:   toSummaryList(l.VoidedInvoices),
		HasActiveInvoice: l.HasActiveInvoice,
	}

	if l.ActiveInvoice != nil {
		resp.ActiveInvoice = new(toSummaryResponse(l.ActiveInvoice))
	}

	return resp
}

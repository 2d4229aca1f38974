package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
)

var (
	ErrNotFound            = fmt.Errorf("invoice %w", apperr.ErrNotFound)
	ErrChargeNotFound      = fmt.Errorf("charge %w", apperr.ErrNotFound)
	ErrChargeBilled        = fmt.Errorf("charge already billed: %w", apperr.ErrConflict)
	ErrActiveInvoiceExists = fmt.Errorf("deal already has an active invoice: %w", apperr.ErrConflict)
	ErrAlreadyVoided       = fmt.Errorf("invoice already voided: %w", apperr.ErrConflict)
	ErrAttemptStarted      = errors.New("generation attempt already started")

	ErrGenerationInProgress = fmt.Errorf("generation with this idempotency key is in progress: %w", apperr.ErrConflict)
)

type Status string

const (
	StatusActive Status = "active"
	StatusVoided Status = "voided"
)

// Invoice bills a set of charges on a deal. A deal has at most one active invoice.
type Invoice struct {
	ID            uuid.UUID
	DealID        uuid.UUID
	Number        string
	BillingPeriod *string
	TotalAmount   decimal.Decimal
	Status        Status
	VoidReason    *string
	VoidedAt      *time.Time
	CreatedAt     time.Time
}

// Summary is an invoice with its collected total. Balance is TotalAmount minus
// AllocatedAmount.
type Summary struct {
	Invoice
	AllocatedAmount decimal.Decimal
	Balance         decimal.Decimal
}

// Ledger is the per-deal invoice view.
type Ledger struct {
	Invoices         []*Summary // Newest first
	ActiveInvoice    *Summary
	VoidedInvoices   []*Summary
	HasActiveInvoice bool
}

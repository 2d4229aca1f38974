package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
)

var (
	ErrNotFound          = fmt.Errorf("transaction %w", apperr.ErrNotFound)
	ErrInvoiceNotFound   = fmt.Errorf("invoice %w", apperr.ErrNotFound)
	ErrAllocationChanged = fmt.Errorf("invoice changed during allocation: %w", apperr.ErrConflict)
)

// Type represents the kind of ledger entry.
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypePayment    Type = "payment"
	TypeCreditNote Type = "credit_note"
	TypeRefund     Type = "refund"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDeposit, TypePayment, TypeCreditNote, TypeRefund:
		return true
	}

	return false
}

// Collects reports whether the entry counts toward an invoice's allocated total.
func (t Type) Collects() bool {
	return t == TypeDeposit || t == TypePayment
}

// NeedsPaymentMethod reports whether money moved and the method must be recorded.
func (t Type) NeedsPaymentMethod() bool {
	return t != TypeCreditNote
}

// Numbering returns the sequence name and number prefix for the type.
// Deposits and payments share the receipt sequence.
func (t Type) Numbering() (sequence, prefix string) {
	switch t {
	case TypeCreditNote:
		return "credit_note", "CN"
	case TypeRefund:
		return "refund", "RF"
	default:
		return "receipt", "RCT"
	}
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodCheque:
		return true
	}

	return false
}

// Transaction represents a ledger entry on a deal.
type Transaction struct {
	ID                 uuid.UUID
	DealID             uuid.UUID
	Number             string
	Type               Type
	Amount             decimal.Decimal
	PaymentMethod      *PaymentMethod
	ReferenceNumber    *string
	Reason             *string
	CreatedBy          *string
	AllocatedInvoiceID *uuid.UUID
	Invoice            *Invoice // Loaded via JOIN
	CreatedAt          time.Time
}

// Invoice is the slice of an invoice the allocation rules need.
type Invoice struct {
	ID     uuid.UUID
	DealID uuid.UUID
	Number string
	Status string
}

func (i *Invoice) Voided() bool {
	return i.Status == "voided"
}

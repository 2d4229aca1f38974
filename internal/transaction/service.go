package transaction

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, dealID uuid.UUID) ([]*Transaction, error)

	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	AllocateTransaction(ctx context.Context, id, invoiceID uuid.UUID) error
	UnallocateTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	DealID          uuid.UUID
	Type            Type
	Amount          *decimal.Decimal
	PaymentMethod   *PaymentMethod
	ReferenceNumber *string
	Reason          *string
	CreatedBy       *string
}

// Add records a ledger entry. The store assigns the next number of the entry's
// sequence in the same database transaction as the insert.
func (s *Service) Add(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	tx := &Transaction{
		DealID:          params.DealID,
		Type:            params.Type,
		Amount:          *params.Amount,
		PaymentMethod:   params.PaymentMethod,
		ReferenceNumber: params.ReferenceNumber,
		Reason:          params.Reason,
		CreatedBy:       params.CreatedBy,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func validateCreate(params CreateParams) error {
	switch {
	case params.DealID == uuid.Nil:
		return apperr.Validation("deal_id is required")
	case params.Type == "":
		return apperr.Validation("transaction_type is required")
	case !params.Type.Valid():
		return apperr.Validation("invalid transaction_type %q", params.Type)
	case params.Amount == nil:
		return apperr.Validation("amount is required")
	case !params.Amount.IsPositive():
		return apperr.Validation("amount must be greater than zero")
	}

	if err := money.Validate("amount", *params.Amount); err != nil {
		return err
	}

	if params.Type.NeedsPaymentMethod() {
		if params.PaymentMethod == nil {
			return apperr.Validation("payment_method is required for %s", params.Type)
		}

		if !params.PaymentMethod.Valid() {
			return apperr.Validation("invalid payment_method %q", *params.PaymentMethod)
		}
	}

	if params.Type == TypeCreditNote && (params.Reason == nil || strings.TrimSpace(*params.Reason) == "") {
		return apperr.Validation("reason is required for credit_note")
	}

	return nil
}

func (s *Service) List(ctx context.Context, dealID uuid.UUID) ([]*Transaction, error) {
	if dealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	return s.repo.ListTransactions(ctx, dealID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Allocate links a deposit or payment to an active invoice on the same deal.
func (s *Service) Allocate(ctx context.Context, id, invoiceID uuid.UUID) error {
	if id == uuid.Nil {
		return apperr.Validation("transaction_id is required")
	}

	if invoiceID == uuid.Nil {
		return apperr.Validation("invoice_id is required")
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	switch {
	case !tx.Type.Collects():
		return apperr.Validation("only deposits and payments can be allocated, got %s", tx.Type)
	case inv.DealID != tx.DealID:
		return apperr.Validation("invoice %s belongs to another deal", inv.Number)
	case inv.Voided():
		return apperr.Validation("invoice %s is voided", inv.Number)
	}

	return s.repo.AllocateTransaction(ctx, id, invoiceID)
}

func (s *Service) Unallocate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperr.Validation("transaction_id is required")
	}

	return s.repo.UnallocateTransaction(ctx, id)
}

package charge

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=charge
type Repository interface {
	CreateCharge(ctx context.Context, c *Charge) error
	UpdateCharge(ctx context.Context, id uuid.UUID, params UpdateParams) (*Charge, error)
	DeleteCharge(ctx context.Context, id uuid.UUID) error
	ListCharges(ctx context.Context, dealID uuid.UUID) ([]*Charge, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AddParams struct {
	DealID      uuid.UUID
	Type        Type
	Description *string
	Amount      *decimal.Decimal
}

// UpdateParams carries a sparse update. Nil fields are left untouched.
type UpdateParams struct {
	Type        *Type
	Description *string
	Amount      *decimal.Decimal
}

func (p UpdateParams) empty() bool {
	return p.Type == nil && p.Description == nil && p.Amount == nil
}

func (s *Service) Add(ctx context.Context, params AddParams) (*Charge, error) {
	if err := validateAdd(params); err != nil {
		return nil, err
	}

	c := &Charge{
		DealID:      params.DealID,
		Type:        params.Type,
		Description: params.Description,
		Amount:      *params.Amount,
	}
	if err := s.repo.CreateCharge(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func validateAdd(params AddParams) error {
	switch {
	case params.DealID == uuid.Nil:
		return apperr.Validation("deal_id is required")
	case params.Type == "":
		return apperr.Validation("charge_type is required")
	case params.Amount == nil:
		return apperr.Validation("amount is required")
	case !params.Type.Valid():
		return apperr.Validation("invalid charge_type %q", params.Type)
	case params.Type == TypeOther && blank(params.Description):
		return ErrDescriptionRequired
	}

	return money.Validate("amount", *params.Amount)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Charge, error) {
	if params.empty() {
		return nil, apperr.Validation("no fields to update")
	}

	if params.Type != nil && !params.Type.Valid() {
		return nil, apperr.Validation("invalid charge_type %q", *params.Type)
	}

	if params.Description != nil && blank(params.Description) {
		return nil, apperr.Validation("description cannot be blank")
	}

	if params.Amount != nil {
		if err := money.Validate("amount", *params.Amount); err != nil {
			return nil, err
		}
	}

	// Switching to other without a description is rejected by the store
	// when the stored row has none.
	return s.repo.UpdateCharge(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCharge(ctx, id)
}

func (s *Service) List(ctx context.Context, dealID uuid.UUID) ([]*Charge, error) {
	if dealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	return s.repo.ListCharges(ctx, dealID)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

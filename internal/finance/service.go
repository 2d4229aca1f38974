package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=finance
type Repository interface {
	CreateApplication(ctx context.Context, app *Application) error
	ListApplications(ctx context.Context, dealID uuid.UUID) ([]*Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, params UpdateParams) (*Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error

	UpsertDocument(ctx context.Context, doc *Document) (bool, error)
	DeleteDocument(ctx context.Context, financeID, documentID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	DealID          uuid.UUID
	BankName        string
	LoanAmount      *decimal.Decimal
	ApplicationDate *time.Time
	ApplicationRef  *string
	Notes           *string
}

// UpdateParams carries a sparse update. Nil fields are left untouched.
type UpdateParams struct {
	BankName        *string
	LoanAmount      *decimal.Decimal
	ApplicationDate *time.Time
	ApplicationRef  *string
	Status          *Status
	Notes           *string
}

func (p UpdateParams) empty() bool {
	return p.BankName == nil && p.LoanAmount == nil && p.ApplicationDate == nil &&
		p.ApplicationRef == nil && p.Status == nil && p.Notes == nil
}

type UploadParams struct {
	FinanceID uuid.UUID
	Type      DocumentType
	FileURL   string
	FileName  string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Application, error) {
	if params.DealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	if strings.TrimSpace(params.BankName) == "" {
		return nil, apperr.Validation("bank_name is required")
	}

	if err := validateLoanAmount(params.LoanAmount); err != nil {
		return nil, err
	}

	app := &Application{
		DealID:          params.DealID,
		BankName:        strings.TrimSpace(params.BankName),
		LoanAmount:      params.LoanAmount,
		ApplicationDate: params.ApplicationDate,
		ApplicationRef:  params.ApplicationRef,
		Status:          StatusDocumentsReady,
		Notes:           params.Notes,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// List returns the deal's applications newest first, each with its documents.
func (s *Service) List(ctx context.Context, dealID uuid.UUID) ([]*Application, error) {
	if dealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	return s.repo.ListApplications(ctx, dealID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Application, error) {
	if params.empty() {
		return nil, apperr.Validation("no fields to update")
	}

	if params.BankName != nil && strings.TrimSpace(*params.BankName) == "" {
		return nil, apperr.Validation("bank_name cannot be empty")
	}

	if params.Status != nil && strings.TrimSpace(string(*params.Status)) == "" {
		return nil, apperr.Validation("status cannot be empty")
	}

	if err := validateLoanAmount(params.LoanAmount); err != nil {
		return nil, err
	}

	return s.repo.UpdateApplication(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteApplication(ctx, id)
}

func validateLoanAmount(d *decimal.Decimal) error {
	if d == nil {
		return nil
	}

	return money.Validate("loan_amount", *d)
}

// UploadDocument stores a document for an application. For every type except
// other, an existing document of the same type is replaced and updated is true.
func (s *Service) UploadDocument(ctx context.Context, params UploadParams) (doc *Document, updated bool, err error) {
	switch {
	case params.FinanceID == uuid.Nil:
		return nil, false, apperr.Validation("finance_id is required")
	case params.Type == "":
		return nil, false, apperr.Validation("document_type is required")
	case !params.Type.Valid():
		return nil, false, apperr.Validation("invalid document_type %q", params.Type)
	case strings.TrimSpace(params.FileURL) == "":
		return nil, false, apperr.Validation("file_url is required")
	case strings.TrimSpace(params.FileName) == "":
		return nil, false, apperr.Validation("file_name is required")
	}

	doc = &Document{
		FinanceID: params.FinanceID,
		Type:      params.Type,
		FileURL:   params.FileURL,
		FileName:  params.FileName,
	}

	updated, err = s.repo.UpsertDocument(ctx, doc)
	if err != nil {
		return nil, false, err
	}

	return doc, updated, nil
}

func (s *Service) DeleteDocument(ctx context.Context, financeID, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return apperr.Validation("document_id is required")
	}

	return s.repo.DeleteDocument(ctx, financeID, documentID)
}

package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/apperr"
)

var (
	ErrNotFound         = fmt.Errorf("finance application %w", apperr.ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("finance document %w", apperr.ErrNotFound)
)

// Status is free-form. The constants are the values the portal uses, but any
// non-empty string is accepted on update.
type Status string

const (
	StatusDocumentsReady Status = "documents_ready"
	StatusPending        Status = "pending"
	StatusDocsCollection Status = "docs_collection"
	StatusSubmitted      Status = "submitted"
	StatusUnderReview    Status = "under_review"
	StatusApproved       Status = "approved"
	StatusDeclined       Status = "declined"
	StatusCancelled      Status = "cancelled"
)

// DocumentType identifies a supporting document uploaded for an application.
type DocumentType string

const (
	DocumentEIDFront          DocumentType = "eid_front"
	DocumentEIDBack           DocumentType = "eid_back"
	DocumentPassport          DocumentType = "passport"
	DocumentVisa              DocumentType = "visa"
	DocumentSalaryCertificate DocumentType = "salary_certificate"
	DocumentBankStatements    DocumentType = "bank_statements"
	DocumentTradeLicense      DocumentType = "trade_license"
	DocumentVehicleQuotation  DocumentType = "vehicle_quotation"
	DocumentOther             DocumentType = "other"
)

var DocumentTypes = []DocumentType{
	DocumentEIDFront,
	DocumentEIDBack,
	DocumentPassport,
	DocumentVisa,
	DocumentSalaryCertificate,
	DocumentBankStatements,
	DocumentTradeLicense,
	DocumentVehicleQuotation,
	DocumentOther,
}

func (t DocumentType) Valid() bool {
	for _, v := range DocumentTypes {
		if t == v {
			return true
		}
	}

	return false
}

// Unique reports whether an application holds at most one document of this type.
func (t DocumentType) Unique() bool {
	return t != DocumentOther
}

// Application is a bank finance application attached to a deal.
type Application struct {
	ID              uuid.UUID
	DealID          uuid.UUID
	BankName        string
	LoanAmount      *decimal.Decimal
	ApplicationDate *time.Time
	ApplicationRef  *string
	Status          Status
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Documents       []*Document // Loaded by List
}

type Document struct {
	ID         uuid.UUID
	FinanceID  uuid.UUID
	Type       DocumentType
	FileURL    string
	FileName   string
	UploadedAt time.Time
}

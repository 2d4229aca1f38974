package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/finance"
)

type financeResponse struct {
	ID              uuid.UUID          `json:"id"`
	DealID          uuid.UUID          `json:"deal_id"`
	BankName        string             `json:"bank_name"`
	LoanAmount      *decimal.Decimal   `json:"loan_amount"`
	ApplicationDate *string            `json:"application_date"`
	ApplicationRef  *string            `json:"application_ref"`
	Status          finance.Status     `json:"status"`
	Notes           *string            `json:"notes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Documents       []documentResponse `json:"documents"`
}

type documentResponse struct {
	ID           uuid.UUID            `json:"id"`
	FinanceID    uuid.UUID            `json:"finance_id"`
	DocumentType finance.DocumentType `json:"document_type"`
	FileURL      string               `json:"file_url"`
	FileName     string               `json:"file_name"`
	UploadedAt   time.Time            `json:"uploaded_at"`
}

type financeEnvelope struct {
	Finance financeResponse `json:"finance"`
}

type financeListResponse struct {
	Finance []financeResponse `json:"finance"`
}

type documentEnvelope struct {
	Document documentResponse `json:"document"`
	Updated  bool             `json:"updated"`
}

func toResponse(app *finance.Application) financeResponse {
	resp := financeResponse{
		ID:             app.ID,
		DealID:         app.DealID,
		BankName:       app.BankName,
		LoanAmount:     app.LoanAmount,
		ApplicationRef: app.ApplicationRef,
		Status:         app.Status,
		Notes:          app.Notes,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
		Documents:      make([]documentResponse, len(app.Documents)),
	}

	if app.ApplicationDate != nil {
		resp.ApplicationDate = new(app.ApplicationDate.Format(time.DateOnly))
	}

	for i, doc := range app.Documents {
		resp.Documents[i] = toDocumentResponse(doc)
	}

	return resp
}

func toResponseList(apps []*finance.Application) []financeResponse {
	resp := make([]financeResponse, len(apps))
	for i, app := range apps {
		resp[i] = toResponse(app)
	}

	return resp
}

func toDocumentResponse(doc *finance.Document) documentResponse {
	return documentResponse{
		ID:           doc.ID,
		FinanceID:    doc.FinanceID,
		DocumentType: doc.Type,
		FileURL:      doc.FileURL,
		FileName:     doc.FileName,
		UploadedAt:   doc.UploadedAt,
	}
}

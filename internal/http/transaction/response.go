package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/transaction"
)

type transactionResponse struct {
	ID                 uuid.UUID                  `json:"id"`
	DealID             uuid.UUID                  `json:"deal_id"`
	TransactionNumber  string                     `json:"transaction_number"`
	Type               transaction.Type           `json:"transaction_type"`
	Amount             decimal.Decimal            `json:"amount"`
	PaymentMethod      *transaction.PaymentMethod `json:"payment_method"`
	ReferenceNumber    *string                    `json:"reference_number"`
	Reason             *string                    `json:"reason"`
	CreatedBy          *string                    `json:"created_by"`
	AllocatedInvoiceID *uuid.UUID                 `json:"allocated_invoice_id"`
	Invoice            *invoiceResponse           `json:"invoice,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
}

type invoiceResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Status        string    `json:"status"`
}

type transactionEnvelope struct {
	Transaction transactionResponse `json:"transaction"`
}

type transactionListResponse struct {
	Transactions []transactionResponse `json:"transactions"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:                 tx.ID,
		DealID:             tx.DealID,
		TransactionNumber:  tx.Number,
		Type:               tx.Type,
		Amount:             tx.Amount,
		PaymentMethod:      tx.PaymentMethod,
		ReferenceNumber:    tx.ReferenceNumber,
		Reason:             tx.Reason,
		CreatedBy:          tx.CreatedBy,
		AllocatedInvoiceID: tx.AllocatedInvoiceID,
		CreatedAt:          tx.CreatedAt,
	}

	if tx.Invoice != nil {
		resp.Invoice = &invoiceResponse{
			ID:            tx.Invoice.ID,
			InvoiceNumber: tx.Invoice.Number,
			Status:        tx.Invoice.Status,
		}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

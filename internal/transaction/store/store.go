package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var method sql.NullString

	var invoiceNumber, invoiceStatus sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.DealID, &tx.Number, &typeStr, &tx.Amount, &method,
		&tx.ReferenceNumber, &tx.Reason, &tx.CreatedBy, &tx.AllocatedInvoiceID,
		&invoiceNumber, &invoiceStatus, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	if method.Valid {
		tx.PaymentMethod = new(transaction.PaymentMethod(method.String))
	}

	if tx.AllocatedInvoiceID != nil && invoiceNumber.Valid {
		tx.Invoice = &transaction.Invoice{
			ID:     *tx.AllocatedInvoiceID,
			DealID: tx.DealID,
			Number: invoiceNumber.String,
			Status: invoiceStatus.String,
		}
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.deal_id, t.transaction_number, t.transaction_type, t.amount, t.payment_method,
	t.reference_number, t.reason, t.created_by, t.allocated_invoice_id,
	i.invoice_number, i.status, t.created_at
`

// CreateTransaction numbers and inserts the entry in one database transaction,
// so a failed insert never consumes a number.
func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	sequence, prefix := tx.Type.Numbering()

	n, err := database.NextDocumentNumber(ctx, dbTx, sequence)
	if err != nil {
		return err
	}

	tx.Number = database.FormatDocumentNumber(prefix, n)

	query := `
		INSERT INTO uv_transactions
			(deal_id, transaction_number, transaction_type, amount, payment_method, reference_number, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	var method *string
	if tx.PaymentMethod != nil {
		method = new(string(*tx.PaymentMethod))
	}

	err = dbTx.QueryRowContext(ctx, query,
		tx.DealID,
		tx.Number,
		tx.Type,
		tx.Amount,
		method,
		tx.ReferenceNumber,
		tx.Reason,
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM uv_transactions t
		LEFT JOIN uv_invoices i ON t.allocated_invoice_id = i.id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, dealID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM uv_transactions t
		LEFT JOIN uv_invoices i ON t.allocated_invoice_id = i.id
		WHERE t.deal_id = $1
		ORDER BY t.created_at ASC, t.id ASC`

	rows, err := s.db.QueryContext(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*transaction.Invoice, error) {
	query := `SELECT id, deal_id, invoice_number, status FROM uv_invoices WHERE id = $1`

	var inv transaction.Invoice

	err := s.db.QueryRowContext(ctx, query, id).Scan(&inv.ID, &inv.DealID, &inv.Number, &inv.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrInvoiceNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return &inv, nil
}

// AllocateTransaction links the transaction to the invoice provided the invoice
// is still active and on the same deal.
func (s *Store) AllocateTransaction(ctx context.Context, id, invoiceID uuid.UUID) error {
	query := `
		UPDATE uv_transactions t
		SET allocated_invoice_id = i.id
		FROM uv_invoices i
		WHERE t.id = $1 AND i.id = $2 AND i.status = 'active' AND i.deal_id = t.deal_id
	`

	res, err := s.db.ExecContext(ctx, query, id, invoiceID)
	if err != nil {
		return fmt.Errorf("allocating transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("allocating transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrAllocationChanged
	}

	return nil
}

func (s *Store) UnallocateTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE uv_transactions SET allocated_invoice_id = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unallocating transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unallocating transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

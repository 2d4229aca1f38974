package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/invoice"
)

const activeInvoiceIndex = "ux_uv_invoices_active_deal"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, deal_id, invoice_number, billing_period, total_amount,
	status, void_reason, voided_at, created_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	if err := s.Scan(
		&inv.ID, &inv.DealID, &inv.Number, &inv.BillingPeriod, &inv.TotalAmount,
		&statusStr, &inv.VoidReason, &inv.VoidedAt, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)

	return &inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, dealID uuid.UUID) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM uv_invoices
		WHERE deal_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

// AllocatedTotal sums the deposits and payments allocated to the invoice.
func (s *Store) AllocatedTotal(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM uv_transactions
		WHERE allocated_invoice_id = $1 AND transaction_type IN ('deposit', 'payment')
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing allocations: %w", err)
	}

	return total, nil
}

// VoidInvoice voids the invoice, releases its charges and clears every
// allocation pointing at it, all in one transaction.
func (s *Store) VoidInvoice(ctx context.Context, id uuid.UUID, reason string) (*invoice.Invoice, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var status string

	err = dbTx.QueryRowContext(ctx, `SELECT status FROM uv_invoices WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("locking invoice: %w", err)
	}

	if invoice.Status(status) == invoice.StatusVoided {
		return nil, invoice.ErrAlreadyVoided
	}

	voidQuery := `
		UPDATE uv_invoices
		SET status = 'voided', void_reason = $1, voided_at = NOW()
		WHERE id = $2
		RETURNING ` + selectInvoiceColumns

	inv, err := scanInvoice(dbTx.QueryRowContext(ctx, voidQuery, reason, id))
	if err != nil {
		return nil, fmt.Errorf("voiding invoice: %w", err)
	}

	releaseQuery := `
		UPDATE uv_charges
		SET invoice_id = NULL, billed_at = NULL, updated_at = NOW()
		WHERE invoice_id = $1
	`
	if _, err := dbTx.ExecContext(ctx, releaseQuery, id); err != nil {
		return nil, fmt.Errorf("releasing charges: %w", err)
	}

	unallocateQuery := `
		UPDATE uv_transactions
		SET allocated_invoice_id = NULL
		WHERE allocated_invoice_id = $1
	`
	if _, err := dbTx.ExecContext(ctx, unallocateQuery, id); err != nil {
		return nil, fmt.Errorf("unallocating transactions: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return inv, nil
}

type generationTx struct {
	tx *sql.Tx
}

func (s *Store) BeginGeneration(ctx context.Context) (invoice.GenerationTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning generation tx: %w", err)
	}

	return &generationTx{tx: dbTx}, nil
}

func (g *generationTx) Commit() error   { return g.tx.Commit() }
func (g *generationTx) Rollback() error { return g.tx.Rollback() }

// LockCharges row-locks the charges in id order so overlapping generations
// queue behind each other instead of deadlocking.
func (g *generationTx) LockCharges(ctx context.Context, ids []uuid.UUID) ([]*charge.Charge, error) {
	query := `
		SELECT id, deal_id, charge_type, description, amount, invoice_id, billed_at, created_at, updated_at
		FROM uv_charges
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`

	rows, err := g.tx.QueryContext(ctx, query, database.IDList(ids))
	if err != nil {
		return nil, fmt.Errorf("locking charges: %w", err)
	}
	defer rows.Close()

	var charges []*charge.Charge

	for rows.Next() {
		var c charge.Charge

		var typeStr string

		if err := rows.Scan(
			&c.ID, &c.DealID, &typeStr, &c.Description, &c.Amount,
			&c.InvoiceID, &c.BilledAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning charge: %w", err)
		}

		c.Type = charge.Type(typeStr)
		charges = append(charges, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charge rows: %w", err)
	}

	return charges, nil
}

func (g *generationTx) NextInvoiceNumber(ctx context.Context) (string, error) {
	n, err := database.NextDocumentNumber(ctx, g.tx, "invoice")
	if err != nil {
		return "", err
	}

	return database.FormatDocumentNumber("INV", n), nil
}

func (g *generationTx) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO uv_invoices (deal_id, invoice_number, billing_period, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := g.tx.QueryRowContext(ctx, query,
		inv.DealID,
		inv.Number,
		inv.BillingPeriod,
		inv.TotalAmount,
		inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, activeInvoiceIndex) {
			return invoice.ErrActiveInvoiceExists
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (g *generationTx) MarkBilled(ctx context.Context, invoiceID uuid.UUID, chargeIDs []uuid.UUID) error {
	query := `
		UPDATE uv_charges
		SET invoice_id = $1, billed_at = NOW(), updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND invoice_id IS NULL
	`

	res, err := g.tx.ExecContext(ctx, query, invoiceID, database.IDList(chargeIDs))
	if err != nil {
		return fmt.Errorf("marking charges billed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking charges billed: %w", err)
	}

	if n != int64(len(chargeIDs)) {
		return invoice.ErrChargeBilled
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/database"
)

const otherDescriptionConstraint = "uv_charges_other_description"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order matches selectChargeColumns.
func scanCharge(s scanner) (*charge.Charge, error) {
	var c charge.Charge

	var typeStr string

	if err := s.Scan(
		&c.ID, &c.DealID, &typeStr, &c.Description, &c.Amount,
		&c.InvoiceID, &c.BilledAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Type = charge.Type(typeStr)

	return &c, nil
}

const selectChargeColumns = `
	id, deal_id, charge_type, description, amount,
	invoice_id, billed_at, created_at, updated_at
`

func (s *Store) CreateCharge(ctx context.Context, c *charge.Charge) error {
	query := `
		INSERT INTO uv_charges (deal_id, charge_type, description, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.DealID,
		c.Type,
		c.Description,
		c.Amount,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsCheckViolation(err, otherDescriptionConstraint) {
			return charge.ErrDescriptionRequired
		}

		return fmt.Errorf("creating charge: %w", err)
	}

	return nil
}

func (s *Store) UpdateCharge(ctx context.Context, id uuid.UUID, params charge.UpdateParams) (*charge.Charge, error) {
	query := `
		UPDATE uv_charges
		SET charge_type = COALESCE($1, charge_type),
			description = COALESCE($2, description),
			amount = COALESCE($3, amount),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + selectChargeColumns

	var chargeType *string
	if params.Type != nil {
		chargeType = new(string(*params.Type))
	}

	c, err := scanCharge(s.db.QueryRowContext(ctx, query, chargeType, params.Description, params.Amount, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, charge.ErrNotFound
		}

		if database.IsCheckViolation(err, otherDescriptionConstraint) {
			return nil, charge.ErrDescriptionRequired
		}

		return nil, fmt.Errorf("updating charge: %w", err)
	}

	return c, nil
}

func (s *Store) DeleteCharge(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uv_charges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting charge: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting charge: %w", err)
	}

	if n == 0 {
		return charge.ErrNotFound
	}

	return nil
}

func (s *Store) ListCharges(ctx context.Context, dealID uuid.UUID) ([]*charge.Charge, error) {
	query := `SELECT ` + selectChargeColumns + `
		FROM uv_charges
		WHERE deal_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}
	defer rows.Close()

	var charges []*charge.Charge

	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning charge: %w", err)
		}

		charges = append(charges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charge rows: %w", err)
	}

	return charges, nil
}

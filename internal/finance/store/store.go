package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/finance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectApplicationColumns = `
	id, deal_id, bank_name, loan_amount, application_date, application_ref,
	status, notes, created_at, updated_at
`

func scanApplication(s scanner) (*finance.Application, error) {
	var app finance.Application

	var statusStr string

	if err := s.Scan(
		&app.ID, &app.DealID, &app.BankName, &app.LoanAmount, &app.ApplicationDate, &app.ApplicationRef,
		&statusStr, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	app.Status = finance.Status(statusStr)
	app.Documents = []*finance.Document{}

	return &app, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *finance.Application) error {
	query := `
		INSERT INTO uv_finance_applications
			(deal_id, bank_name, loan_amount, application_date, application_ref, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		app.DealID,
		app.BankName,
		app.LoanAmount,
		app.ApplicationDate,
		app.ApplicationRef,
		app.Status,
		app.Notes,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating finance application: %w", err)
	}

	app.Documents = []*finance.Document{}

	return nil
}

func (s *Store) ListApplications(ctx context.Context, dealID uuid.UUID) ([]*finance.Application, error) {
	query := `SELECT ` + selectApplicationColumns + `
		FROM uv_finance_applications
		WHERE deal_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("listing finance applications: %w", err)
	}
	defer rows.Close()

	var apps []*finance.Application

	byID := make(map[uuid.UUID]*finance.Application)

	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning finance application: %w", err)
		}

		apps = append(apps, app)
		byID[app.ID] = app
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating finance application rows: %w", err)
	}

	if len(apps) == 0 {
		return apps, nil
	}

	if err := s.attachDocuments(ctx, byID); err != nil {
		return nil, err
	}

	return apps, nil
}

func (s *Store) attachDocuments(ctx context.Context, byID map[uuid.UUID]*finance.Application) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, finance_id, document_type, file_url, file_name, uploaded_at
		FROM uv_finance_documents
		WHERE finance_id = ANY($1::uuid[])
		ORDER BY uploaded_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, database.IDList(ids))
	if err != nil {
		return fmt.Errorf("listing finance documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc finance.Document

		var typeStr string

		if err := rows.Scan(&doc.ID, &doc.FinanceID, &typeStr, &doc.FileURL, &doc.FileName, &doc.UploadedAt); err != nil {
			return fmt.Errorf("scanning finance document: %w", err)
		}

		doc.Type = finance.DocumentType(typeStr)

		app := byID[doc.FinanceID]
		app.Documents = append(app.Documents, &doc)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating finance document rows: %w", err)
	}

	return nil
}

func (s *Store) UpdateApplication(ctx context.Context, id uuid.UUID, params finance.UpdateParams) (*finance.Application, error) {
	query := `
		UPDATE uv_finance_applications
		SET bank_name = COALESCE($1, bank_name),
			loan_amount = COALESCE($2, loan_amount),
			application_date = COALESCE($3, application_date),
			application_ref = COALESCE($4, application_ref),
			status = COALESCE($5, status),
			notes = COALESCE($6, notes),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + selectApplicationColumns

	var status *string
	if params.Status != nil {
		status = new(string(*params.Status))
	}

	app, err := scanApplication(s.db.QueryRowContext(ctx, query,
		params.BankName,
		params.LoanAmount,
		params.ApplicationDate,
		params.ApplicationRef,
		status,
		params.Notes,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, finance.ErrNotFound
		}

		return nil, fmt.Errorf("updating finance application: %w", err)
	}

	return app, nil
}

func (s *Store) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uv_finance_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting finance application: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting finance application: %w", err)
	}

	if n == 0 {
		return finance.ErrNotFound
	}

	return nil
}

// UpsertDocument inserts doc, replacing the existing document of the same type
// unless the type allows duplicates. The returned flag is true when a row was
// replaced.
func (s *Store) UpsertDocument(ctx context.Context, doc *finance.Document) (bool, error) {
	query := `
		INSERT INTO uv_finance_documents (finance_id, document_type, file_url, file_name, uploaded_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, uploaded_at, false
	`

	if doc.Type.Unique() {
		query = `
			INSERT INTO uv_finance_documents (finance_id, document_type, file_url, file_name, uploaded_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (finance_id, document_type) WHERE document_type <> 'other'
			DO UPDATE SET file_url = EXCLUDED.file_url, file_name = EXCLUDED.file_name, uploaded_at = NOW()
			RETURNING id, uploaded_at, (xmax <> 0)
		`
	}

	var updated bool

	err := s.db.QueryRowContext(ctx, query,
		doc.FinanceID,
		doc.Type,
		doc.FileURL,
		doc.FileName,
	).Scan(&doc.ID, &doc.UploadedAt, &updated)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, finance.ErrNotFound
		}

		return false, fmt.Errorf("upserting finance document: %w", err)
	}

	return updated, nil
}

func (s *Store) DeleteDocument(ctx context.Context, financeID, documentID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM uv_finance_documents WHERE id = $1 AND finance_id = $2`,
		documentID, financeID,
	)
	if err != nil {
		return fmt.Errorf("deleting finance document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting finance document: %w", err)
	}

	if n == 0 {
		return finance.ErrDocumentNotFound
	}

	return nil
}

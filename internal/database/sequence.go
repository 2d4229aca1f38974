package database

import (
	"context"
	"database/sql"
	"fmt"
)

// NextDocumentNumber increments the gapless counter for docType inside tx.
// The row stays locked until tx ends, so a rolled back insert never burns a number.
func NextDocumentNumber(ctx context.Context, tx *sql.Tx, docType string) (int64, error) {
	query := `
		UPDATE uv_document_sequences
		SET last_value = last_value + 1
		WHERE document_type = $1
		RETURNING last_value
	`

	var next int64
	if err := tx.QueryRowContext(ctx, query, docType).Scan(&next); err != nil {
		return 0, fmt.Errorf("next %s number: %w", docType, err)
	}

	return next, nil
}

// FormatDocumentNumber renders a sequence value as PREFIX-000001.
func FormatDocumentNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

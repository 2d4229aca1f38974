package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/transaction"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrStorageUnavailable = errors.New("statement storage is not configured")

type ChargeLister interface {
	List(ctx context.Context, dealID uuid.UUID) ([]*charge.Charge, error)
}

type TransactionLister interface {
	List(ctx context.Context, dealID uuid.UUID) ([]*transaction.Transaction, error)
}

type InvoiceLister interface {
	List(ctx context.Context, dealID uuid.UUID) (*invoice.Ledger, error)
}

// Archiver stores workbooks and hands out temporary download links.
type Archiver interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Service builds statements of account from the ledger services.
type Service struct {
	charges      ChargeLister
	transactions TransactionLister
	invoices     InvoiceLister
	archive      Archiver
	urlExpiry    time.Duration
	now          func() time.Time
}

// NewService creates a statement Service. archive may be nil, which disables Archive.
func NewService(charges ChargeLister, transactions TransactionLister, invoices InvoiceLister, archive Archiver, urlExpiry time.Duration) *Service {
	return &Service{
		charges:      charges,
		transactions: transactions,
		invoices:     invoices,
		archive:      archive,
		urlExpiry:    urlExpiry,
		now:          time.Now,
	}
}

// Build gathers the deal's charges, transactions and invoices.
func (s *Service) Build(ctx context.Context, dealID uuid.UUID) (*Statement, error) {
	if dealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	st := &Statement{DealID: dealID, GeneratedAt: s.now()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		charges, err := s.charges.List(gctx, dealID)
		if err != nil {
			return fmt.Errorf("listing charges: %w", err)
		}

		st.Charges = charges

		return nil
	})

	g.Go(func() error {
		txs, err := s.transactions.List(gctx, dealID)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		st.Transactions = txs

		return nil
	})

	g.Go(func() error {
		ledger, err := s.invoices.List(gctx, dealID)
		if err != nil {
			return fmt.Errorf("listing invoices: %w", err)
		}

		st.Invoices = ledger.Invoices

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.totals()

	return st, nil
}

// FileName is the download name for the statement workbook.
func FileName(st *Statement) string {
	return fmt.Sprintf("soa_%s_%s.xlsx", st.DealID, st.GeneratedAt.Format("20060102_150405"))
}

// Export builds the statement and renders it as an XLSX workbook.
func (s *Service) Export(ctx context.Context, dealID uuid.UUID) (*Statement, []byte, error) {
	st, err := s.Build(ctx, dealID)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, st); err != nil {
		return nil, nil, err
	}

	return st, buf.Bytes(), nil
}

// Archive uploads the statement workbook and returns a presigned download URL.
func (s *Service) Archive(ctx context.Context, dealID uuid.UUID) (string, error) {
	if s.archive == nil {
		return "", ErrStorageUnavailable
	}

	st, data, err := s.Export(ctx, dealID)
	if err != nil {
		return "", err
	}

	key, err := s.archive.Upload(ctx, FileName(st), ContentType, data)
	if err != nil {
		return "", fmt.Errorf("uploading statement: %w", err)
	}

	url, err := s.archive.PresignedURL(ctx, key, s.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning statement: %w", err)
	}

	return url, nil
}

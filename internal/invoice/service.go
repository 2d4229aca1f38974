package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/charge"
)

// maxAllocationQueries bounds the aggregator fan-out so one deal cannot drain the pool.
const maxAllocationQueries = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	ListInvoices(ctx context.Context, dealID uuid.UUID) ([]*Invoice, error)
	AllocatedTotal(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	VoidInvoice(ctx context.Context, id uuid.UUID, reason string) (*Invoice, error)

	BeginGeneration(ctx context.Context) (GenerationTx, error)
}

// GenerationTx is one database transaction creating an invoice. Charges returned
// by LockCharges stay row-locked until Commit or Rollback.
type GenerationTx interface {
	LockCharges(ctx context.Context, ids []uuid.UUID) ([]*charge.Charge, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	MarkBilled(ctx context.Context, invoiceID uuid.UUID, chargeIDs []uuid.UUID) error
	Commit() error
	Rollback() error
}

// IdempotencyCache remembers which invoice a generation request produced.
//
// Reserve claims key for the caller. When the key is already held, reserved is
// false and invoiceID is the invoice the holder produced, or uuid.Nil while the
// holder is still generating. Complete records the outcome of a reservation and
// Release drops a reservation whose generation failed.
type IdempotencyCache interface {
	Reserve(ctx context.Context, key string) (invoiceID uuid.UUID, reserved bool, err error)
	Complete(ctx context.Context, key string, invoiceID uuid.UUID) error
	Release(ctx context.Context, key string) error
}

type Service struct {
	repo  Repository
	cache IdempotencyCache
}

// NewService builds the invoice service. cache may be nil, in which case
// idempotency keys are ignored.
func NewService(repo Repository, cache IdempotencyCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns every invoice on the deal with its allocated total and balance.
func (s *Service) List(ctx context.Context, dealID uuid.UUID) (*Ledger, error) {
	if dealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	invoices, err := s.repo.ListInvoices(ctx, dealID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, len(invoices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxAllocationQueries)

	for i, inv := range invoices {
		g.Go(func() error {
			allocated, err := s.repo.AllocatedTotal(gctx, inv.ID)
			if err != nil {
				return fmt.Errorf("allocated total for %s: %w", inv.Number, err)
			}

			summaries[i] = &Summary{
				Invoice:         *inv,
				AllocatedAmount: allocated,
				Balance:         inv.TotalAmount.Sub(allocated),
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Invoices:       summaries,
		VoidedInvoices: []*Summary{},
	}

	for _, sm := range summaries {
		switch sm.Status {
		case StatusActive:
			if ledger.ActiveInvoice == nil {
				ledger.ActiveInvoice = sm
			}
		case StatusVoided:
			ledger.VoidedInvoices = append(ledger.VoidedInvoices, sm)
		}
	}

	ledger.HasActiveInvoice = ledger.ActiveInvoice != nil

	return ledger, nil
}

type GenerateParams struct {
	DealID         uuid.UUID
	BillingPeriod  string
	ChargeIDs      []uuid.UUID
	IdempotencyKey string
}

type GenerateResult struct {
	InvoiceID uuid.UUID
	Invoice   *Invoice // Nil when Replayed
	Replayed  bool
}

// Generate bills the given charges on a new active invoice. Either every step
// commits or nothing does.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	ids, err := validateGenerate(params)
	if err != nil {
		return nil, err
	}

	useCache := s.cache != nil && params.IdempotencyKey != ""
	key := idempotencyKey(params.DealID, params.IdempotencyKey)

	if useCache {
		id, reserved, err := s.cache.Reserve(ctx, key)
		switch {
		case err != nil:
			slog.Warn("idempotency reserve failed", "key", key, "error", err)
			useCache = false
		case !reserved && id != uuid.Nil:
			return &GenerateResult{InvoiceID: id, Replayed: true}, nil
		case !reserved:
			return nil, ErrGenerationInProgress
		}
	}

	inv, err := s.generate(ctx, params.DealID, params.BillingPeriod, ids)
	if err != nil {
		if useCache {
			if relErr := s.cache.Release(context.WithoutCancel(ctx), key); relErr != nil {
				slog.Warn("idempotency release failed", "key", key, "error", relErr)
			}
		}

		return nil, err
	}

	if useCache {
		if err := s.cache.Complete(context.WithoutCancel(ctx), key, inv.ID); err != nil {
			slog.Warn("idempotency complete failed", "key", key, "error", err)
		}
	}

	return &GenerateResult{InvoiceID: inv.ID, Invoice: inv}, nil
}

// idempotencyKey scopes a caller's key to the deal it generates for.
func idempotencyKey(dealID uuid.UUID, key string) string {
	return dealID.String() + ":" + key
}

func validateGenerate(params GenerateParams) ([]uuid.UUID, error) {
	if params.DealID == uuid.Nil {
		return nil, apperr.Validation("deal_id is required")
	}

	if len(params.ChargeIDs) == 0 {
		return nil, apperr.Validation("charge_ids is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(params.ChargeIDs))
	ids := make([]uuid.UUID, 0, len(params.ChargeIDs))

	for _, id := range params.ChargeIDs {
		if id == uuid.Nil {
			return nil, apperr.Validation("charge_ids contains an empty id")
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *Service) generate(ctx context.Context, dealID uuid.UUID, billingPeriod string, ids []uuid.UUID) (*Invoice, error) {
	gtx, err := s.repo.BeginGeneration(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin generation: %w", err)
	}
	defer gtx.Rollback()

	charges, err := gtx.LockCharges(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock charges: %w", err)
	}

	if err := checkCharges(dealID, ids, charges); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}

	number, err := gtx.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	inv := &Invoice{
		DealID:      dealID,
		Number:      number,
		TotalAmount: total,
		Status:      StatusActive,
	}

	if period := strings.TrimSpace(billingPeriod); period != "" {
		inv.BillingPeriod = &period
	}

	if err := gtx.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if err := gtx.MarkBilled(ctx, inv.ID, ids); err != nil {
		return nil, err
	}

	if err := gtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit generation: %w", err)
	}

	return inv, nil
}

func checkCharges(dealID uuid.UUID, ids []uuid.UUID, charges []*charge.Charge) error {
	found := make(map[uuid.UUID]*charge.Charge, len(charges))
	for _, c := range charges {
		found[c.ID] = c
	}

	for _, id := range ids {
		c, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrChargeNotFound, id)
		}

		if c.DealID != dealID {
			return apperr.Validation("charge %s does not belong to deal %s", id, dealID)
		}

		if c.Billed() {
			return fmt.Errorf("%w: %s", ErrChargeBilled, id)
		}
	}

	return nil
}

// Void marks the invoice voided and releases its charges and allocations so a
// corrected invoice can be generated.
func (s *Service) Void(ctx context.Context, id uuid.UUID, reason string) (*Invoice, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("reason is required")
	}

	return s.repo.VoidInvoice(ctx, id, reason)
}

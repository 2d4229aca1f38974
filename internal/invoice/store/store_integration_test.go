package store_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/charge"
	chargestore "github.com/uvdesk/uvledger/internal/charge/store"
	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/invoice/store"
)

// openTestDB connects to the database named by LEDGER_TEST_DATABASE_URL and
// applies migrations. Tests are skipped when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.Migrate(connStr))

	db, err := database.New(context.Background(), connStr, database.Pool{})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func addCharges(t *testing.T, db *sql.DB, dealID uuid.UUID) []uuid.UUID {
	t.Helper()

	charges := charge.NewService(chargestore.New(db))

	var ids []uuid.UUID

	for _, p := range []struct {
		typ    charge.Type
		amount int64
	}{
		{charge.TypeVehiclePrice, 50000},
		{charge.TypeRTAFee, 500},
	} {
		c, err := charges.Add(context.Background(), charge.AddParams{
			DealID: dealID,
			Type:   p.typ,
			Amount: new(decimal.NewFromInt(p.amount)),
		})
		require.NoError(t, err)

		ids = append(ids, c.ID)
	}

	return ids
}

func TestGenerate_ConcurrentCallsBillOnce(t *testing.T) {
	db := openTestDB(t)

	dealID := uuid.New()
	ids := addCharges(t, db, dealID)
	svc := invoice.NewService(store.New(db), nil)

	const callers = 2

	var (
		wg      sync.WaitGroup
		results = make([]*invoice.GenerateResult, callers)
		errs    = make([]error, callers)
	)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = svc.Generate(context.Background(), invoice.GenerateParams{
				DealID:        dealID,
				BillingPeriod: "2025-01",
				ChargeIDs:     ids,
			})
		}()
	}

	wg.Wait()

	var succeeded int

	for i := range callers {
		if errs[i] == nil {
			succeeded++

			assert.True(t, decimal.NewFromInt(50500).Equal(results[i].Invoice.TotalAmount))

			continue
		}

		assert.ErrorIs(t, errs[i], apperr.ErrConflict)
	}

	assert.Equal(t, 1, succeeded)

	ledger, err := svc.List(context.Background(), dealID)
	require.NoError(t, err)
	assert.Len(t, ledger.Invoices, 1)
	assert.True(t, ledger.HasActiveInvoice)
}

func TestVoid_ReleasesChargesForRegeneration(t *testing.T) {
	db := openTestDB(t)

	ctx := context.Background()
	dealID := uuid.New()
	ids := addCharges(t, db, dealID)
	svc := invoice.NewService(store.New(db), nil)

	first, err := svc.Generate(ctx, invoice.GenerateParams{DealID: dealID, ChargeIDs: ids})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, invoice.GenerateParams{DealID: dealID, ChargeIDs: ids[:1]})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	voided, err := svc.Void(ctx, first.InvoiceID, "Wrong billing period")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusVoided, voided.Status)

	_, err = svc.Void(ctx, first.InvoiceID, "again")
	assert.ErrorIs(t, err, invoice.ErrAlreadyVoided)

	second, err := svc.Generate(ctx, invoice.GenerateParams{DealID: dealID, BillingPeriod: "2025-02", ChargeIDs: ids})
	require.NoError(t, err)
	assert.NotEqual(t, first.Invoice.Number, second.Invoice.Number)

	ledger, err := svc.List(ctx, dealID)
	require.NoError(t, err)
	require.Len(t, ledger.Invoices, 2)
	assert.Equal(t, second.InvoiceID, ledger.ActiveInvoice.ID)
	assert.Len(t, ledger.VoidedInvoices, 1)
}

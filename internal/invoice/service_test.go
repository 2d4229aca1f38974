package invoice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_List(t *testing.T) {
	dealID := uuid.New()
	now := time.Now()

	active := &invoice.Invoice{
		ID: uuid.New(), DealID: dealID, Number: "INV-000002",
		TotalAmount: dec("50500"), Status: invoice.StatusActive, CreatedAt: now,
	}
	voided := &invoice.Invoice{
		ID: uuid.New(), DealID: dealID, Number: "INV-000001",
		TotalAmount: dec("48000"), Status: invoice.StatusVoided, CreatedAt: now.Add(-time.Hour),
	}

	type testCase struct {
		name      string
		setupMock func(m *invoice.MockRepository)
		check     func(t *testing.T, got *invoice.Ledger)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "ActiveWithPayment",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().ListInvoices(gomock.Any(), dealID).Return([]*invoice.Invoice{active, voided}, nil)
				m.EXPECT().AllocatedTotal(gomock.Any(), active.ID).Return(dec("30000"), nil)
				m.EXPECT().AllocatedTotal(gomock.Any(), voided.ID).Return(decimal.Zero, nil)
			},
			check: func(t *testing.T, got *invoice.Ledger) {
				require.Len(t, got.Invoices, 2)
				assert.Equal(t, active.ID, got.Invoices[0].ID)
				assert.Equal(t, voided.ID, got.Invoices[1].ID)

				require.NotNil(t, got.ActiveInvoice)
				assert.True(t, got.HasActiveInvoice)
				assert.True(t, dec("30000").Equal(got.ActiveInvoice.AllocatedAmount))
				assert.True(t, dec("20500").Equal(got.ActiveInvoice.Balance))

				require.Len(t, got.VoidedInvoices, 1)
				assert.Equal(t, voided.ID, got.VoidedInvoices[0].ID)

				for _, sm := range got.Invoices {
					assert.True(t, sm.TotalAmount.Sub(sm.AllocatedAmount).Equal(sm.Balance), sm.Number)
				}
			},
		},
		{
			name: "NoInvoices",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().ListInvoices(gomock.Any(), dealID).Return(nil, nil)
			},
			check: func(t *testing.T, got *invoice.Ledger) {
				assert.Empty(t, got.Invoices)
				assert.Nil(t, got.ActiveInvoice)
				assert.False(t, got.HasActiveInvoice)
				assert.NotNil(t, got.VoidedInvoices)
			},
		},
		{
			name: "AllocationQueryFails",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().ListInvoices(gomock.Any(), dealID).Return([]*invoice.Invoice{active}, nil)
				m.EXPECT().AllocatedTotal(gomock.Any(), active.ID).Return(decimal.Zero, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "ListFails",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().ListInvoices(gomock.Any(), dealID).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := invoice.NewService(repo, nil).List(context.Background(), dealID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_List_AllocatedSumMatchesTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)

	dealID := uuid.New()
	repo := invoice.NewMockRepository(ctrl)

	// Allocated deposits and payments per invoice, as the store would sum them.
	allocations := map[uuid.UUID][]decimal.Decimal{
		uuid.New(): {dec("1000.10"), dec("2000.20")},
		uuid.New(): {dec("0.01"), dec("0.02"), dec("0.07")},
		uuid.New(): nil,
	}

	var invoices []*invoice.Invoice

	want := decimal.Zero

	for id, amounts := range allocations {
		invoices = append(invoices, &invoice.Invoice{ID: id, TotalAmount: dec("5000"), Status: invoice.StatusVoided})

		sum := decimal.Zero
		for _, a := range amounts {
			sum = sum.Add(a)
		}

		want = want.Add(sum)
		repo.EXPECT().AllocatedTotal(gomock.Any(), id).Return(sum, nil)
	}

	repo.EXPECT().ListInvoices(gomock.Any(), dealID).Return(invoices, nil)

	got, err := invoice.NewService(repo, nil).List(context.Background(), dealID)
	require.NoError(t, err)

	total := decimal.Zero
	for _, sm := range got.Invoices {
		total = total.Add(sm.AllocatedAmount)
	}

	assert.True(t, want.Equal(total), "want %s got %s", want, total)
	assert.Len(t, got.VoidedInvoices, 3)
}

func TestService_List_MissingDeal(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := invoice.NewService(invoice.NewMockRepository(ctrl), nil).List(context.Background(), uuid.Nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestService_Generate(t *testing.T) {
	dealID := uuid.New()
	otherDeal := uuid.New()
	c1 := &charge.Charge{ID: uuid.New(), DealID: dealID, Type: charge.TypeVehiclePrice, Amount: dec("50000")}
	c2 := &charge.Charge{ID: uuid.New(), DealID: dealID, Type: charge.TypeRTAFee, Amount: dec("500")}
	billed := &charge.Charge{ID: uuid.New(), DealID: dealID, Type: charge.TypeInsurance, Amount: dec("1200"), InvoiceID: new(uuid.New())}
	foreign := &charge.Charge{ID: uuid.New(), DealID: otherDeal, Type: charge.TypeRTAFee, Amount: dec("500")}

	type testCase struct {
		name      string
		params    invoice.GenerateParams
		setupMock func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx)
		wantTotal string
		wantErr   error
		wantValid bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: invoice.GenerateParams{DealID: dealID, BillingPeriod: "2025-01", ChargeIDs: []uuid.UUID{c1.ID, c2.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gomock.InOrder(
					gtx.EXPECT().LockCharges(gomock.Any(), []uuid.UUID{c1.ID, c2.ID}).Return([]*charge.Charge{c1, c2}, nil),
					gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000001", nil),
					gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
							inv.ID = uuid.New()
							return nil
						}),
					gtx.EXPECT().MarkBilled(gomock.Any(), gomock.Any(), []uuid.UUID{c1.ID, c2.ID}).Return(nil),
					gtx.EXPECT().Commit().Return(nil),
				)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantTotal: "50500",
		},
		{
			name:   "DuplicateIDsCollapsed",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c2.ID, c2.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), []uuid.UUID{c2.ID}).Return([]*charge.Charge{c2}, nil)
				gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000002", nil)
				gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
				gtx.EXPECT().MarkBilled(gomock.Any(), gomock.Any(), []uuid.UUID{c2.ID}).Return(nil)
				gtx.EXPECT().Commit().Return(nil)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantTotal: "500",
		},
		{
			name:   "ChargeMissing",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID, uuid.New()}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "ChargeAlreadyBilled",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID, billed.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1, billed}, nil)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: invoice.ErrChargeBilled,
		},
		{
			name:   "ChargeOnOtherDeal",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{foreign.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{foreign}, nil)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantValid: true,
		},
		{
			name:   "ActiveInvoiceExists",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
				gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000003", nil)
				gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(invoice.ErrActiveInvoiceExists)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:   "MarkBilledLosesRace",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
				gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000004", nil)
				gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
				gtx.EXPECT().MarkBilled(gomock.Any(), gomock.Any(), gomock.Any()).Return(invoice.ErrChargeBilled)
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: invoice.ErrChargeBilled,
		},
		{
			name:   "CommitFails",
			params: invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID}},
			setupMock: func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx) {
				repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
				gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
				gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000005", nil)
				gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
				gtx.EXPECT().MarkBilled(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				gtx.EXPECT().Commit().Return(errors.New("connection reset"))
				gtx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("any"),
		},
		{
			name:      "NoCharges",
			params:    invoice.GenerateParams{DealID: dealID},
			wantValid: true,
		},
		{
			name:      "MissingDeal",
			params:    invoice.GenerateParams{ChargeIDs: []uuid.UUID{c1.ID}},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := invoice.NewMockRepository(ctrl)
			gtx := invoice.NewMockGenerationTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, gtx)
			}

			got, err := invoice.NewService(repo, nil).Generate(context.Background(), tt.params)

			switch {
			case tt.wantValid:
				assert.True(t, apperr.IsValidation(err), "got %v", err)
				assert.Nil(t, got)
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, apperr.ErrNotFound) || errors.Is(tt.wantErr, apperr.ErrConflict) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			default:
				require.NoError(t, err)
				assert.False(t, got.Replayed)
				require.NotNil(t, got.Invoice)
				assert.Equal(t, got.InvoiceID, got.Invoice.ID)
				assert.Equal(t, invoice.StatusActive, got.Invoice.Status)
				assert.True(t, dec(tt.wantTotal).Equal(got.Invoice.TotalAmount))
			}
		})
	}
}

func TestService_Generate_Idempotency(t *testing.T) {
	dealID := uuid.New()
	c1 := &charge.Charge{ID: uuid.New(), DealID: dealID, Amount: dec("500")}
	params := invoice.GenerateParams{DealID: dealID, ChargeIDs: []uuid.UUID{c1.ID}, IdempotencyKey: "req-1"}
	key := dealID.String() + ":req-1"

	expectCommit := func(repo *invoice.MockRepository, gtx *invoice.MockGenerationTx, invoiceID uuid.UUID) {
		repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
		gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
		gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000010", nil)
		gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				inv.ID = invoiceID
				return nil
			})
		gtx.EXPECT().MarkBilled(gomock.Any(), invoiceID, gomock.Any()).Return(nil)
		gtx.EXPECT().Commit().Return(nil)
		gtx.EXPECT().Rollback().Return(nil)
	}

	t.Run("Replay", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		prior := uuid.New()
		repo := invoice.NewMockRepository(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)
		cache.EXPECT().Reserve(gomock.Any(), key).Return(prior, false, nil)

		got, err := invoice.NewService(repo, cache).Generate(context.Background(), params)
		require.NoError(t, err)
		assert.True(t, got.Replayed)
		assert.Equal(t, prior, got.InvoiceID)
		assert.Nil(t, got.Invoice)
	})

	t.Run("KeyInFlight", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := invoice.NewMockRepository(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)
		cache.EXPECT().Reserve(gomock.Any(), key).Return(uuid.Nil, false, nil)

		_, err := invoice.NewService(repo, cache).Generate(context.Background(), params)
		assert.ErrorIs(t, err, invoice.ErrGenerationInProgress)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("KeysAreScopedToDeal", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		otherDeal := uuid.New()
		otherCharge := &charge.Charge{ID: uuid.New(), DealID: otherDeal, Amount: dec("10")}
		invoiceID := uuid.New()

		repo := invoice.NewMockRepository(ctrl)
		gtx := invoice.NewMockGenerationTx(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)

		otherKey := otherDeal.String() + ":req-1"
		cache.EXPECT().Reserve(gomock.Any(), otherKey).Return(uuid.Nil, true, nil)
		repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
		gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{otherCharge}, nil)
		gtx.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000011", nil)
		gtx.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				inv.ID = invoiceID
				return nil
			})
		gtx.EXPECT().MarkBilled(gomock.Any(), invoiceID, gomock.Any()).Return(nil)
		gtx.EXPECT().Commit().Return(nil)
		gtx.EXPECT().Rollback().Return(nil)
		cache.EXPECT().Complete(gomock.Any(), otherKey, invoiceID).Return(nil)

		got, err := invoice.NewService(repo, cache).Generate(context.Background(), invoice.GenerateParams{
			DealID: otherDeal, ChargeIDs: []uuid.UUID{otherCharge.ID}, IdempotencyKey: "req-1",
		})
		require.NoError(t, err)
		assert.False(t, got.Replayed)
	})

	t.Run("FirstCallCompletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		invoiceID := uuid.New()
		repo := invoice.NewMockRepository(ctrl)
		gtx := invoice.NewMockGenerationTx(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)

		cache.EXPECT().Reserve(gomock.Any(), key).Return(uuid.Nil, true, nil)
		expectCommit(repo, gtx, invoiceID)
		cache.EXPECT().Complete(gomock.Any(), key, invoiceID).Return(nil)

		got, err := invoice.NewService(repo, cache).Generate(context.Background(), params)
		require.NoError(t, err)
		assert.False(t, got.Replayed)
		assert.Equal(t, invoiceID, got.InvoiceID)
	})

	t.Run("CacheDownFallsThrough", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		invoiceID := uuid.New()
		repo := invoice.NewMockRepository(ctrl)
		gtx := invoice.NewMockGenerationTx(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)

		cache.EXPECT().Reserve(gomock.Any(), key).Return(uuid.Nil, false, errors.New("redis down"))
		expectCommit(repo, gtx, invoiceID)
		cache.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		got, err := invoice.NewService(repo, cache).Generate(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, invoiceID, got.InvoiceID)
	})

	t.Run("FailureReleasesKey", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := invoice.NewMockRepository(ctrl)
		gtx := invoice.NewMockGenerationTx(ctrl)
		cache := invoice.NewMockIdempotencyCache(ctrl)

		cache.EXPECT().Reserve(gomock.Any(), key).Return(uuid.Nil, true, nil)
		repo.EXPECT().BeginGeneration(gomock.Any()).Return(gtx, nil)
		gtx.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return(nil, nil)
		gtx.EXPECT().Rollback().Return(nil)
		cache.EXPECT().Release(gomock.Any(), key).Return(nil)
		cache.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := invoice.NewService(repo, cache).Generate(context.Background(), params)
		assert.ErrorIs(t, err, invoice.ErrChargeNotFound)
	})
}

func TestService_Run(t *testing.T) {
	dealID := uuid.New()
	c1 := &charge.Charge{ID: uuid.New(), DealID: dealID, Amount: dec("50000")}
	params := invoice.GenerateParams{DealID: dealID, BillingPeriod: "2025-01", ChargeIDs: []uuid.UUID{c1.ID}}

	ctrl := gomock.NewController(t)

	repo := invoice.NewMockRepository(ctrl)
	failing := invoice.NewMockGenerationTx(ctrl)
	succeeding := invoice.NewMockGenerationTx(ctrl)
	invoiceID := uuid.New()

	gomock.InOrder(
		repo.EXPECT().BeginGeneration(gomock.Any()).Return(failing, nil),
		repo.EXPECT().BeginGeneration(gomock.Any()).Return(succeeding, nil),
	)

	failing.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
	failing.EXPECT().NextInvoiceNumber(gomock.Any()).Return("", errors.New("lock timeout"))
	failing.EXPECT().Rollback().Return(nil)

	succeeding.EXPECT().LockCharges(gomock.Any(), gomock.Any()).Return([]*charge.Charge{c1}, nil)
	succeeding.EXPECT().NextInvoiceNumber(gomock.Any()).Return("INV-000001", nil)
	succeeding.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = invoiceID
			return nil
		})
	succeeding.EXPECT().MarkBilled(gomock.Any(), invoiceID, []uuid.UUID{c1.ID}).Return(nil)
	succeeding.EXPECT().Commit().Return(nil)
	succeeding.EXPECT().Rollback().Return(nil)

	svc := invoice.NewService(repo, nil)
	attempt := invoice.NewAttempt(params)
	assert.Equal(t, invoice.StateIdle, attempt.State)

	var completed []uuid.UUID

	onComplete := func(id uuid.UUID) { completed = append(completed, id) }

	err := svc.Run(context.Background(), attempt, onComplete)
	require.Error(t, err)
	assert.Equal(t, invoice.StateRolledBack, attempt.State)
	assert.Equal(t, invoice.RolledBackMessage, attempt.Message())
	assert.Empty(t, completed)

	// The same charges can be retried after a rollback.
	require.NoError(t, svc.Run(context.Background(), attempt, onComplete))
	assert.Equal(t, invoice.StateCommitted, attempt.State)
	assert.Equal(t, invoiceID, attempt.InvoiceID)
	assert.Equal(t, []uuid.UUID{invoiceID}, completed)
	assert.NoError(t, attempt.Err)

	assert.ErrorIs(t, svc.Run(context.Background(), attempt, onComplete), invoice.ErrAttemptStarted)
}

func TestService_Void(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		reason    string
		setupMock func(m *invoice.MockRepository)
		wantErr   error
		wantValid bool
	}

	tests := []testCase{
		{
			name:   "Success",
			reason: "Wrong billing period",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "Wrong billing period").
					Return(&invoice.Invoice{ID: id, Status: invoice.StatusVoided}, nil)
			},
		},
		{
			name:   "AlreadyVoided",
			reason: "Duplicate",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "Duplicate").Return(nil, invoice.ErrAlreadyVoided)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:   "NotFound",
			reason: "Duplicate",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().VoidInvoice(gomock.Any(), id, "Duplicate").Return(nil, invoice.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:      "MissingReason",
			reason:    " ",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := invoice.NewService(repo, nil).Void(context.Background(), id, tt.reason)

			switch {
			case tt.wantValid:
				assert.True(t, apperr.IsValidation(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, invoice.StatusVoided, got.Status)
			}
		})
	}
}

// The aggregator runs its per-invoice queries concurrently.
func TestService_List_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)

	dealID := uuid.New()
	repo := invoice.NewMockRepository(ctrl)

	const n = 4

	invoices := make([]*invoice.Invoice, n)
	for i := range invoices {
		invoices[i] = &invoice.Invoice{ID: uuid.New(), TotalAmount: dec("100"), Status: invoice.StatusVoided}
	}

	var wg sync.WaitGroup
	wg.Add(n)

	repo.EXPECT().ListInvoices(gomock.Any(), dealID).Return(invoices, nil)
	repo.EXPECT().AllocatedTotal(gomock.Any(), gomock.Any()).Times(n).
		DoAndReturn(func(ctx context.Context, _ uuid.UUID) (decimal.Decimal, error) {
			wg.Done()
			wg.Wait()
			return dec("10"), nil
		})

	done := make(chan struct{})

	go func() {
		defer close(done)

		got, err := invoice.NewService(repo, nil).List(context.Background(), dealID)
		assert.NoError(t, err)
		assert.Len(t, got.Invoices, n)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("allocation queries did not run concurrently")
	}
}

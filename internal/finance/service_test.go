package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/uvdesk/uvledger/internal/apperr"
	"github.com/uvdesk/uvledger/internal/finance"
)

func TestService_Create(t *testing.T) {
	dealID := uuid.New()

	type testCase struct {
		name      string
		params    finance.CreateParams
		setupMock func(m *finance.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: finance.CreateParams{
				DealID:     dealID,
				BankName:   "Emirates NBD",
				LoanAmount: new(decimal.RequireFromString("85000.00")),
			},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().
					CreateApplication(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, app *finance.Application) error {
						app.ID = uuid.New()
						app.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:    "MissingDeal",
			params:  finance.CreateParams{BankName: "ADCB"},
			wantErr: true,
		},
		{
			name:    "MissingBank",
			params:  finance.CreateParams{DealID: dealID, BankName: "  "},
			wantErr: true,
		},
		{
			name: "SubCentLoanAmount",
			params: finance.CreateParams{
				DealID:     dealID,
				BankName:   "ADCB",
				LoanAmount: new(decimal.RequireFromString("85000.001")),
			},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: finance.CreateParams{DealID: dealID, BankName: "ADCB"},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().CreateApplication(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := finance.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := finance.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, finance.StatusDocumentsReady, got.Status)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)

	dealID := uuid.New()
	newer := &finance.Application{ID: uuid.New(), Documents: []*finance.Document{{Type: finance.DocumentPassport}}}
	older := &finance.Application{ID: uuid.New(), Documents: []*finance.Document{}}

	repo := finance.NewMockRepository(ctrl)
	repo.EXPECT().ListApplications(gomock.Any(), dealID).Return([]*finance.Application{newer, older}, nil)

	svc := finance.NewService(repo)

	got, err := svc.List(context.Background(), dealID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Len(t, got[0].Documents, 1)

	_, err = svc.List(context.Background(), uuid.Nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		params    finance.UpdateParams
		setupMock func(m *finance.MockRepository)
		wantErr   error
		wantValid bool
	}

	tests := []testCase{
		{
			name:   "FreeFormStatus",
			params: finance.UpdateParams{Status: new(finance.Status("awaiting_valuation"))},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().
					UpdateApplication(gomock.Any(), id, gomock.Any()).
					Return(&finance.Application{ID: id, Status: "awaiting_valuation"}, nil)
			},
		},
		{
			// No row is created for a missing id.
			name:   "ApproveMissingApplication",
			params: finance.UpdateParams{Status: new(finance.StatusApproved)},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().UpdateApplication(gomock.Any(), id, gomock.Any()).Return(nil, finance.ErrNotFound)
				m.EXPECT().CreateApplication(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:      "EmptyBankName",
			params:    finance.UpdateParams{BankName: new("")},
			wantValid: true,
		},
		{
			name:      "LoanAmountOutOfRange",
			params:    finance.UpdateParams{LoanAmount: new(decimal.New(5, 13))},
			wantValid: true,
		},
		{
			name:      "NoFields",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := finance.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := finance.NewService(repo)
			got, err := svc.Update(context.Background(), id, tt.params)

			switch {
			case tt.wantValid:
				assert.True(t, apperr.IsValidation(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, *tt.params.Status, got.Status)
			}
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)

	id := uuid.New()
	repo := finance.NewMockRepository(ctrl)
	repo.EXPECT().DeleteApplication(gomock.Any(), id).Return(finance.ErrNotFound)

	err := finance.NewService(repo).Delete(context.Background(), id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_UploadDocument(t *testing.T) {
	financeID := uuid.New()

	type testCase struct {
		name        string
		params      finance.UploadParams
		setupMock   func(m *finance.MockRepository)
		wantUpdated bool
		wantErr     bool
	}

	tests := []testCase{
		{
			name: "FirstUpload",
			params: finance.UploadParams{
				FinanceID: financeID, Type: finance.DocumentPassport,
				FileURL: "https://files.example.com/p.pdf", FileName: "p.pdf",
			},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().UpsertDocument(gomock.Any(), gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "Replace",
			params: finance.UploadParams{
				FinanceID: financeID, Type: finance.DocumentEIDFront,
				FileURL: "https://files.example.com/eid.png", FileName: "eid.png",
			},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().UpsertDocument(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantUpdated: true,
		},
		{
			name: "UnknownType",
			params: finance.UploadParams{
				FinanceID: financeID, Type: "selfie",
				FileURL: "https://files.example.com/s.png", FileName: "s.png",
			},
			wantErr: true,
		},
		{
			name:    "MissingURL",
			params:  finance.UploadParams{FinanceID: financeID, Type: finance.DocumentVisa, FileName: "v.pdf"},
			wantErr: true,
		},
		{
			name: "MissingApplication",
			params: finance.UploadParams{
				FinanceID: financeID, Type: finance.DocumentOther,
				FileURL: "https://files.example.com/o.pdf", FileName: "o.pdf",
			},
			setupMock: func(m *finance.MockRepository) {
				m.EXPECT().UpsertDocument(gomock.Any(), gomock.Any()).Return(false, finance.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := finance.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			doc, updated, err := finance.NewService(repo).UploadDocument(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, doc)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, updated)
			assert.Equal(t, tt.params.Type, doc.Type)
		})
	}
}

func TestDocumentType_Unique(t *testing.T) {
	for _, dt := range finance.DocumentTypes {
		assert.Equal(t, dt != finance.DocumentOther, dt.Unique(), dt)
	}
}

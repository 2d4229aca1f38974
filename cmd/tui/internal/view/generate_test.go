package view

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
)

func runningModel(a *invoice.Attempt) GenerateModel {
	m := NewGenerateModel(uuid.New(), nil, nil)
	m.state = generateStateRunning
	m.attempt = a

	return m
}

func TestGenerateModel_Done(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("CommitReloadsUnbilled", func(t *testing.T) {
		m := runningModel(&invoice.Attempt{State: invoice.StateCommitted, InvoiceID: invoiceID})

		next, cmd := m.Update(generateDoneMsg{invoiceID: invoiceID})
		got := next.(GenerateModel)

		assert.Equal(t, generateStateResult, got.state)
		require.NotNil(t, cmd)
		assert.Nil(t, got.err)

		next, _ = got.Update(loadUnbilledMsg{charges: []*charge.Charge{
			{ID: uuid.New(), Type: charge.TypeRTAFee, Amount: decimal.NewFromInt(500)},
		}})
		got = next.(GenerateModel)

		assert.True(t, got.refreshed)
		assert.Contains(t, got.View(), "1 unbilled charges remain")
	})

	t.Run("RollbackSkipsReload", func(t *testing.T) {
		cause := errors.New("connection reset")
		m := runningModel(&invoice.Attempt{State: invoice.StateRolledBack, Err: cause})

		next, cmd := m.Update(generateDoneMsg{err: cause})
		got := next.(GenerateModel)

		assert.Equal(t, generateStateResult, got.state)
		assert.Nil(t, cmd)
		assert.Nil(t, got.err)
		assert.Contains(t, got.View(), invoice.RolledBackMessage)
	})

	t.Run("AttemptAlreadyStarted", func(t *testing.T) {
		m := runningModel(&invoice.Attempt{State: invoice.StateGenerating})

		next, cmd := m.Update(generateDoneMsg{err: invoice.ErrAttemptStarted})
		got := next.(GenerateModel)

		assert.Nil(t, cmd)
		assert.ErrorIs(t, got.err, invoice.ErrAttemptStarted)
	})
}

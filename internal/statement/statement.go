package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/transaction"
)

// Statement is a deal's statement of account.
type Statement struct {
	DealID       uuid.UUID
	GeneratedAt  time.Time
	Charges      []*charge.Charge
	Transactions []*transaction.Transaction
	Invoices     []*invoice.Summary

	ChargesTotal decimal.Decimal
	Credits      decimal.Decimal // Credit notes issued
	Collected    decimal.Decimal // Deposits and payments less refunds
	Outstanding  decimal.Decimal
}

// totals fills the summary figures from the charges and transactions.
func (s *Statement) totals() {
	s.ChargesTotal = decimal.Zero
	s.Credits = decimal.Zero
	s.Collected = decimal.Zero

	for _, c := range s.Charges {
		s.ChargesTotal = s.ChargesTotal.Add(c.Amount)
	}

	for _, t := range s.Transactions {
		switch t.Type {
		case transaction.TypeDeposit, transaction.TypePayment:
			s.Collected = s.Collected.Add(t.Amount)
		case transaction.TypeRefund:
			s.Collected = s.Collected.Sub(t.Amount)
		case transaction.TypeCreditNote:
			s.Credits = s.Credits.Add(t.Amount)
		}
	}

	s.Outstanding = s.ChargesTotal.Sub(s.Credits).Sub(s.Collected)
}

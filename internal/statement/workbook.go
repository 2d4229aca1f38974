package statement

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/transaction"
)

const (
	SheetCharges      = "Charges"
	SheetTransactions = "Transactions"
	SheetInvoices     = "Invoices"
	SheetSummary      = "Summary"
)

const dateLayout = "2006-01-02"

type column[T any] struct {
	Header string
	Money  bool
	Value  func(T) any
}

var chargeColumns = []column[*charge.Charge]{
	{Header: "Type", Value: func(c *charge.Charge) any { return string(c.Type) }},
	{Header: "Description", Value: func(c *charge.Charge) any { return deref(c.Description) }},
	{Header: "Amount", Money: true, Value: func(c *charge.Charge) any { return c.Amount }},
	{Header: "Billed", Value: func(c *charge.Charge) any { return c.Billed() }},
	{Header: "Created", Value: func(c *charge.Charge) any { return c.CreatedAt.Format(dateLayout) }},
}

var transactionColumns = []column[*transaction.Transaction]{
	{Header: "Number", Value: func(t *transaction.Transaction) any { return t.Number }},
	{Header: "Type", Value: func(t *transaction.Transaction) any { return string(t.Type) }},
	{Header: "Amount", Money: true, Value: func(t *transaction.Transaction) any { return t.Amount }},
	{Header: "Method", Value: func(t *transaction.Transaction) any {
		if t.PaymentMethod == nil {
			return ""
		}

		return string(*t.PaymentMethod)
	}},
	{Header: "Reference", Value: func(t *transaction.Transaction) any { return deref(t.ReferenceNumber) }},
	{Header: "Reason", Value: func(t *transaction.Transaction) any { return deref(t.Reason) }},
	{Header: "Allocated To", Value: func(t *transaction.Transaction) any {
		if t.Invoice == nil {
			return ""
		}

		return t.Invoice.Number
	}},
	{Header: "Date", Value: func(t *transaction.Transaction) any { return t.CreatedAt.Format(dateLayout) }},
}

var invoiceColumns = []column[*invoice.Summary]{
	{Header: "Number", Value: func(s *invoice.Summary) any { return s.Number }},
	{Header: "Billing Period", Value: func(s *invoice.Summary) any { return deref(s.BillingPeriod) }},
	{Header: "Status", Value: func(s *invoice.Summary) any { return string(s.Status) }},
	{Header: "Total", Money: true, Value: func(s *invoice.Summary) any { return s.TotalAmount }},
	{Header: "Allocated", Money: true, Value: func(s *invoice.Summary) any { return s.AllocatedAmount }},
	{Header: "Balance", Money: true, Value: func(s *invoice.Summary) any { return s.Balance }},
	{Header: "Created", Value: func(s *invoice.Summary) any { return s.CreatedAt.Format(dateLayout) }},
}

// WriteWorkbook renders the statement as an XLSX workbook into w.
func WriteWorkbook(w io.Writer, st *Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "Statement of Account",
		Subject: st.DealID.String(),
		Creator: "uvledger",
	})

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: new("#,##0.00")})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	f.SetSheetName(f.GetSheetName(0), SheetCharges)

	if err := writeSheet(f, SheetCharges, chargeColumns, st.Charges, moneyStyle); err != nil {
		return err
	}

	for _, name := range []string{SheetTransactions, SheetInvoices, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	if err := writeSheet(f, SheetTransactions, transactionColumns, st.Transactions, moneyStyle); err != nil {
		return err
	}

	if err := writeSheet(f, SheetInvoices, invoiceColumns, st.Invoices, moneyStyle); err != nil {
		return err
	}

	if err := writeSummary(f, st, moneyStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSheet[T any](f *excelize.File, sheet string, cols []column[T], rows []T, moneyStyle int) error {
	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := setCell(f, sheet, cell, col.Value(row), col.Money, moneyStyle); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeSummary(f *excelize.File, st *Statement, moneyStyle int) error {
	lines := []struct {
		label string
		value any
		money bool
	}{
		{"Deal", st.DealID.String(), false},
		{"Generated", st.GeneratedAt.Format("2006-01-02 15:04"), false},
		{"Charges Total", st.ChargesTotal, true},
		{"Credit Notes", st.Credits, true},
		{"Collected", st.Collected, true},
		{"Outstanding", st.Outstanding, true},
	}

	for i, line := range lines {
		row := i + 1
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), line.label); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}

		if err := setCell(f, SheetSummary, fmt.Sprintf("B%d", row), line.value, line.money, moneyStyle); err != nil {
			return err
		}
	}

	return nil
}

// setCell writes money as a numeric cell with a two-decimal format. The float
// conversion only affects how the spreadsheet displays the value.
func setCell(f *excelize.File, sheet, cell string, value any, money bool, moneyStyle int) error {
	if d, ok := value.(decimal.Decimal); ok {
		value = d.InexactFloat64()
	}

	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}

	if money {
		if err := f.SetCellStyle(sheet, cell, cell, moneyStyle); err != nil {
			return fmt.Errorf("styling %s!%s: %w", sheet, cell, err)
		}
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

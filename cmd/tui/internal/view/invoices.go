package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/uvdesk/uvledger/internal/invoice"
)

type InvoiceModel struct {
	CommonModel
	invoiceService *invoice.Service

	table  table.Model
	ledger *invoice.Ledger
	form   *huh.Form
	reason *string

	loading bool
	err     error
	status  string
}

func NewInvoiceModel(dealID uuid.UUID, svc *invoice.Service) InvoiceModel {
	return InvoiceModel{
		CommonModel:    CommonModel{DealID: dealID},
		invoiceService: svc,
		table: newTable([]table.Column{
			{Title: "Number", Width: 12},
			{Title: "Period", Width: 10},
			{Title: "Status", Width: 8},
			{Title: "Total", Width: 14},
			{Title: "Allocated", Width: 14},
			{Title: "Balance", Width: 14},
			{Title: "Created", Width: 12},
		}),
		loading: true,
	}
}

func (m InvoiceModel) Title() string { return "Invoices" }
func (m InvoiceModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: void | Esc: cancel"
	}
	return "Esc: back | v: void selected | r: refresh"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ledger = msg.ledger
		m.refreshTable()
		return m, nil

	case invoiceActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		return m, m.loadCmd()
	}

	if m.form != nil {
		return m.updateVoid(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "v":
			return m.enterVoidMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoiceModel) selected() *invoice.Summary {
	idx := m.table.Cursor()
	if m.ledger == nil || idx < 0 || idx >= len(m.ledger.Invoices) {
		return nil
	}

	return m.ledger.Invoices[idx]
}

func (m InvoiceModel) enterVoidMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	if inv.Status == invoice.StatusVoided {
		m.status = fmt.Sprintf("%s is already voided", inv.Number)
		return m, nil
	}

	m.reason = new("")
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Void " + inv.Number).
				Description("Charges and allocations will be released").
				Placeholder("Reason").
				Value(m.reason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("reason is required")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.table.Blur()
	return m, m.form.Init()
}

func (m InvoiceModel) updateVoid(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	inv, reason := m.selected(), *m.reason
	m.form = nil
	m.table.Focus()
	m.status = "Voiding..."

	return m, m.voidCmd(inv, reason)
}

func (m InvoiceModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := "No active invoice"
	if m.ledger.HasActiveInvoice {
		active := m.ledger.ActiveInvoice
		header = fmt.Sprintf("Active: %s | Total %s | Balance %s",
			activeStyle(active.Number), FormatAmount(active.TotalAmount), activeStyle(FormatAmount(active.Balance)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableBox(m.table),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("Void Invoice", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvoiceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.ledger.Invoices))
	for _, inv := range m.ledger.Invoices {
		rows = append(rows, table.Row{
			inv.Number,
			deref(inv.BillingPeriod),
			string(inv.Status),
			FormatAmount(inv.TotalAmount),
			FormatAmount(inv.AllocatedAmount),
			FormatAmount(inv.Balance),
			FormatDate(inv.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

type loadLedgerMsg struct {
	ledger *invoice.Ledger
	err    error
}

func (m InvoiceModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ledger, err := m.invoiceService.List(ctx, m.DealID)
		return loadLedgerMsg{ledger: ledger, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoiceModel) voidCmd(inv *invoice.Summary, reason string) tea.Cmd {
	if inv == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.invoiceService.Void(ctx, inv.ID, reason); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Voided %s", inv.Number)}
	}
}

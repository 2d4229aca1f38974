package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/invoice"
	"github.com/uvdesk/uvledger/internal/transaction"
)

type txState int

const (
	txStateList txState = iota
	txStateAdding
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	kind := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Type))
	return fmt.Sprintf("%s  %s  %14s  %s", FormatDate(i.tx.CreatedAt), i.tx.Number, FormatAmount(i.tx.Amount), kind)
}

func (i txItem) Description() string {
	var parts []string

	if i.tx.PaymentMethod != nil {
		parts = append(parts, string(*i.tx.PaymentMethod))
	}

	if ref := deref(i.tx.ReferenceNumber); ref != "" {
		parts = append(parts, "Ref: "+ref)
	}

	if i.tx.Invoice != nil {
		parts = append(parts, fmt.Sprintf("Allocated: %s (%s)", i.tx.Invoice.Number, i.tx.Invoice.Status))
	}

	if reason := deref(i.tx.Reason); reason != "" {
		parts = append(parts, reason)
	}

	return strings.Join(parts, " | ")
}

func (i txItem) FilterValue() string {
	return i.tx.Number + " " + string(i.tx.Type) + " " + deref(i.tx.ReferenceNumber)
}

type txForm struct {
	Type      transaction.Type
	Amount    string
	Method    transaction.PaymentMethod
	Reference string
	Reason    string
}

type TransactionsModel struct {
	CommonModel
	txService      *transaction.Service
	invoiceService *invoice.Service

	state  txState
	list   list.Model
	form   *huh.Form
	fields *txForm
	txs    []*transaction.Transaction

	loading bool
	status  string
}

func NewTransactionsModel(dealID uuid.UUID, txSvc *transaction.Service, invoiceSvc *invoice.Service) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		CommonModel:    CommonModel{DealID: dealID},
		txService:      txSvc,
		invoiceService: invoiceSvc,
		list:           l,
		loading:        true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateAdding {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | a: add | l: allocate to active invoice | u: unallocate | /: filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions recorded."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateAdding:
		return m.updateAdding(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // let the list clear the filter
			}

			return m, Back
		case "a":
			return m.startAdding()
		case "l":
			return m, m.allocateCmd()
		case "u":
			return m, m.unallocateCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) selected() *transaction.Transaction {
	item, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return nil
	}

	return item.tx
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	m.fields = &txForm{Type: transaction.TypePayment, Method: transaction.MethodBankTransfer}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Deposit", transaction.TypeDeposit),
					huh.NewOption("Payment", transaction.TypePayment),
					huh.NewOption("Credit Note", transaction.TypeCreditNote),
					huh.NewOption("Refund", transaction.TypeRefund),
				).
				Value(&m.fields.Type),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fields.Amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					if !d.IsPositive() {
						return fmt.Errorf("amount must be greater than zero")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[transaction.PaymentMethod]().
				Title("Payment Method").
				Options(
					huh.NewOption("Cash", transaction.MethodCash),
					huh.NewOption("Card", transaction.MethodCard),
					huh.NewOption("Bank Transfer", transaction.MethodBankTransfer),
					huh.NewOption("Cheque", transaction.MethodCheque),
				).
				Value(&m.fields.Method),

			huh.NewInput().
				Title("Reference Number").
				Description("Optional").
				Value(&m.fields.Reference),
		).WithHideFunc(func() bool {
			return !m.fields.Type.NeedsPaymentMethod()
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Reason").
				Description("Required for credit notes").
				Value(&m.fields.Reason),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	cmd = m.addTxCmd()
	m.state = txStateList
	m.form = nil
	m.status = "Saving..."

	return m, cmd
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	if m.state == txStateAdding && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(formPanel("Add Transaction", m.form.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, m.DealID)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) addTxCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, err := decimal.NewFromString(strings.TrimSpace(fields.Amount))
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		params := transaction.CreateParams{DealID: m.DealID, Type: fields.Type, Amount: &amount}

		if fields.Type.NeedsPaymentMethod() {
			params.PaymentMethod = &fields.Method

			if ref := strings.TrimSpace(fields.Reference); ref != "" {
				params.ReferenceNumber = &ref
			}
		}

		if reason := strings.TrimSpace(fields.Reason); reason != "" {
			params.Reason = &reason
		}

		tx, err := m.txService.Add(ctx, params)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Recorded %s %s", tx.Number, FormatAmount(tx.Amount))}
	}
}

func (m TransactionsModel) allocateCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ledger, err := m.invoiceService.List(ctx, m.DealID)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if !ledger.HasActiveInvoice {
			return saveTxResultMsg{err: fmt.Errorf("deal has no active invoice")}
		}

		active := ledger.ActiveInvoice
		if err := m.txService.Allocate(ctx, tx.ID, active.ID); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Allocated %s to %s", tx.Number, active.Number)}
	}
}

func (m TransactionsModel) unallocateCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil || tx.AllocatedInvoiceID == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Unallocate(ctx, tx.ID); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Unallocated %s", tx.Number)}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}

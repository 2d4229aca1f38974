package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
	"github.com/uvdesk/uvledger/internal/invoice"
)

type generateState int

const (
	generateStateLoading generateState = iota
	generateStateSelect
	generateStateRunning
	generateStateResult
)

type generateForm struct {
	ChargeIDs     []uuid.UUID
	BillingPeriod string
}

// GenerateModel walks one invoice generation attempt from charge selection to
// its committed or rolled back outcome.
type GenerateModel struct {
	CommonModel
	chargeService  *charge.Service
	invoiceService *invoice.Service

	state    generateState
	unbilled []*charge.Charge
	form     *huh.Form
	fields   *generateForm
	attempt  *invoice.Attempt
	spinner  spinner.Model
	err      error

	// Set once unbilled charges are reloaded after a commit.
	refreshed bool
}

func NewGenerateModel(dealID uuid.UUID, chargeSvc *charge.Service, invoiceSvc *invoice.Service) GenerateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return GenerateModel{
		CommonModel:    CommonModel{DealID: dealID},
		chargeService:  chargeSvc,
		invoiceService: invoiceSvc,
		spinner:        s,
	}
}

func (m GenerateModel) Title() string { return "Generate Invoice" }

func (m GenerateModel) ShortHelp() string {
	switch m.state {
	case generateStateSelect:
		return "Space: toggle | Enter: confirm | Esc: back"
	case generateStateRunning:
		return "Generating..."
	case generateStateResult:
		if m.attempt != nil && m.attempt.State == invoice.StateRolledBack {
			return "r: retry | Esc: back"
		}
	}
	return "Esc: back"
}

func (m GenerateModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case generateStateLoading:
		return m.updateLoading(msg)
	case generateStateSelect:
		return m.updateSelect(msg)
	case generateStateRunning:
		return m.updateRunning(msg)
	case generateStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m GenerateModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadUnbilledMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = generateStateResult
			return m, nil
		}

		m.unbilled = msg.charges
		if len(m.unbilled) == 0 {
			m.err = fmt.Errorf("no unbilled charges on this deal")
			m.state = generateStateResult
			return m, nil
		}

		m.fields = &generateForm{}
		m.form = m.buildForm()
		m.state = generateStateSelect
		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m GenerateModel) buildForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], len(m.unbilled))
	for i, c := range m.unbilled {
		label := fmt.Sprintf("%-22s %14s  %s", c.Type, FormatAmount(c.Amount), deref(c.Description))
		options[i] = huh.NewOption(label, c.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[uuid.UUID]().
				Title("Charges to bill").
				Options(options...).
				Value(&m.fields.ChargeIDs).
				Validate(func(ids []uuid.UUID) error {
					if len(ids) == 0 {
						return fmt.Errorf("select at least one charge")
					}
					return nil
				}),

			huh.NewInput().
				Title("Billing Period").
				Description("Optional").
				Placeholder(time.Now().Format("2006-01")).
				Value(&m.fields.BillingPeriod),
		),
	).WithWidth(70).WithShowHelp(false)
}

func (m GenerateModel) updateSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// One idempotency key per attempt. Retries reuse it.
	m.attempt = invoice.NewAttempt(invoice.GenerateParams{
		DealID:         m.DealID,
		BillingPeriod:  strings.TrimSpace(m.fields.BillingPeriod),
		ChargeIDs:      m.fields.ChargeIDs,
		IdempotencyKey: uuid.NewString(),
	})

	return m.run()
}

func (m GenerateModel) run() (tea.Model, tea.Cmd) {
	m.state = generateStateRunning
	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.attempt))
}

func (m GenerateModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(generateDoneMsg); ok {
		m.state = generateStateResult
		if done.err != nil && m.attempt.State != invoice.StateRolledBack {
			m.err = done.err
		}

		if done.invoiceID == uuid.Nil {
			return m, nil
		}

		// The committed charges are billed now; reload what is left.
		m.unbilled = nil
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m GenerateModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if loaded, ok := msg.(loadUnbilledMsg); ok {
		if loaded.err == nil {
			m.unbilled = loaded.charges
			m.refreshed = true
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		if m.attempt != nil && m.attempt.State == invoice.StateRolledBack {
			return m.run()
		}
	}

	return m, nil
}

func (m GenerateModel) View() string {
	switch m.state {
	case generateStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading unbilled charges...")

	case generateStateSelect:
		total := decimal.Zero
		for _, c := range m.unbilled {
			if containsID(m.fields.ChargeIDs, c.ID) {
				total = total.Add(c.Amount)
			}
		}

		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			m.form.View(),
			"",
			"Selected total: "+activeStyle(FormatAmount(total)),
		))

	case generateStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Generating invoice...", m.spinner.View()),
		)

	case generateStateResult:
		return m.viewResult()
	}

	return ""
}

func (m GenerateModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	a := m.attempt
	if a.State == invoice.StateRolledBack {
		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			errorStyle(a.Message()),
			"",
			lipgloss.NewStyle().Faint(true).Render(a.Err.Error()),
		))
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render(a.Message())

	detail := fmt.Sprintf("Invoice %s", a.InvoiceID)
	if a.Invoice != nil {
		detail = fmt.Sprintf("Invoice %s | Total %s", activeStyle(a.Invoice.Number), FormatAmount(a.Invoice.TotalAmount))
	}
	if a.Replayed {
		detail += " (already generated)"
	}

	lines := []string{header, "", detail}
	if m.refreshed {
		lines = append(lines, "", fmt.Sprintf("%d unbilled charges remain on this deal", len(m.unbilled)))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}

// Messages

type loadUnbilledMsg struct {
	charges []*charge.Charge
	err     error
}

func (m GenerateModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		charges, err := m.chargeService.List(ctx, m.DealID)
		if err != nil {
			return loadUnbilledMsg{err: err}
		}

		unbilled := make([]*charge.Charge, 0, len(charges))
		for _, c := range charges {
			if !c.Billed() {
				unbilled = append(unbilled, c)
			}
		}

		return loadUnbilledMsg{charges: unbilled}
	}
}

// generateDoneMsg carries the committed invoice id, or uuid.Nil when the
// attempt rolled back.
type generateDoneMsg struct {
	invoiceID uuid.UUID
	err       error
}

const generateTimeout = 30 * time.Second

// runCmd owns the attempt until generateDoneMsg is delivered.
func (m GenerateModel) runCmd(a *invoice.Attempt) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		var done generateDoneMsg
		done.err = m.invoiceService.Run(ctx, a, func(invoiceID uuid.UUID) {
			done.invoiceID = invoiceID
		})

		return done
	}
}

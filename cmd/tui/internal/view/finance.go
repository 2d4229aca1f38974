package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/finance"
)

type financeState int

const (
	financeStateBrowse financeState = iota
	financeStateAdd
	financeStateStatus
)

var financeStatuses = []finance.Status{
	finance.StatusDocumentsReady,
	finance.StatusPending,
	finance.StatusDocsCollection,
	finance.StatusSubmitted,
	finance.StatusUnderReview,
	finance.StatusApproved,
	finance.StatusDeclined,
	finance.StatusCancelled,
}

type financeForm struct {
	BankName string
	Amount   string
	Date     string
	Ref      string
	Status   finance.Status
}

type FinanceModel struct {
	CommonModel
	financeService *finance.Service

	state  financeState
	table  table.Model
	apps   []*finance.Application
	form   *huh.Form
	fields *financeForm
	target *finance.Application

	loading bool
	err     error
	status  string
}

func NewFinanceModel(dealID uuid.UUID, svc *finance.Service) FinanceModel {
	return FinanceModel{
		CommonModel:    CommonModel{DealID: dealID},
		financeService: svc,
		table: newTable([]table.Column{
			{Title: "Bank", Width: 20},
			{Title: "Loan Amount", Width: 14},
			{Title: "Applied", Width: 12},
			{Title: "Reference", Width: 14},
			{Title: "Status", Width: 16},
			{Title: "Docs", Width: 5},
		}),
		loading: true,
	}
}

func (m FinanceModel) Title() string { return "Finance Applications" }

func (m FinanceModel) ShortHelp() string {
	if m.state != financeStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: add | s: set status | x: delete | r: refresh"
}

func (m FinanceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m FinanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFinanceMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.apps = msg.apps
		m.refreshTable()
		return m, nil

	case financeSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		return m, m.loadCmd()
	}

	if m.state == financeStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m FinanceModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "s":
			return m.enterStatusMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m FinanceModel) selected() *finance.Application {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.apps) {
		return nil
	}

	return m.apps[idx]
}

func (m FinanceModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.fields = &financeForm{Date: time.Now().Format(time.DateOnly)}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bank").
				Value(&m.fields.BankName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("bank is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Loan Amount").
				Description("Optional").
				Value(&m.fields.Amount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a number")
					}
					return nil
				}),

			huh.NewInput().
				Title("Application Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.Date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Title("Application Reference").
				Description("Optional").
				Value(&m.fields.Ref),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = financeStateAdd
	m.table.Blur()
	return m, m.form.Init()
}

func (m FinanceModel) enterStatusMode() (tea.Model, tea.Cmd) {
	app := m.selected()
	if app == nil {
		return m, nil
	}

	m.target = app
	m.fields = &financeForm{Status: app.Status}

	options := make([]huh.Option[finance.Status], len(financeStatuses))
	for i, s := range financeStatuses {
		options[i] = huh.NewOption(string(s), s)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[finance.Status]().
				Title(app.BankName).
				Options(options...).
				Value(&m.fields.Status),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = financeStateStatus
	m.table.Blur()
	return m, m.form.Init()
}

func (m FinanceModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = financeStateBrowse
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

	if m.state == financeStateAdd {
		cmd = m.createCmd()
	} else {
		cmd = m.statusCmd()
	}

	m.state = financeStateBrowse
	m.form = nil
	m.table.Focus()
	m.status = "Saving..."

	return m, cmd
}

func (m FinanceModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading finance applications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := tableBox(m.table)

	switch m.state {
	case financeStateAdd:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New Application", m.form.View()))
	case financeStateStatus:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("Set Status", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *FinanceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.apps))
	for _, app := range m.apps {
		amount := ""
		if app.LoanAmount != nil {
			amount = FormatAmount(*app.LoanAmount)
		}

		applied := ""
		if app.ApplicationDate != nil {
			applied = FormatDate(*app.ApplicationDate)
		}

		rows = append(rows, table.Row{
			app.BankName,
			amount,
			applied,
			deref(app.ApplicationRef),
			string(app.Status),
			fmt.Sprint(len(app.Documents)),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadFinanceMsg struct {
	apps []*finance.Application
	err  error
}

func (m FinanceModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apps, err := m.financeService.List(ctx, m.DealID)
		return loadFinanceMsg{apps: apps, err: err}
	}
}

type financeSavedMsg struct {
	status string
	err    error
}

func (m FinanceModel) createCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		params := finance.CreateParams{DealID: m.DealID, BankName: strings.TrimSpace(fields.BankName)}

		if s := strings.TrimSpace(fields.Amount); s != "" {
			amount, err := decimal.NewFromString(s)
			if err != nil {
				return financeSavedMsg{err: err}
			}
			params.LoanAmount = &amount
		}

		if s := strings.TrimSpace(fields.Date); s != "" {
			date, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return financeSavedMsg{err: err}
			}
			params.ApplicationDate = &date
		}

		if s := strings.TrimSpace(fields.Ref); s != "" {
			params.ApplicationRef = &s
		}

		app, err := m.financeService.Create(ctx, params)
		if err != nil {
			return financeSavedMsg{err: err}
		}

		return financeSavedMsg{status: fmt.Sprintf("Created application with %s", app.BankName)}
	}
}

func (m FinanceModel) statusCmd() tea.Cmd {
	app := m.target
	status := m.fields.Status

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.financeService.Update(ctx, app.ID, finance.UpdateParams{Status: &status}); err != nil {
			return financeSavedMsg{err: err}
		}

		return financeSavedMsg{status: fmt.Sprintf("%s is now %s", app.BankName, status)}
	}
}

func (m FinanceModel) deleteCmd() tea.Cmd {
	app := m.selected()
	if app == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.financeService.Delete(ctx, app.ID); err != nil {
			return financeSavedMsg{err: err}
		}

		return financeSavedMsg{status: fmt.Sprintf("Deleted application with %s", app.BankName)}
	}
}

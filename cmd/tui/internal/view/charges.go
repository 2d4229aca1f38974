package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uvdesk/uvledger/internal/charge"
)

type chargesState int

const (
	chargesStateBrowse chargesState = iota
	chargesStateAdd
)

// chargeForm holds the huh bindings. It lives on the heap so the bound
// pointers survive model copies.
type chargeForm struct {
	Type        charge.Type
	Description string
	Amount      string
}

type ChargesModel struct {
	CommonModel
	chargeService *charge.Service

	state   chargesState
	table   table.Model
	charges []*charge.Charge
	form    *huh.Form
	fields  *chargeForm

	loading bool
	err     error
	status  string
}

func NewChargesModel(dealID uuid.UUID, svc *charge.Service) ChargesModel {
	return ChargesModel{
		CommonModel:   CommonModel{DealID: dealID},
		chargeService: svc,
		table: newTable([]table.Column{
			{Title: "Type", Width: 22},
			{Title: "Description", Width: 30},
			{Title: "Amount", Width: 14},
			{Title: "Billed", Width: 8},
			{Title: "Created", Width: 12},
		}),
		loading: true,
	}
}

func (m ChargesModel) Title() string { return "Charges" }
func (m ChargesModel) ShortHelp() string {
	if m.state == chargesStateAdd {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: add | x: delete | r: refresh"
}

func (m ChargesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChargesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadChargesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.charges = msg.charges
		m.refreshTable()
		return m, nil

	case chargeSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		m.state = chargesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case chargesStateBrowse:
		return m.updateBrowse(msg)
	case chargesStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m ChargesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ChargesModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.fields = &chargeForm{Type: charge.TypeVehiclePrice}

	options := make([]huh.Option[charge.Type], len(charge.Types))
	for i, t := range charge.Types {
		options[i] = huh.NewOption(string(t), t)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[charge.Type]().
				Title("Charge Type").
				Options(options...).
				Value(&m.fields.Type),

			huh.NewInput().
				Title("Description").
				Description("Required for other").
				Value(&m.fields.Description),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fields.Amount).
				Validate(func(s string) error {
					if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("enter a number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = chargesStateAdd
	m.table.Blur()
	return m, m.form.Init()
}

func (m ChargesModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = chargesStateBrowse
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

	cmd = m.addCmd()
	m.state = chargesStateBrowse
	m.form = nil
	m.table.Focus()
	m.status = "Saving..."

	return m, cmd
}

func (m ChargesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading charges...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	total := decimal.Zero
	unbilled := 0
	for _, c := range m.charges {
		total = total.Add(c.Amount)
		if !c.Billed() {
			unbilled++
		}
	}

	header := fmt.Sprintf("Deal %s | Total: %s | Unbilled: %d",
		m.DealID, activeStyle(FormatAmount(total)), unbilled)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableBox(m.table),
	)

	if m.state == chargesStateAdd && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("Add Charge", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ChargesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.charges))
	for _, c := range m.charges {
		billed := "no"
		if c.Billed() {
			billed = "yes"
		}

		rows = append(rows, table.Row{
			string(c.Type),
			deref(c.Description),
			FormatAmount(c.Amount),
			billed,
			FormatDate(c.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadChargesMsg struct {
	charges []*charge.Charge
	err     error
}

func (m ChargesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		charges, err := m.chargeService.List(ctx, m.DealID)
		return loadChargesMsg{charges: charges, err: err}
	}
}

type chargeSavedMsg struct {
	status string
	err    error
}

func (m ChargesModel) addCmd() tea.Cmd {
	fields := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, err := decimal.NewFromString(strings.TrimSpace(fields.Amount))
		if err != nil {
			return chargeSavedMsg{err: err}
		}

		params := charge.AddParams{DealID: m.DealID, Type: fields.Type, Amount: &amount}
		if d := strings.TrimSpace(fields.Description); d != "" {
			params.Description = &d
		}

		c, err := m.chargeService.Add(ctx, params)
		if err != nil {
			return chargeSavedMsg{err: err}
		}

		return chargeSavedMsg{status: fmt.Sprintf("Added %s %s", c.Type, FormatAmount(c.Amount))}
	}
}

func (m ChargesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.charges) {
		return nil
	}

	c := m.charges[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.chargeService.Delete(ctx, c.ID); err != nil {
			return chargeSavedMsg{err: err}
		}

		return chargeSavedMsg{status: fmt.Sprintf("Deleted %s", c.Type)}
	}
}

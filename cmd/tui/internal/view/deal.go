package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// DealSelectedMsg is emitted once a valid deal id has been entered.
type DealSelectedMsg struct {
	ID uuid.UUID
}

// DealPicker asks for the deal the ledger screens operate on.
type DealPicker struct {
	input textinput.Model
	err   error
}

func NewDealPicker(current uuid.UUID) DealPicker {
	ti := textinput.New()
	ti.Placeholder = "00000000-0000-0000-0000-000000000000"
	ti.CharLimit = 36
	ti.Width = 40
	ti.Prompt = "Deal ID: "

	if current != uuid.Nil {
		ti.SetValue(current.String())
	}

	ti.Focus()

	return DealPicker{input: ti}
}

func (m DealPicker) Title() string     { return "Select Deal" }
func (m DealPicker) ShortHelp() string { return "Enter: confirm | Esc: back" }

func (m DealPicker) Init() tea.Cmd {
	return textinput.Blink
}

func (m DealPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			id, err := uuid.Parse(strings.TrimSpace(m.input.Value()))
			if err != nil {
				m.err = fmt.Errorf("invalid deal id")
				return m, nil
			}

			return m, func() tea.Msg { return DealSelectedMsg{ID: id} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil

	return m, cmd
}

func (m DealPicker) View() string {
	content := "Which deal?\n\n" + m.input.View()
	if m.err != nil {
		content += "\n\n" + errorStyle(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(2).Render(content + "\n\n(Enter to confirm, Esc to back)")
}

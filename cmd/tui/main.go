package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/uvdesk/uvledger/cmd/tui/internal/view"
	"github.com/uvdesk/uvledger/internal/cache"
	"github.com/uvdesk/uvledger/internal/charge"
	chargeStore "github.com/uvdesk/uvledger/internal/charge/store"
	"github.com/uvdesk/uvledger/internal/config"
	"github.com/uvdesk/uvledger/internal/database"
	"github.com/uvdesk/uvledger/internal/finance"
	financeStore "github.com/uvdesk/uvledger/internal/finance/store"
	"github.com/uvdesk/uvledger/internal/invoice"
	invoiceStore "github.com/uvdesk/uvledger/internal/invoice/store"
	"github.com/uvdesk/uvledger/internal/statement"
	"github.com/uvdesk/uvledger/internal/transaction"
	txStore "github.com/uvdesk/uvledger/internal/transaction/store"
)

type services struct {
	charge      *charge.Service
	finance     *finance.Service
	invoice     *invoice.Service
	transaction *transaction.Service
	statement   *statement.Service
}

type model struct {
	svc    services
	dealID uuid.UUID

	// current is nil while the menu is shown.
	current view.View
}

type menuItem struct {
	key   string
	label string
	open  func(m model) view.View
}

var menu = []menuItem{
	{"1", "Charges", func(m model) view.View { return view.NewChargesModel(m.dealID, m.svc.charge) }},
	{"2", "Generate Invoice", func(m model) view.View {
		return view.NewGenerateModel(m.dealID, m.svc.charge, m.svc.invoice)
	}},
	{"3", "Invoices", func(m model) view.View { return view.NewInvoiceModel(m.dealID, m.svc.invoice) }},
	{"4", "Transactions", func(m model) view.View {
		return view.NewTransactionsModel(m.dealID, m.svc.transaction, m.svc.invoice)
	}},
	{"5", "Finance Applications", func(m model) view.View { return view.NewFinanceModel(m.dealID, m.svc.finance) }},
	{"6", "Export Statement", func(m model) view.View { return view.NewExportModel(m.dealID, m.svc.statement) }},
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var idempotency invoice.IdempotencyCache
	if cfg.Redis.Addr != "" {
		client, err := cache.New(context.Background(), cache.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
			Timeout:     cfg.Redis.Timeout,
			Prefix:      cfg.Redis.Prefix,
		})
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}

		idempotency = cache.NewIdempotency(client, cfg.Redis.IdempotencyTTL)
	}

	chargeSvc := charge.NewService(chargeStore.New(db))
	txSvc := transaction.NewService(txStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db), idempotency)

	return model{
		svc: services{
			charge:      chargeSvc,
			finance:     finance.NewService(financeStore.New(db)),
			invoice:     invoiceSvc,
			transaction: txSvc,
			statement:   statement.NewService(chargeSvc, txSvc, invoiceSvc, nil, 0),
		},
		current: view.NewDealPicker(uuid.Nil),
	}
}

func (m model) Init() tea.Cmd {
	return m.current.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	case view.DealSelectedMsg:
		m.dealID = msg.ID
		m.current = nil
		return m, nil
	case view.BackMsg:
		m.current = nil
		if m.dealID == uuid.Nil {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	m.current = next.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "d":
		m.current = view.NewDealPicker(m.dealID)
		return m, m.current.Init()
	}

	for _, item := range menu {
		if msg.String() == item.key {
			m.current = item.open(m)
			return m, m.current.Init()
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.current.ShortHelp())
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(m.current.Title()),
			m.current.View(),
			lipgloss.NewStyle().PaddingLeft(1).Render(help),
		)
	}

	s := "UV Ledger\n\n" +
		"Deal: " + m.dealID.String() + "\n\n"

	for _, item := range menu {
		s += item.key + ". " + item.label + "\n"
	}

	s += "\nd. Change Deal\nq. Quit"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

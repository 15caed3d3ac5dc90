package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/genadi53/next-ismp-sub001/cmd/tui/internal/view"
	"github.com/genadi53/next-ismp-sub001/internal/alias"
	aliasStore "github.com/genadi53/next-ismp-sub001/internal/alias/store"
	"github.com/genadi53/next-ismp-sub001/internal/config"
	"github.com/genadi53/next-ismp-sub001/internal/database"
	"github.com/genadi53/next-ismp-sub001/internal/export"
	"github.com/genadi53/next-ismp-sub001/internal/importer"
	"github.com/genadi53/next-ismp-sub001/internal/importer/mapping"
	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
	planStore "github.com/genadi53/next-ismp-sub001/internal/plan/store"
)

type model struct {
	planService   *plan.Service
	aliasService  *alias.Service
	importService *importer.Service
	exportService *export.Service
	user          string
	appName       string

	currentView View

	importView view.ImportModel
	listView   view.ListModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
	ViewList   View = 2
	ViewExport View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	user := os.Getenv("TUI_USER")
	if user == "" {
		user = cfg.Auth.DevUser
	}

	planSvc := plan.NewService(planStore.New(db))
	aliasSvc := alias.NewService(aliasStore.New(db))
	impSvc := newImportService(cfg)
	expSvc := export.NewService(planSvc)

	return model{
		planService:   planSvc,
		aliasService:  aliasSvc,
		importService: impSvc,
		exportService: expSvc,
		user:          user,
		appName:       cfg.App.Name,
		currentView:   ViewMenu,
		importView:    view.NewImportModel(planSvc, impSvc, aliasSvc, user),
		listView:      view.NewListModel(planSvc),
		exportView:    view.NewExportModel(expSvc),
	}
}

func newImportService(cfg *config.Config) *importer.Service {
	return importer.NewService(workbook.NewReader(cfg.Import.MaxRows), mapping.NewDateNormalizer(nil))
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.planService, m.importService, m.aliasService, m.user)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.planService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n" +
				lipgloss.NewStyle().Faint(true).Render("signed in as "+m.user) + "\n\n" +
				"1. Import Plan\n" +
				"2. Browse Plans\n" +
				"3. Export Plan\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewList:
		return m.listView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

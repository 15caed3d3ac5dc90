package view

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

const fieldsPerPage = 5

type listState int

const (
	listStateType listState = iota
	listStateMonth
	listStateBrowse
	listStateImports
)

type ListModel struct {
	CommonModel
	planService *plan.Service

	state   listState
	types   TypePicker
	months  MonthPicker
	table   table.Model
	imports table.Model

	schema    plan.Schema
	month     string
	rows      []plan.Row
	fieldPage int

	loading bool
	err     error
}

func NewListModel(planSvc *plan.Service) ListModel {
	return ListModel{
		planService: planSvc,
		types:       NewTypePicker(),
		months:      NewMonthPicker(),
		table:       newTable(),
		imports: newTable(table.WithColumns([]table.Column{
			{Title: "When", Width: 17},
			{Title: "Month", Width: 8},
			{Title: "Stored", Width: 7},
			{Title: "Removed", Width: 8},
			{Title: "User", Width: 24},
			{Title: "File", Width: 30},
		})),
	}
}

func newTable(opts ...table.Option) table.Model {
	t := table.New(append([]table.Option{
		table.WithFocused(true),
		table.WithHeight(15),
	}, opts...)...)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m ListModel) Title() string { return "Browse Plans" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateBrowse:
		return "Esc: back | ←/→: columns | h: import history | r: refresh"
	case listStateImports:
		return "Esc: rows"
	}

	return "Esc: back | Enter: select"
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TypeSelectedMsg:
		m.schema = msg.Schema
		m.months = NewMonthPicker()
		m.state = listStateMonth

		return m, nil

	case MonthSelectedMsg:
		m.month = msg.Month
		m.fieldPage = 0
		m.state = listStateBrowse
		m.loading = true

		return m, m.loadRowsCmd()

	case loadRowsMsg:
		m.loading = false
		m.err = msg.err
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case loadImportsMsg:
		m.loading = false
		m.err = msg.err
		m.refreshImports(msg.imports)

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.imports.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case listStateType:
		if isEsc(msg) {
			return m, Back
		}

		var cmd tea.Cmd
		m.types, cmd = m.types.Update(msg)

		return m, cmd

	case listStateMonth:
		if isEsc(msg) && m.months.IsSelecting() {
			m.state = listStateType
			return m, nil
		}

		var cmd tea.Cmd
		m.months, cmd = m.months.Update(msg)

		return m, cmd

	case listStateBrowse:
		return m.updateBrowse(msg)

	case listStateImports:
		if isEsc(msg) {
			m.state = listStateBrowse
			m.err = nil

			return m, nil
		}

		var cmd tea.Cmd
		m.imports, cmd = m.imports.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = listStateMonth
			m.months = NewMonthPicker()
			m.err = nil

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadRowsCmd()
		case "h":
			m.state = listStateImports
			m.loading = true

			return m, m.loadImportsCmd()
		case "right":
			if (m.fieldPage+1)*fieldsPerPage < len(m.schema.Fields) {
				m.fieldPage++
				m.refreshTable()
			}

			return m, nil
		case "left":
			if m.fieldPage > 0 {
				m.fieldPage--
				m.refreshTable()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func isEsc(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	return ok && keyMsg.Type == tea.KeyEsc
}

func (m ListModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case listStateType:
		return style.Render(m.types.View())
	case listStateMonth:
		return style.Render(fmt.Sprintf("%s\n\n%s", accentStyle.Render(m.schema.Label), m.months.View()))
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tbl := m.table
	header := fmt.Sprintf("%s | %s | %d rows | columns %d/%d",
		accentStyle.Render(m.schema.Label),
		accentStyle.Render(m.month),
		len(m.rows),
		m.fieldPage+1,
		m.fieldPages(),
	)

	if m.state == listStateImports {
		tbl = m.imports
		header = fmt.Sprintf("Import history: %s", accentStyle.Render(m.schema.Label))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(tbl.View())

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	))
}

func (m ListModel) fieldPages() int {
	return max(1, (len(m.schema.Fields)+fieldsPerPage-1)/fieldsPerPage)
}

func (m ListModel) pageFields() []plan.Field {
	start := m.fieldPage * fieldsPerPage
	end := min(start+fieldsPerPage, len(m.schema.Fields))

	return m.schema.Fields[start:end]
}

func (m *ListModel) refreshTable() {
	fields := m.pageFields()

	columns := []table.Column{
		{Title: m.schema.DateHeader, Width: 12},
		{Title: m.schema.ObjectHeaders[0], Width: 16},
	}

	for _, f := range fields {
		columns = append(columns, table.Column{
			Title: f.Header,
			Width: min(max(utf8.RuneCountInString(f.Header), 10), 22),
		})
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		row := table.Row{r.MonthDay, r.Object}
		for _, f := range fields {
			row = append(row, FormatValue(r.Values[f.Name]))
		}

		rows = append(rows, row)
	}

	// Rows must never be wider than the columns while switching pages.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
}

func (m *ListModel) refreshImports(imports []plan.Import) {
	rows := make([]table.Row, 0, len(imports))
	for _, imp := range imports {
		rows = append(rows, table.Row{
			FormatTimestamp(imp.CreatedAt),
			imp.Month,
			strconv.Itoa(imp.Inserted),
			strconv.FormatInt(imp.Deleted, 10),
			imp.UserAdded,
			imp.FileName,
		})
	}

	m.imports.SetRows(rows)
}

// Messages

type loadRowsMsg struct {
	rows []plan.Row
	err  error
}

func (m ListModel) loadRowsCmd() tea.Cmd {
	planType := m.schema.Type
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := m.planService.ListMonth(ctx, planType, month)

		return loadRowsMsg{rows: rows, err: err}
	}
}

type loadImportsMsg struct {
	imports []plan.Import
	err     error
}

func (m ListModel) loadImportsCmd() tea.Cmd {
	planType := m.schema.Type

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		imports, err := m.planService.ListImports(ctx, planType)

		return loadImportsMsg{imports: imports, err: err}
	}
}

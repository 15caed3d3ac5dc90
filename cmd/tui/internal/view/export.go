package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/genadi53/next-ismp-sub001/internal/export"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

const exportTimeout = 2 * time.Minute

const (
	exportKindMonth    = "month"
	exportKindTemplate = "template"
)

var errNothingToExport = errors.New("no rows stored for this month")

type exportState int

const (
	exportStateType exportState = iota
	exportStateForm
	exportStateMonth
	exportStateExporting
	exportStateResult
)

// exportFields holds the form bindings. It lives behind a pointer so the
// bindings survive the model being copied by value.
type exportFields struct {
	kind string
	dir  string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	types   TypePicker
	months  MonthPicker
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model

	schema plan.Schema
	month  string

	path  string
	count int
	err   error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ExportModel{
		exportService: svc,
		state:         exportStateType,
		types:         NewTypePicker(),
		months:        NewMonthPicker(),
		fields:        &exportFields{kind: exportKindMonth, dir: "./exports"},
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Plan" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TypeSelectedMsg:
		m.schema = msg.Schema
		m.form = m.buildForm()
		m.state = exportStateForm

		return m, m.form.Init()

	case MonthSelectedMsg:
		m.month = msg.Month
		return m.startExport()
	}

	switch m.state {
	case exportStateType:
		if isEsc(msg) {
			return m, Back
		}

		var cmd tea.Cmd
		m.types, cmd = m.types.Update(msg)

		return m, cmd
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateMonth:
		if isEsc(msg) && m.months.IsSelecting() {
			m.form = m.buildForm()
			m.state = exportStateForm

			return m, m.form.Init()
		}

		var cmd tea.Cmd
		m.months, cmd = m.months.Update(msg)

		return m, cmd
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if isEsc(msg) {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if isEsc(msg) {
		m.state = exportStateType
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.fields.kind == exportKindTemplate {
		return m.startExport()
	}

	m.months = NewMonthPicker()
	m.state = exportStateMonth

	return m, nil
}

func (m ExportModel) startExport() (tea.Model, tea.Cmd) {
	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.path = result.path
		m.count = result.count
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title(m.schema.Label).
				Options(
					huh.NewOption("Stored month", exportKindMonth),
					huh.NewOption("Empty upload template", exportKindTemplate),
				).
				Value(&m.fields.kind),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateType:
		return style.Render(m.types.View())
	case exportStateForm:
		return style.Render(m.form.View())
	case exportStateMonth:
		return style.Render(fmt.Sprintf("%s\n\n%s", accentStyle.Render(m.schema.Label), m.months.View()))
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Writing workbook...", m.spinner.View()))
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := successStyle.Bold(true).Render("Export Complete!")

	summary := fmt.Sprintf("Template written to %s", m.path)
	if m.fields.kind == exportKindMonth {
		summary = fmt.Sprintf("%d rows of %s written to %s", m.count, m.month, m.path)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", summary),
	)
}

type exportResultMsg struct {
	path  string
	count int
	err   error
}

func (m ExportModel) runExportCmd() tea.Cmd {
	planType := m.schema.Type
	month := m.month
	kind := m.fields.kind
	dir := m.fields.dir

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		name := export.FileName(planType, month)
		if kind == exportKindTemplate {
			name = export.FileName(planType, "template")
		}

		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		if kind == exportKindTemplate {
			if err := export.Template(planType, f); err != nil {
				return exportResultMsg{err: err}
			}

			return exportResultMsg{path: path}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		n, err := m.exportService.Month(ctx, planType, month, f)
		if err == nil && n == 0 {
			err = errNothingToExport
		}

		if err != nil {
			_ = f.Close()
			_ = os.Remove(path)

			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, count: n}
	}
}

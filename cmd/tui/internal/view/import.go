package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/genadi53/next-ismp-sub001/internal/alias"
	"github.com/genadi53/next-ismp-sub001/internal/importer"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateType importState = iota
	importStateMonth
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	planService   *plan.Service
	importService *importer.Service
	aliasService  *alias.Service
	user          string

	state      importState
	types      TypePicker
	months     MonthPicker
	filePicker filepicker.Model
	spinner    spinner.Model

	schema plan.Schema
	month  string

	result   *plan.ReplaceResult
	resolved int
	warning  string
	err      error
}

func NewImportModel(planSvc *plan.Service, impSvc *importer.Service, aliasSvc *alias.Service, user string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".xlsx", ".xls", ".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ImportModel{
		planService:   planSvc,
		importService: impSvc,
		aliasService:  aliasSvc,
		user:          user,
		types:         NewTypePicker(),
		months:        NewMonthPicker(),
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import Plan" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateImporting:
		return "Importing..."
	case importStateResult:
		return "Esc: import another"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TypeSelectedMsg:
		m.schema = msg.Schema
		m.months = NewMonthPicker()
		m.state = importStateMonth

		return m, nil

	case MonthSelectedMsg:
		m.month = msg.Month
		m.state = importStateFilePick

		return m, m.filePicker.Init()

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.resolved = msg.resolved
		m.warning = msg.warning
		m.err = msg.err

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	esc := isKey && keyMsg.Type == tea.KeyEsc

	var cmd tea.Cmd

	switch m.state {
	case importStateType:
		if esc {
			return m, Back
		}

		m.types, cmd = m.types.Update(msg)

	case importStateMonth:
		if esc && m.months.IsSelecting() {
			m.state = importStateType
			return m, nil
		}

		m.months, cmd = m.months.Update(msg)

	case importStateFilePick:
		if esc {
			m.state = importStateMonth
			return m, nil
		}

		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
		}

	case importStateImporting:
		m.spinner, cmd = m.spinner.Update(msg)

	case importStateResult:
		if esc {
			m.state = importStateType
			m.result = nil
			m.warning = ""
			m.err = nil
		}
	}

	return m, cmd
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateType:
		return style.Render(m.types.View())
	case importStateMonth:
		return style.Render(fmt.Sprintf("%s\n\n%s", accentStyle.Render(m.schema.Label), m.months.View()))
	case importStateFilePick:
		return style.Render(fmt.Sprintf(
			"Select workbook for %s, %s (.xlsx, .xls, .csv):\n\n%s",
			m.schema.Label, m.month, m.filePicker.View(),
		))
	case importStateImporting:
		return style.Render(fmt.Sprintf("%s Replacing %s for %s...", m.spinner.View(), m.schema.Label, m.month))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		msg := errorStyle.Render(fmt.Sprintf("Error: %v", m.err))

		var validErr *plan.ValidationError
		if errors.As(m.err, &validErr) && validErr.Hint() != "" {
			msg += "\n" + validErr.Hint()
		}

		return style.Render(msg + fmt.Sprintf("\n\nNothing was changed for %s.\n\n(Esc to go back)", m.month))
	}

	s := successStyle.Render(fmt.Sprintf(
		"Replaced %s for %s: %d rows stored, %d previous rows removed.",
		m.schema.Label, m.month, m.result.Inserted, m.result.Deleted,
	))

	if m.resolved > 0 {
		s += fmt.Sprintf("\n%d objects renamed by alias.", m.resolved)
	}

	if m.warning != "" {
		s += "\n" + errorStyle.Render(m.warning)
	}

	return style.Render(s + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result   *plan.ReplaceResult
	resolved int
	warning  string
	err      error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	planType := m.schema.Type
	month := m.month
	user := m.user

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Import(planType, f, user)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		var warning string

		resolved, err := m.aliasService.Resolve(ctx, rows)
		if err != nil {
			warning = fmt.Sprintf("Object aliases not applied: %v", err)
		}

		result, err := m.planService.ReplaceMonth(ctx, plan.Batch{
			Type:      planType,
			Month:     month,
			UserAdded: user,
			FileName:  filepath.Base(path),
			Rows:      rows,
		})
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result, resolved: resolved, warning: warning}
	}
}

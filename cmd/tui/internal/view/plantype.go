package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// TypeSelectedMsg is emitted when a plan type has been picked.
type TypeSelectedMsg struct {
	Schema plan.Schema
}

// TypePicker lists the plan types under their workbook labels.
type TypePicker struct {
	schemas []plan.Schema
	cursor  int
}

func NewTypePicker() TypePicker {
	return TypePicker{schemas: plan.Schemas()}
}

func (m TypePicker) Update(msg tea.Msg) (TypePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.schemas)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		schema := m.schemas[m.cursor]
		return m, func() tea.Msg {
			return TypeSelectedMsg{Schema: schema}
		}
	}

	return m, nil
}

func (m TypePicker) View() string {
	s := "Select Plan Type:\n\n"

	for i, schema := range m.schemas {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, schema.Label)
	}

	return s
}

package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// MonthSelectedMsg is emitted when the user has picked a valid yyyy-MM month.
type MonthSelectedMsg struct {
	Month string
}

type monthPickerState int

const (
	monthStateSelect monthPickerState = iota
	monthStateCustom
)

// MonthPicker is a reusable component for selecting a plan month.
type MonthPicker struct {
	state    monthPickerState
	selected MonthPreset
	input    textinput.Model
	now      func() time.Time

	err error
}

func NewMonthPicker() MonthPicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 9
	in.Prompt = "Month: "

	return MonthPicker{
		state:    monthStateSelect,
		selected: MonthCurrent,
		input:    in,
		now:      time.Now,
	}
}

func (m MonthPicker) Update(msg tea.Msg) (MonthPicker, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.state == monthStateSelect {
		if isKey {
			return m.updateSelect(keyMsg)
		}

		return m, nil
	}

	if isKey {
		switch keyMsg.Type {
		case tea.KeyEnter:
			month := strings.TrimSpace(m.input.Value())
			if !plan.ValidMonth(month) {
				m.err = errors.New("invalid month (YYYY-MM)")
				return m, nil
			}

			m.err = nil

			return m, selectMonth(month)
		case tea.KeyEsc:
			m.state = monthStateSelect
			m.err = nil
			m.input.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m MonthPicker) updateSelect(msg tea.KeyMsg) (MonthPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > MonthCurrent {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < MonthCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == MonthCustom {
			m.state = monthStateCustom
			m.input.SetValue(PresetMonth(MonthCurrent, m.now()))
			m.input.Focus()

			return m, textinput.Blink
		}

		return m, selectMonth(PresetMonth(m.selected, m.now()))
	}

	return m, nil
}

func selectMonth(month string) tea.Cmd {
	return func() tea.Msg {
		return MonthSelectedMsg{Month: month}
	}
}

func (m MonthPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == monthStateCustom {
		return fmt.Sprintf(
			"Enter Month:\n\n%s\n\n(Enter to confirm, Esc to back)%s",
			m.input.View(),
			errStr,
		)
	}

	now := m.now()

	s := "Select Month:\n\n"
	for p := MonthCurrent; p <= MonthCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		label := p.String()
		if p != MonthCustom {
			label = fmt.Sprintf("%-12s %s", label, PresetMonth(p, now))
		}

		s += fmt.Sprintf("%s %s\n", cursor, label)
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m MonthPicker) IsSelecting() bool {
	return m.state == monthStateSelect
}

package browse

import (
	"errors"
	"fmt"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/listing"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.CalculateLayout()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeQuery:
			return m.updateQuery(msg)
		case ModeRename:
			return m.updateRename(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.session.Filtering() {
			m.query.SetValue("")
			m.session.OnQueryChanged("")
			return m, nil
		}
		return m, tea.Quit
	case "/":
		m.mode = ModeQuery
		return m, m.query.Focus()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.rows())
	case "pgdown":
		m.moveCursor(m.rows())
	case "home", "g":
		m.moveCursor(-len(m.session.Visible()))
	case "end", "G":
		m.moveCursor(len(m.session.Visible()))
	case "1", "2", "3", "4":
		key := listing.SortKeys[msg.String()[0]-'1']
		m.session.OnHeaderClicked(key)
		m.ensureCursorVisible()
	case " ":
		m.toggleCursor()
	case "a":
		for _, name := range m.session.VisibleNames() {
			m.selected[name] = true
		}
	case "x":
		clear(m.selected)
	case "r":
		if len(m.chosenFiles()) == 0 {
			m.status = "No files to rename"
			return m, nil
		}
		m.mode = ModeRename
		m.focus = 0
		m.replace.Blur()
		m.previewRule()
		return m, m.search.Focus()
	case "d":
		return m.confirm(ActionDelete)
	case "b":
		return m.confirm(ActionBulk)
	}
	return m, nil
}

func (m *Model) confirm(action Action) (tea.Model, tea.Cmd) {
	if len(m.selectedFiles()) == 0 {
		m.status = fmt.Sprintf("Select files with space before %s", action)
		return m, nil
	}
	m.pending = action
	m.mode = ModeConfirm
	return m, nil
}

func (m *Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.query.Blur()
		m.mode = ModeList
		return m, nil
	case tea.KeyEsc:
		m.query.Blur()
		m.query.SetValue("")
		m.session.OnQueryChanged("")
		m.mode = ModeList
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		m.query.Blur()
		m.mode = ModeList
		return m.updateList(msg)
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if value := m.query.Value(); value != before {
		m.session.OnQueryChanged(value)
	}
	return m, cmd
}

func (m *Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.replace.Blur()
		m.mode = ModeList
		return m, nil
	case "tab", "shift+tab":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.replace.Blur()
			return m, m.search.Focus()
		}
		m.search.Blur()
		return m, m.replace.Focus()
	case "ctrl+r":
		m.form.Regex = !m.form.Regex
		m.previewRule()
		return m, nil
	case "ctrl+a":
		m.form.MatchAll = !m.form.MatchAll
		m.previewRule()
		return m, nil
	case "ctrl+s":
		m.form.CaseSensitive = !m.form.CaseSensitive
		m.previewRule()
		return m, nil
	case "ctrl+e":
		m.form.Scope = m.form.Scope.Next()
		m.previewRule()
		return m, nil
	case "ctrl+t":
		m.form.Case = m.form.Case.Next()
		m.previewRule()
		return m, nil
	case "pgup":
		m.details.HalfPageUp()
		return m, nil
	case "pgdown":
		m.details.HalfPageDown()
		return m, nil
	case "enter":
		return m.submitRename()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.search, cmd = m.search.Update(msg)
	} else {
		m.replace, cmd = m.replace.Update(msg)
	}
	m.previewRule()
	return m, cmd
}

func (m *Model) submitRename() (tea.Model, tea.Cmd) {
	if err := m.ruleErr; err != nil {
		m.status = err.Error()
		return m, nil
	}
	plan := m.session.Plan()
	var planErr *core.PlanError
	if errors.As(plan.Err(), &planErr) {
		m.status = fmt.Sprintf("%d rename(s) conflict; fix them before submitting", len(planErr.Rows))
		return m, nil
	}
	if plan.ChangedCount() == 0 {
		m.status = "No files would change"
		return m, nil
	}
	m.submission = &Submission{Action: ActionRename, Files: m.chosenFiles(), Plan: plan}
	return m, tea.Quit
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y", "Y":
		m.submission = &Submission{Action: m.pending, Files: m.selectedFiles()}
		return m, tea.Quit
	case "esc", "n", "N":
		m.pending = ""
		m.mode = ModeList
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.ensureCursorVisible()
}

func (m *Model) toggleCursor() {
	visible := m.session.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return
	}
	name := visible[m.cursor].Name
	if m.selected[name] {
		delete(m.selected, name)
	} else {
		m.selected[name] = true
	}
	m.moveCursor(1)
}

// Package browse is the interactive listing browser. It drives a
// listing.Session from key presses: typing filters, 1-4 sort by a column and
// the rename form previews a rule over the chosen files. The program ends
// with at most one Submission for the caller to turn into a request.
package browse

import (
	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/Digital-Shane/entry-sift/internal/tui/theme"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Mode is the part of the browser that receives key presses.
type Mode int

const (
	ModeList Mode = iota
	ModeQuery
	ModeRename
	ModeConfirm
)

// Action names what a Submission asks for.
type Action string

const (
	ActionRename Action = "rename"
	ActionDelete Action = "delete"
	ActionBulk   Action = "bulk"
)

// Submission is what the user confirmed before the browser exited.
type Submission struct {
	Action Action
	Files  []string
	Plan   core.Plan
}

// Model is the bubbletea model of the browser.
type Model struct {
	session     *listing.Session
	unsubscribe func()
	theme       theme.Theme
	title       string

	width       int
	height      int
	listWidth   int
	listHeight  int
	panelWidth  int
	panelHeight int

	mode     Mode
	cursor   int
	offset   int
	selected map[string]bool

	query   textinput.Model
	search  textinput.Model
	replace textinput.Model
	form    core.Form
	focus   int
	ruleErr error

	pending    Action
	submission *Submission
	status     string

	details *viewport.Model
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) {
		m.theme = th
	}
}

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// New returns a browser over a loaded session with default dimensions that
// are replaced on the first WindowSizeMsg.
func New(session *listing.Session, opts ...Option) *Model {
	m := &Model{
		session:  session,
		title:    "entry-sift",
		width:    80,
		height:   24,
		selected: make(map[string]bool),
		form:     core.Form{Scope: core.ScopeWhole, Case: core.CaseNone},
	}

	initOpts := append([]Option{WithTheme(theme.Default())}, opts...)
	for _, opt := range initOpts {
		opt(m)
	}

	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true

	m.query = m.newInput("type to filter, enter to keep, esc to clear")
	m.search = m.newInput("text or pattern")
	m.replace = m.newInput("replacement")

	details := viewport.New(0, 0)
	details.Style = m.theme.ViewportStyle()
	m.details = &details
	m.CalculateLayout()

	// The cursor points into the visible rows, so every filter change resets it.
	m.unsubscribe = session.Subscribe(func() {
		m.cursor = 0
		m.offset = 0
	})
	return m
}

func (m *Model) newInput(placeholder string) textinput.Model {
	colors := m.theme.Colors()
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	ti.CursorStyle = lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Accent)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colors.Primary)
	ti.Blur()
	return ti
}

// Submission returns what the user confirmed, or nil if they quit.
func (m *Model) Submission() *Submission {
	return m.submission
}

// Session returns the session the browser drives.
func (m *Model) Session() *listing.Session {
	return m.session
}

// Close detaches the browser from its session.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// CalculateLayout recomputes panel dimensions from the window size.
func (m *Model) CalculateLayout() {
	// header, query line, column header, status bar and help line
	body := m.height - 5
	if body < 3 {
		body = 3
	}
	m.listWidth = m.width * 6 / 10
	m.listHeight = body
	m.panelWidth = m.width - m.listWidth
	m.panelHeight = body

	if m.details != nil {
		m.details.Width = m.detailsWidth()
		m.details.Height = m.detailsHeight()
	}
	m.ensureCursorVisible()
}

func (m *Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// chosenFiles returns the visible selected files in display order, or every
// visible file when nothing is selected.
func (m *Model) chosenFiles() []string {
	if len(m.selected) == 0 {
		return m.session.VisibleNames()
	}
	return m.selectedFiles()
}

// selectedFiles returns the selected files the current filter shows, in
// display order. Selections hidden by a query are kept for later.
func (m *Model) selectedFiles() []string {
	var names []string
	for _, r := range m.session.Visible() {
		if m.selected[r.Name] {
			names = append(names, r.Name)
		}
	}
	return names
}

func (m *Model) ensureCursorVisible() {
	visible := len(m.session.Visible())
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if rows := m.rows(); m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// renameFormLines is how many lines the rename form uses above its preview.
const renameFormLines = 5

// detailsWidth and detailsHeight size the side viewport inside its border (2)
// and padding (2).
func (m *Model) detailsWidth() int {
	return max(1, m.panelWidth-4)
}

func (m *Model) detailsHeight() int {
	if m.mode == ModeRename {
		return max(1, m.panelHeight-4-renameFormLines)
	}
	return max(1, m.panelHeight-4)
}

// rows is how many records fit under the column header.
func (m *Model) rows() int {
	return max(1, m.listHeight-1)
}

// previewRule recompiles the form and refreshes the plan for the chosen files.
func (m *Model) previewRule() {
	m.form.Search = m.search.Value()
	m.form.Replace = m.replace.Value()
	// A form that does not compile leaves the last valid plan in the session.
	_, m.ruleErr = m.session.OnRuleEdited(m.form, m.chosenFiles())
}

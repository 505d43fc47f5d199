package browse

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/Digital-Shane/entry-sift/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderStyle().Width(m.width).Render(m.title))
	b.WriteByte('\n')
	b.WriteString(m.renderQueryLine())
	b.WriteByte('\n')

	if m.mode == ModeConfirm {
		b.WriteString(m.renderConfirm())
	} else {
		var panel string
		if m.mode == ModeRename {
			panel = m.renderRenamePanel()
		} else {
			panel = m.renderDetailsPanel()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), panel))
	}
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	b.WriteByte('\n')
	b.WriteString(m.theme.HintStyle().Width(m.width).Align(lipgloss.Center).Render(m.helpText()))
	return b.String()
}

func (m *Model) renderQueryLine() string {
	prefix := m.theme.Icon("search") + " "
	if m.mode != ModeQuery && m.query.Value() == "" {
		return prefix + m.theme.HintStyle().Render("press / to filter")
	}
	return prefix + m.query.View()
}

func (m *Model) sortLabel(key listing.SortKey, title string) string {
	state := m.session.SortState()
	if state.Key != key {
		return title
	}
	if state.Direction == listing.Descending {
		return title + " " + m.theme.Icon("desc")
	}
	return title + " " + m.theme.Icon("asc")
}

const (
	sizeColumn   = 9
	reasonColumn = 10
)

func (m *Model) renderList() string {
	width := max(20, m.listWidth)
	nameColumn := max(8, width-sizeColumn-reasonColumn-10)

	var b strings.Builder
	header := fmt.Sprintf("    %s %s %s",
		runewidth.FillRight("1 "+m.sortLabel(listing.SortByName, "Name"), nameColumn),
		runewidth.FillRight("2 "+m.sortLabel(listing.SortByReason, "Reason"), reasonColumn),
		runewidth.FillLeft("3 "+m.sortLabel(listing.SortBySize, "Size"), sizeColumn))
	b.WriteString(m.theme.PanelTitleStyle().Render(runewidth.Truncate(header, width, "")))
	b.WriteByte('\n')

	visible := m.session.Visible()
	displayName := m.session.SortOptions().DisplayName
	end := min(len(visible), m.offset+m.rows())
	for i := m.offset; i < end; i++ {
		r := visible[i]
		mark := m.theme.Icon("unselected")
		if m.selected[r.Name] {
			mark = m.theme.Icon("selected")
		}
		line := fmt.Sprintf("%s %s %s %s %s",
			mark,
			m.theme.FileIcon(r.Name),
			runewidth.FillRight(runewidth.Truncate(r.DisplayName(displayName), nameColumn-3, "…"), nameColumn-3),
			runewidth.FillRight(runewidth.Truncate(r.Reason, reasonColumn, "…"), reasonColumn),
			runewidth.FillLeft(formatSize(r.Size), sizeColumn))
		style := m.theme.RowStyle(i == m.cursor, m.selected[r.Name], false)
		b.WriteString(style.Render(runewidth.Truncate(line, width, "")))
		b.WriteByte('\n')
	}
	if len(visible) == 0 {
		b.WriteString(m.theme.HintStyle().Render("No files match"))
		b.WriteByte('\n')
	}

	return lipgloss.NewStyle().Width(width).Height(m.listHeight).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) sizedPanel(borderColor lipgloss.Color) lipgloss.Style {
	style := m.theme.PanelStyle().BorderForeground(borderColor)
	style = style.Width(max(0, m.panelWidth-style.GetHorizontalFrameSize()))
	style = style.Height(max(0, m.panelHeight-style.GetVerticalFrameSize()))
	return style.Padding(0, 1)
}

func (m *Model) renderDetailsPanel() string {
	m.details.Height = m.detailsHeight()
	visible := m.session.Visible()
	if m.cursor < len(visible) {
		m.details.SetContent(m.formatRecord(visible[m.cursor]))
	} else {
		m.details.SetContent(m.theme.HintStyle().Render("No file under the cursor"))
	}
	return m.sizedPanel(m.theme.Colors().Secondary).Render(m.details.View())
}

func (m *Model) formatRecord(r entry.Record) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Colors().Accent)
	var b strings.Builder
	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(label.Render(name + ": "))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	field("Name", r.Name)
	for _, alt := range r.AltNames {
		field(alt.Label, alt.Value)
	}
	field("Size", formatSize(r.Size))
	if !r.ModifiedAt.IsZero() {
		field("Modified", r.ModifiedAt.Format("2006-01-02 15:04"))
	}
	field("Reason", r.Reason)
	if r.AniListID != 0 {
		field("AniList", fmt.Sprintf("%d", r.AniListID))
	}
	if r.TMDB != nil {
		field("TMDB", r.TMDB.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderRenamePanel() string {
	var b strings.Builder
	inputLabel := func(name string, focused bool) string {
		style := lipgloss.NewStyle().Bold(true)
		if focused {
			style = style.Foreground(m.theme.Colors().Accent)
		}
		return style.Render(name + ": ")
	}
	b.WriteString(inputLabel("Search", m.focus == 0) + m.search.View() + "\n")
	b.WriteString(inputLabel("Replace", m.focus == 1) + m.replace.View() + "\n")
	b.WriteString(m.renderToggles() + "\n")
	if err := m.ruleErr; err != nil {
		b.WriteString(m.theme.ErrorStyle().Render(err.Error()) + "\n")
	}
	b.WriteByte('\n')

	m.details.Height = m.detailsHeight()
	m.details.SetContent(m.formatPlan(m.session.Plan()))
	b.WriteString(m.details.View())

	return m.sizedPanel(m.theme.Colors().Primary).Render(b.String())
}

func (m *Model) renderToggles() string {
	toggle := func(name string, on bool) string {
		kind := theme.BadgeMuted
		if on {
			kind = theme.BadgeInfo
		}
		return m.theme.BadgeStyle(kind).Render(name)
	}
	return strings.Join([]string{
		toggle("regex", m.form.Regex),
		toggle("all", m.form.MatchAll),
		toggle("case", m.form.CaseSensitive),
		m.theme.BadgeStyle(theme.BadgeInfo).Render(string(m.form.Scope)),
		m.theme.BadgeStyle(theme.BadgeInfo).Render(string(m.form.Case)),
	}, " ")
}

func (m *Model) formatPlan(plan core.Plan) string {
	if len(plan.Rows) == 0 {
		return m.theme.HintStyle().Render("Type a search to preview")
	}
	width := max(10, m.panelWidth-6)
	var b strings.Builder
	for _, row := range plan.Rows {
		switch {
		case row.Issue != "":
			b.WriteString(m.theme.ErrorStyle().Render(runewidth.Truncate(fmt.Sprintf("%s %s → %s (%s)", m.theme.Icon("conflict"), row.Original, row.Renamed, row.Issue), width, "…")))
		case row.Changed:
			b.WriteString(runewidth.Truncate(fmt.Sprintf("%s %s → %s", m.theme.Icon("changed"), row.Original, row.Renamed), width, "…"))
		default:
			b.WriteString(m.theme.HintStyle().Render(runewidth.Truncate(fmt.Sprintf("%s %s", m.theme.Icon("nochange"), row.Original), width, "…")))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderConfirm() string {
	files := m.selectedFiles()
	icon, verb := m.theme.Icon("delete"), "Delete"
	if m.pending == ActionBulk {
		icon, verb = m.theme.Icon("download"), "Download"
	}
	text := fmt.Sprintf("%s %s %d file(s)?\n\n%s\n\nPress ENTER to confirm or 'n' to cancel",
		icon, verb, len(files), strings.Join(files, "\n"))

	box := m.theme.PanelStyle().
		BorderForeground(m.theme.Colors().Accent).
		Padding(1, 2).
		Width(min(60, max(20, m.width-4))).
		Align(lipgloss.Center).
		Render(text)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.listHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

func (m *Model) renderStatusBar() string {
	visible := len(m.session.Visible())
	state := m.session.SortState()
	parts := []string{
		fmt.Sprintf("%d/%d files", visible, m.session.Len()),
		"sort " + m.sortLabel(state.Key, string(state.Key)),
	}
	if n := len(m.selected); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if m.mode == ModeRename {
		plan := m.session.Plan()
		parts = append(parts, fmt.Sprintf("%d to rename", plan.ChangedCount()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return m.theme.StatusBarStyle().Width(m.width).Render(strings.Join(parts, " · "))
}

func (m *Model) helpText() string {
	switch m.mode {
	case ModeQuery:
		return "Enter: Keep filter | Esc: Clear | ↑↓: Back to list"
	case ModeRename:
		return "Tab: Switch field | ^R regex | ^A all | ^S case | ^E scope | ^T case transform | Enter: Submit | Esc: Back"
	case ModeConfirm:
		return "Enter: Confirm | n/Esc: Cancel"
	}
	return "/: Filter | 1-4: Sort | Space: Select | a/x: All/None | r: Rename | d: Delete | b: Download | q: Quit"
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

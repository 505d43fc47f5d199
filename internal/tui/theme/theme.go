package theme

import (
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// IconSet represents a collection of icons keyed by semantic usage.
type IconSet map[string]string

// clone returns a copy so themes never share a map.
func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the shared color palette used across the TUI.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme centralizes the palette, panel frame and icons of the browser.
type Theme struct {
	colors        Colors
	panelBorder   lipgloss.Border
	panelPadding  int
	statusPadding int
	icons         IconSet
	fallback      IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// ASCIIIcons returns the icon set that renders on any terminal.
func ASCIIIcons() IconSet {
	return asciiIcons.clone()
}

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	t := Theme{
		colors: Colors{
			Primary:    lipgloss.Color("#2f4f7f"),
			Secondary:  lipgloss.Color("#4a6fa5"),
			Accent:     lipgloss.Color("#7aa6da"),
			Background: lipgloss.Color("#f5f7fa"),
			Muted:      lipgloss.Color("#8a94a6"),
			Success:    lipgloss.Color("#4fb286"),
			Error:      lipgloss.Color("#e0525c"),
		},
		panelBorder:   lipgloss.RoundedBorder(),
		panelPadding:  1,
		statusPadding: 1,
		icons:         defaultIconSet(),
		fallback:      asciiIcons.clone(),
	}

	for _, opt := range opts {
		opt(&t)
	}

	if t.icons == nil {
		t.icons = defaultIconSet()
	}

	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

// Colors exposes the theme color palette.
func (t Theme) Colors() Colors {
	return t.colors
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

var fileKinds = map[string]string{
	".mkv": "video", ".mp4": "video", ".avi": "video", ".webm": "video", ".mov": "video", ".m4v": "video", ".ts": "video",
	".srt": "subtitles", ".ass": "subtitles", ".ssa": "subtitles", ".vtt": "subtitles", ".sub": "subtitles",
	".jpg": "image", ".jpeg": "image", ".png": "image", ".webp": "image", ".gif": "image",
	".zip": "archive", ".rar": "archive", ".7z": "archive", ".tar": "archive", ".gz": "archive",
}

// FileIcon picks the icon for a file name by its extension.
func (t Theme) FileIcon(name string) string {
	if kind, ok := fileKinds[strings.ToLower(path.Ext(name))]; ok {
		return t.Icon(kind)
	}
	return t.Icon("default")
}

// HeaderStyle returns the shared style used for primary headers.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Align(lipgloss.Center)
}

// StatusBarStyle returns the style of the bottom status line.
func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.colors.Secondary).
		Foreground(t.colors.Background).
		Padding(0, t.statusPadding)
}

// PanelStyle returns the shared panel container style.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.panelBorder).
		BorderForeground(t.colors.Accent).
		Padding(t.panelPadding)
}

// ViewportStyle returns the frameless panel style for scrolling content that
// sits inside a bordered panel.
func (t Theme) ViewportStyle() lipgloss.Style {
	return t.PanelStyle().
		BorderStyle(lipgloss.Border{}).
		BorderForeground(lipgloss.Color(""))
}

// PanelTitleStyle returns the shared style for panel titles.
func (t Theme) PanelTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Underline(true)
}

// BadgeStyle returns the shared badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	switch kind {
	case BadgeSuccess:
		return base.Background(t.colors.Success).Foreground(t.colors.Background)
	case BadgeError:
		return base.Background(t.colors.Error).Foreground(t.colors.Background)
	case BadgeMuted:
		return base.Background(t.colors.Muted).Foreground(t.colors.Background)
	default:
		return base.Background(t.colors.Accent).Foreground(t.colors.Background)
	}
}

// RowStyle returns the style for one listing row. The cursor row is
// highlighted; selected rows are bold; rows that do not match the active
// query are muted.
func (t Theme) RowStyle(cursor, selected, hidden bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case cursor:
		style = style.Background(t.colors.Accent).Foreground(t.colors.Background)
	case hidden:
		style = style.Foreground(t.colors.Muted)
	}
	if selected {
		style = style.Bold(true)
	}
	return style
}

// ErrorStyle returns the style used for inline validation messages.
func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.colors.Error)
}

// HintStyle returns the style used for key help and placeholders.
func (t Theme) HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true).Foreground(t.colors.Muted)
}

// defaultIconSet chooses the best icon set for the current terminal.
func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"video":      "🎥",
	"subtitles":  "💬",
	"image":      "🖼️",
	"archive":    "🗜️",
	"default":    "📄",
	"selected":   "☑",
	"unselected": "☐",
	"search":     "🔎",
	"asc":        "▲",
	"desc":       "▼",
	"rename":     "✏️",
	"conflict":   "⚠️",
	"nochange":   "=",
	"changed":    "✓",
	"move":       "📦",
	"delete":     "❌",
	"download":   "⬇️",
	"success":    "✅",
	"error":      "❌",
	"unknown":    "❓",
	"key":        "🔑",
	"arrows":     "↑↓",
}

var asciiIcons = IconSet{
	"video":      "[V]",
	"subtitles":  "[S]",
	"image":      "[I]",
	"archive":    "[Z]",
	"default":    "[F]",
	"selected":   "[x]",
	"unselected": "[ ]",
	"search":     "/",
	"asc":        "^",
	"desc":       "v",
	"rename":     "[R]",
	"conflict":   "[!]",
	"nochange":   "[=]",
	"changed":    "[+]",
	"move":       "[M]",
	"delete":     "[D]",
	"download":   "[B]",
	"success":    "[v]",
	"error":      "[!]",
	"unknown":    "[?]",
	"key":        "[K]",
	"arrows":     "^v",
}

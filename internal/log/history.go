package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Digital-Shane/entry-sift/internal/core"
)

// ErrNoSessions is returned when no session log has been written yet.
var ErrNoSessions = errors.New("no sessions found")

// FindLatestSession returns the newest session and its file.
func FindLatestSession() (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sessions: %w", err)
	}
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		return session, file, nil
	}
	return nil, "", ErrNoSessions
}

// InverseRename holds the rename that reverts one prepared rename request.
type InverseRename struct {
	EntryID int
	Changes []core.Change
}

// InverseRenames builds, newest first, the renames that revert every rename
// request in session. Changes inside a request are inverted in reverse order.
// Other operation types cannot be reverted from the log and are skipped.
func InverseRenames(session *LogSession) ([]InverseRename, error) {
	var out []InverseRename
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if op.Type != OpRename {
			continue
		}

		var changes []core.Change
		if err := json.Unmarshal(op.Body, &changes); err != nil {
			return nil, fmt.Errorf("failed to decode rename %s: %w", op.ID, err)
		}
		inverse := make([]core.Change, 0, len(changes))
		for j := len(changes) - 1; j >= 0; j-- {
			inverse = append(inverse, core.Change{From: changes[j].To, To: changes[j].From})
		}
		out = append(out, InverseRename{EntryID: op.EntryID, Changes: inverse})
	}
	return out, nil
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
	Icon         string
}

func GetSessionSummaries() ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}

		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
			Icon:         getCommandIcon(session.Metadata.CommandArgs),
		})
	}

	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := clock.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func getCommandIcon(args []string) string {
	if len(args) == 0 {
		return "❓"
	}

	switch args[0] {
	case "rename":
		return "✏️"
	case "move":
		return "📦"
	case "delete":
		return "🗑️"
	case "bulk":
		return "⬇️"
	case "browse":
		return "🔎"
	case "undo":
		return "↩️"
	default:
		return "📝"
	}
}

package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// OperationType names the kind of request a session prepared.
type OperationType string

const (
	OpRename OperationType = "rename"
	OpMove   OperationType = "move"
	OpDelete OperationType = "delete"
	OpBulk   OperationType = "bulk"
)

// OperationLog is one prepared request. Body is the exact JSON that would be
// sent, so a rename can be inverted later.
type OperationLog struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      OperationType   `json:"type"`
	EntryID   int             `json:"entry_id"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Files     int             `json:"files"`
	Body      json.RawMessage `json:"body,omitempty"`
}

type SessionMetadata struct {
	CommandArgs []string  `json:"command_args"`
	WorkingDir  string    `json:"working_dir"`
	Listing     string    `json:"listing,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	TotalOps    int       `json:"total_operations"`
	TotalFiles  int       `json:"total_files"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// Global singleton session manager
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true

	clock = clockwork.NewRealClock()
)

// SetClock replaces the clock used for session ids, timestamps and log
// retention. It returns the previous clock.
func SetClock(c clockwork.Clock) clockwork.Clock {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	prev := clock
	clock = c
	return prev
}

// StartSession initializes a new logging session
func StartSession(command string, args []string, listing string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	now := clock.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)

	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Listing:     listing,
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Operations: []OperationLog{},
	}

	return nil
}

// EndSession saves the current session to disk. Sessions that prepared
// nothing are dropped.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	updateStats()
	var err error
	if len(currentSession.Operations) > 0 {
		err = WriteSession(currentSession)
	}
	currentSession = nil
	return err
}

// LogRequest records a prepared request in the current session
func LogRequest(opType OperationType, entryID int, method, path string, files int, body []byte) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	op := OperationLog{
		ID:        fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Operations)),
		Timestamp: clock.Now(),
		Type:      opType,
		EntryID:   entryID,
		Method:    method,
		Path:      path,
		Files:     files,
	}
	if len(body) > 0 {
		op.Body = json.RawMessage(append([]byte(nil), body...))
	}

	currentSession.Operations = append(currentSession.Operations, op)
}

// updateStats updates the session statistics
func updateStats() {
	if currentSession == nil {
		return
	}

	files := 0
	for _, op := range currentSession.Operations {
		files += op.Files
	}
	currentSession.Metadata.TotalOps = len(currentSession.Operations)
	currentSession.Metadata.TotalFiles = files
}

// Initialize sets up the logging system with the given configuration
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled

	if enabled {
		// Clean up old logs on initialization
		if err := cleanupOldLogsUnsafe(retentionDays); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to clean up old logs: %v\n", err)
		}
	}
}

// LogDir returns ~/.entry-sift/logs without creating it.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".entry-sift", "logs"), nil
}

func GetLogPath() (string, error) {
	logDir, err := LogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	now := clock.Now()
	filename := fmt.Sprintf("%s.%03d.json",
		now.Format("2006-01-02_150405"),
		now.Nanosecond()/1000000)

	return filepath.Join(logDir, filename), nil
}

func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}

	logPath, err := GetLogPath()
	if err != nil {
		return fmt.Errorf("failed to get log path: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(logPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// sessionFiles lists session files newest first.
func sessionFiles() ([]string, error) {
	logDir, err := LogDir()
	if err != nil {
		return nil, err
	}

	// Check if log directory exists
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

func ReadSessions(limit int) ([]*LogSession, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	// Apply limit
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*LogSession, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			// Skip corrupted files
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// cleanupOldLogsUnsafe performs cleanup without acquiring mutex (assumes caller holds it)
func cleanupOldLogsUnsafe(retentionDays int) error {
	files, err := sessionFiles()
	if err != nil {
		return err
	}

	cutoff := clock.Now().AddDate(0, 0, -retentionDays)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to remove old log file %s: %v\n", file, err)
				continue
			}
		}
	}

	return nil
}

package browse

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

func sendKey(tm *teatest.TestModel, key tea.KeyType) {
	tm.Send(tea.KeyMsg{Type: key})
}

func sendRune(tm *teatest.TestModel, r rune) {
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func sendText(tm *teatest.TestModel, text string) {
	for _, r := range text {
		sendRune(tm, r)
	}
}

func startBrowseTestModel(t *testing.T, model *Model, opts ...teatest.TestOption) *teatest.TestModel {
	t.Helper()
	options := append([]teatest.TestOption{teatest.WithInitialTermSize(100, 20)}, opts...)
	tm := teatest.NewTestModel(t, model, options...)
	t.Cleanup(func() {
		_ = tm.Quit()
	})
	return tm
}

func finalBrowseModel(t *testing.T, tm *teatest.TestModel) *Model {
	t.Helper()
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))
	model, ok := final.(*Model)
	if !ok {
		t.Fatalf("Final model type = %T, want *Model", final)
	}
	return model
}

func waitForBrowseOutput(t *testing.T, tm *teatest.TestModel, contains string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(contains))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(25*time.Millisecond))
}

func TestBrowseTeatestQuit(t *testing.T) {
	model := newTestModel(t)
	tm := startBrowseTestModel(t, model)

	waitForBrowseOutput(t, tm, "Show - Ep01.mkv")
	sendRune(tm, 'q')
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if final := finalBrowseModel(t, tm); final.Submission() != nil {
		t.Errorf("Submission() = %+v after q, want nil", final.Submission())
	}
}

func TestBrowseTeatestFilterThenDelete(t *testing.T) {
	model := newTestModel(t)
	tm := startBrowseTestModel(t, model)

	waitForBrowseOutput(t, tm, "Notes.txt")
	sendRune(tm, '/')
	sendText(tm, "notes")
	sendKey(tm, tea.KeyEnter)
	waitForBrowseOutput(t, tm, "1/3 files")

	sendKey(tm, tea.KeySpace)
	sendRune(tm, 'd')
	waitForBrowseOutput(t, tm, "Delete 1 file(s)?")
	sendKey(tm, tea.KeyEnter)
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	sub := finalBrowseModel(t, tm).Submission()
	if sub == nil || sub.Action != ActionDelete {
		t.Fatalf("Submission() = %+v, want a delete", sub)
	}
	if len(sub.Files) != 1 || sub.Files[0] != "Notes.txt" {
		t.Errorf("Files = %v, want [Notes.txt]", sub.Files)
	}
}

func TestBrowseTeatestRename(t *testing.T) {
	model := newTestModel(t)
	tm := startBrowseTestModel(t, model)

	waitForBrowseOutput(t, tm, "Show - Ep02.mkv")
	sendRune(tm, 'r')
	sendText(tm, ".mkv")
	sendKey(tm, tea.KeyTab)
	sendText(tm, ".mp4")
	waitForBrowseOutput(t, tm, "2 to rename")
	sendKey(tm, tea.KeyEnter)
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	sub := finalBrowseModel(t, tm).Submission()
	if sub == nil || sub.Action != ActionRename {
		t.Fatalf("Submission() = %+v, want a rename", sub)
	}
	changes := sub.Plan.Changes()
	if len(changes) != 2 || changes[1].To != "Show - Ep02.mp4" {
		t.Errorf("Changes() = %+v", changes)
	}
}

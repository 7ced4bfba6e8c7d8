package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/scheduler"
	"github.com/sandeepkv93/petd/internal/session"
	"github.com/sandeepkv93/petd/internal/storage"
)

var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)

func newTestSession(t *testing.T, withPet bool) *session.Session {
	t.Helper()
	sess, err := session.Open(context.Background(), storage.NewMemoryStore(), session.Options{
		Key:       "tui",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     func() time.Time { return testNow },
		Scheduler: scheduler.NewEngine(8),
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(sess.Close)
	if withPet {
		if err := sess.SetupPet(context.Background(), "Rex", "Beagle", nil); err != nil {
			t.Fatalf("setup pet: %v", err)
		}
	}
	return sess
}

func newTestModel(t *testing.T, withPet bool) Model {
	t.Helper()
	return NewModel(context.Background(), Deps{Session: newTestSession(t, withPet)})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// drainFlavor runs cmd and feeds any FlavorMsg it yields back into the model.
func drainFlavor(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case FlavorMsg:
		m, _ = send(t, m, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if fm, ok := c().(FlavorMsg); ok {
				m, _ = send(t, m, fm)
			}
		}
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, true)
	if m.Keys.Quit != "q" || m.Keys.Palette != "/" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if m.needsSetup() {
		t.Fatal("model with a pet should not need setup")
	}
	if !strings.Contains(m.View(), "Rex the Beagle") {
		t.Fatalf("pet header missing from view:\n%s", m.View())
	}
}

func TestSetupFormCreatesPet(t *testing.T) {
	m := newTestModel(t, false)
	if !m.needsSetup() {
		t.Fatal("expected setup mode")
	}
	if !strings.Contains(m.View(), "meet your pet") {
		t.Fatalf("setup form missing:\n%s", m.View())
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Setup.Err == "" {
		t.Fatal("empty name should be rejected")
	}

	m, _ = send(t, m, runes("Luna"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, runes("Husky"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drainFlavor(t, m, cmd)

	state := m.sess.Snapshot()
	if state.Pet == nil || state.Pet.Name != "Luna" || state.Pet.Breed != "Husky" {
		t.Fatalf("unexpected pet: %+v", state.Pet)
	}
	if m.Flavor.Kind != flavorTip || m.Flavor.Text == "" {
		t.Fatalf("expected a tip after setup, got %+v", m.Flavor)
	}
}

func TestCompleteSelectedTask(t *testing.T) {
	m := newTestModel(t, true)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Flavor.Loading {
		t.Fatal("expected reaction request in flight")
	}
	m = drainFlavor(t, m, cmd)

	state := m.sess.Snapshot()
	if !state.IsCompleted("pee1") || state.TotalPoints != 10 || state.Happiness != 55 {
		t.Fatalf("unexpected state after completion: %+v", state)
	}
	if m.Cursor != 1 {
		t.Fatalf("cursor should advance, got %d", m.Cursor)
	}
	if !m.Flavor.Fallback || !strings.Contains(m.Flavor.Text, "Rex") {
		t.Fatalf("expected fallback reaction, got %+v", m.Flavor)
	}

	m, _ = send(t, m, runes("k"))
	m, _ = send(t, m, runes(" "))
	if !strings.Contains(m.Status.Text, "already done") {
		t.Fatalf("expected already-done status, got %q", m.Status.Text)
	}
}

func TestQuickActionKeys(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, runes("3"))
	m, _ = send(t, m, runes("3"))
	state := m.sess.Snapshot()
	if len(state.ActivityHistory) != 2 || state.TotalPoints != 30 {
		t.Fatalf("expected two walks, got %+v", state)
	}
	m, _ = send(t, m, runes("9"))
	if len(m.sess.Snapshot().ActivityHistory) != 2 {
		t.Fatal("key beyond the action catalog should be ignored")
	}
}

func TestStaleFlavorResultIsDropped(t *testing.T) {
	m := newTestModel(t, true)
	m, first := send(t, m, runes("t"))
	m, second := send(t, m, runes("t"))
	if m.Flavor.Seq != 2 {
		t.Fatalf("expected seq 2, got %d", m.Flavor.Seq)
	}
	m, _ = send(t, m, FlavorMsg{Seq: 1, Kind: flavorTip})
	if !m.Flavor.Loading {
		t.Fatal("stale result must not settle the newer request")
	}
	m = drainFlavor(t, m, second)
	if m.Flavor.Loading || m.Flavor.Text == "" {
		t.Fatalf("newest result should land, got %+v", m.Flavor)
	}
	_ = first
}

func TestReportOpensAndCloses(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, cmd := send(t, m, runes("r"))
	if !m.Report.Visible || !m.Report.Loading {
		t.Fatalf("report should be loading, got %+v", m.Report)
	}
	m = drainFlavor(t, m, cmd)
	if m.Report.Loading || !strings.Contains(m.Report.Markdown, "Rex") {
		t.Fatalf("unexpected report: %+v", m.Report)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Report.Visible {
		t.Fatal("esc should close the report")
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel(t, true)
	run := func(line string) Model {
		m, _ = send(t, m, runes("/"))
		if !m.Palette.Active {
			t.Fatal("palette should be active")
		}
		m, _ = send(t, m, runes(line))
		var cmd tea.Cmd
		m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		return drainFlavor(t, m, cmd)
	}

	m = run("done breakfast")
	if !m.sess.Snapshot().IsCompleted("breakfast") || m.Status.IsError {
		t.Fatalf("done failed: %+v", m.Status)
	}
	m = run("done nap")
	if !m.Status.IsError {
		t.Fatal("unknown task should be an error")
	}
	m = run("pet Max Collie")
	if p := m.sess.Snapshot().Pet; p.Name != "Max" || p.Breed != "Collie" {
		t.Fatalf("pet not edited: %+v", p)
	}
	m = run("reset")
	if !m.Status.IsError || m.needsSetup() {
		t.Fatal("reset without confirm must be refused")
	}
	m = run("reset confirm")
	if !m.needsSetup() {
		t.Fatal("reset should return to the setup form")
	}
	if m.sess.Snapshot().TotalPoints != 0 {
		t.Fatal("reset should clear points")
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes("tip"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("palette should be closed, got %+v", m.Palette)
	}
}

func TestReminderMessages(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, ReminderDueMsg{Reminder: model.Reminder{ID: "r1", TaskID: "lunch", Kind: model.ReminderKindDue, TriggerAt: testNow}})
	if len(m.Notifications) != 1 || !strings.Contains(m.Status.Text, "Lunch") {
		t.Fatalf("expected lunch reminder, got %+v", m.Notifications)
	}
	m.sess.CompleteTask(context.Background(), "dinner")
	m, _ = send(t, m, ReminderDueMsg{Reminder: model.Reminder{ID: "r2", TaskID: "dinner", Kind: model.ReminderKindLate, TriggerAt: testNow}})
	if len(m.Notifications) != 1 {
		t.Fatal("reminder for a finished task should be ignored")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m, _ = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	m, _ = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = send(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "/reset confirm") {
		t.Fatal("help should list palette commands")
	}
	m, cmd := send(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("q should quit")
	}
}

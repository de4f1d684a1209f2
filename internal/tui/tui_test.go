package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/cuesheet/internal/batch"
	"github.com/handiism/cuesheet/internal/config"
)

const testSheet = `PERFORMER "The Band"
TITLE "Greatest Hits"
FILE "album.wav" WAVE
  TRACK 01 AUDIO
    TITLE "Opening"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Closing"
    FLAGS PRE
    INDEX 01 04:00:00
    INDEX 02 05:00:00
`

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_OptionsFromSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.CreatePlaylist = true
	settings.Verbose = true

	m := NewModel(settings)

	if m.state != StateInput {
		t.Errorf("state = %v, want %v", m.state, StateInput)
	}
	if !m.playlist || m.tags || !m.verbose {
		t.Errorf("options = playlist:%v tags:%v verbose:%v, want true false true", m.playlist, m.tags, m.verbose)
	}
}

func TestUpdate_ToggleOptions(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	if !m.playlist || !m.tags {
		t.Fatalf("toggles not applied: playlist=%v tags=%v", m.playlist, m.tags)
	}

	s := m.runSettings()
	if !s.CreatePlaylist || !s.ModifyTags {
		t.Errorf("runSettings() = %+v, want playlist and tags on", s)
	}
	if m.settings.CreatePlaylist {
		t.Error("runSettings modified the shared settings")
	}

	view := m.View()
	if !strings.Contains(view, "[x] Write playlist") {
		t.Errorf("View() missing checked playlist option:\n%s", view)
	}
}

func TestUpdate_EnterWithoutInput(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.state != StateInput {
		t.Errorf("state = %v, want %v", m.state, StateInput)
	}
}

func TestUpdate_EscQuitsFromInput(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestUpdate_ParseFlow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "album.cue")
	if err := os.WriteFile(path, []byte(testSheet), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewModel(config.DefaultSettings())
	m.textInput.SetValue(path)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateScanning || m.manager == nil {
		t.Fatalf("after enter: state = %v, manager = %v", m.state, m.manager)
	}

	scanned := scan(m.ctx, m.manager, path)()
	m, _ = update(t, m, scanned)
	if m.state != StateParsing {
		t.Fatalf("after scan: state = %v, want %v (err %v)", m.state, StateParsing, m.err)
	}
	if m.total != 1 {
		t.Errorf("total = %d, want 1", m.total)
	}

	parsed := parse(m.ctx, m.manager)()
	m, _ = update(t, m, parsed)
	if m.state != StateResults {
		t.Fatalf("after parse: state = %v, want %v (err %v)", m.state, StateResults, m.err)
	}
	if len(m.results) != 1 || !m.results[0].OK() {
		t.Fatalf("results = %+v", m.results)
	}

	view := m.View()
	for _, want := range []string{"OK   " + path, "The Band - Greatest Hits", "album.wav (WAVE)", "02  04:00:00  Closing", "index 02 05:00:00", "flags PRE"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q, got:\n%s", want, view)
		}
	}

	m, _ = update(t, m, key("r"))
	if m.state != StateInput || m.textInput.Value() != "" || m.results != nil {
		t.Errorf("after reset: state = %v, input = %q, results = %v", m.state, m.textInput.Value(), m.results)
	}
}

func TestUpdate_ScanError(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.textInput.SetValue(filepath.Join(t.TempDir(), "missing"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, scan(m.ctx, m.manager, m.textInput.Value())())

	if m.state != StateError {
		t.Fatalf("state = %v, want %v", m.state, StateError)
	}
	if !errors.Is(m.err, batch.ErrNoSheets) {
		t.Errorf("err = %v, want %v", m.err, batch.ErrNoSheets)
	}
	if !strings.Contains(m.View(), "no cue sheets found") {
		t.Errorf("View() should show the error:\n%s", m.View())
	}
}

func TestUpdate_CancelWhileParsing(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateParsing

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.state != StateError || !errors.Is(m.err, errCancelled) {
		t.Errorf("state = %v, err = %v", m.state, m.err)
	}
	if m.ctx.Err() == nil {
		t.Error("context was not cancelled")
	}
}

func TestRenderResults_Failure(t *testing.T) {
	out := renderResults([]batch.Result{{Source: "bad.cue", Err: errors.New("line 2: boom")}})

	if !strings.Contains(out, "FAIL bad.cue") || !strings.Contains(out, "line 2: boom") {
		t.Errorf("renderResults() = %q", out)
	}
}

func TestAppendLogs_FiltersVerboseAndTrims(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	var entries []LogEntry
	for i := 0; i < maxLogs+5; i++ {
		entries = append(entries, LogEntry{Message: "info", Level: batch.LevelInfo})
	}
	entries = append(entries, LogEntry{Message: "debug", Level: batch.LevelVerbose})

	m.appendLogs(entries)

	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
	for _, l := range m.logs {
		if l.Level == batch.LevelVerbose {
			t.Error("verbose entry kept while verbose is off")
		}
	}
}

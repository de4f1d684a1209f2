package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/cuesheet/internal/batch"
	"github.com/handiism/cuesheet/internal/config"
	"github.com/handiism/cuesheet/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateParsing
	StateResults
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// eventLog collects progress events from the batch manager's goroutines
// until the next tick copies them into the model.
type eventLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *eventLog) add(e batch.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Message: e.Message, Level: e.Level})
}

func (l *eventLog) drain() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.entries
	l.entries = nil
	return out
}

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	viewport  viewport.Model
	settings  *config.Settings
	events    *eventLog
	logs      []LogEntry
	results   []batch.Result
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *batch.Manager

	processed int32
	total     int32

	// Options
	playlist bool
	tags     bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "~/Music/album.cue or a directory"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		viewport:  viewport.New(80, 20),
		settings:  settings,
		events:    &eventLog{},
		ctx:       ctx,
		cancel:    cancel,
		playlist:  settings.CreatePlaylist,
		tags:      settings.ModifyTags,
		verbose:   settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ScanDoneMsg is sent when the input has been expanded into sheets.
	ScanDoneMsg struct {
		Sources []string
		Manager *batch.Manager
		Err     error
	}

	// ParseDoneMsg is sent when every sheet has been processed.
	ParseDoneMsg struct {
		Results []batch.Result
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

var errCancelled = errors.New("cancelled by user")

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-8, 5)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput, StateResults, StateError:
				return m, tea.Quit
			case StateScanning, StateParsing:
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateScanning
				m.manager = batch.NewManager(m.runSettings(), m.events.add)
				return m, tea.Batch(scan(m.ctx, m.manager, m.textInput.Value()), m.spinner.Tick)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.tags = !m.tags
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateResults || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateResults || m.state == StateError {
				m = m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ScanDoneMsg:
		m.appendLogs(m.events.drain())
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.state = StateParsing
		m.total = int32(len(msg.Sources))
		cmds = append(cmds, parse(m.ctx, msg.Manager), m.tickProgress())

	case ParseDoneMsg:
		m.appendLogs(m.events.drain())
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateResults
			m.results = msg.Results
			m.viewport.SetContent(renderResults(m.results))
			m.viewport.GotoTop()
		}

	case TickMsg:
		if m.manager != nil && m.state == StateParsing {
			m.appendLogs(m.events.drain())
			m.processed, m.total = m.manager.GetProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	switch m.state {
	case StateInput:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateResults:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// runSettings applies the toggled options to a copy of the settings.
func (m Model) runSettings() *config.Settings {
	s := *m.settings
	s.CreatePlaylist = m.playlist
	s.ModifyTags = m.tags
	s.Verbose = m.verbose
	return &s
}

func (m Model) reset() Model {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.results = nil
	m.err = nil
	m.processed = 0
	m.total = 0
	m.manager = nil
	m.events = &eventLog{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.viewport.SetContent("")
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m *Model) appendLogs(entries []LogEntry) {
	for _, e := range entries {
		if e.Level == batch.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, e)
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// scan expands the input into the list of sheets.
func scan(ctx context.Context, manager *batch.Manager, input string) tea.Cmd {
	return func() tea.Msg {
		if err := manager.Initialize(ctx, []string{input}); err != nil {
			return ScanDoneMsg{Err: err}
		}
		return ScanDoneMsg{Sources: manager.Sources(), Manager: manager}
	}
}

// parse processes the scanned sheets in the background.
func parse(ctx context.Context, manager *batch.Manager) tea.Cmd {
	return func() tea.Msg {
		err := manager.Process(ctx)
		return ParseDoneMsg{Results: manager.Results(), Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CUE Sheet Inspector"))
	b.WriteString("\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateParsing:
		b.WriteString(m.viewParsing())
	case StateResults:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Cue sheet, directory or URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Write playlist (ctrl+p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Write MP3 tags (ctrl+t)\n", checkbox(m.tags))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+l)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Encoding: %s | Playlist format: %s", m.settings.Encoding, m.settings.PlaylistFormat)))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Looking for cue sheets..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewParsing() string {
	var b strings.Builder

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Sheets: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n", m.err.Error())
	}
	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		b.WriteString(levelStyle(log.Level).Render(levelPrefix(log.Level) + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func levelStyle(level batch.ProgressLevel) lipgloss.Style {
	switch level {
	case batch.LevelError:
		return errorStyle
	case batch.LevelWarning:
		return warningStyle
	case batch.LevelSuccess:
		return successStyle
	case batch.LevelInfo:
		return infoStyle
	default:
		return dimStyle
	}
}

func levelPrefix(level batch.ProgressLevel) string {
	switch level {
	case batch.LevelError:
		return "x"
	case batch.LevelWarning:
		return "!"
	case batch.LevelSuccess:
		return "+"
	case batch.LevelInfo:
		return ">"
	default:
		return "-"
	}
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: parse | ctrl+p: playlist | ctrl+t: tags | ctrl+l: verbose | esc: quit"
	case StateScanning, StateParsing:
		return "esc: cancel"
	case StateResults:
		return "up/down: scroll | r: new sheet | q: quit"
	case StateError:
		return "r: new sheet | q: quit"
	}
	return ""
}

// renderResults lays out every parsed sheet for the viewport.
func renderResults(results []batch.Result) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		renderResult(&b, res)
	}
	return b.String()
}

func renderResult(b *strings.Builder, res batch.Result) {
	if !res.OK() {
		b.WriteString(errorStyle.Render("FAIL " + res.Source))
		b.WriteString("\n")
		fmt.Fprintf(b, "  %v\n", res.Err)
		return
	}

	sheet := res.Sheet
	b.WriteString(successStyle.Render("OK   " + res.Source))
	b.WriteString("\n")

	header := sheet.Metadata.Title
	if sheet.Metadata.Performer != "" {
		header = sheet.Metadata.Performer + " - " + header
	}
	if header != "" {
		b.WriteString(subtitleStyle.Render("  " + header))
		b.WriteString("\n")
	}
	if sheet.HasCatalog() {
		b.WriteString(dimStyle.Render("  Catalog: " + sheet.Catalog))
		b.WriteString("\n")
	}

	for _, file := range sheet.Files {
		b.WriteString(fileStyle.Render(fmt.Sprintf("  %s (%s)", file.Name, file.Type)))
		b.WriteString("\n")
		for _, track := range file.Tracks {
			renderTrack(b, track, sheet.Metadata)
		}
	}

	if res.Playlist != "" {
		b.WriteString(infoStyle.Render("  Playlist: " + res.Playlist))
		b.WriteString("\n")
	}
	if res.Tagged > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Tagged %d file(s)", res.Tagged)))
		b.WriteString("\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(warningStyle.Render("  ! " + w.String()))
		b.WriteString("\n")
	}
}

func renderTrack(b *strings.Builder, track model.Track, disc model.Metadata) {
	meta := track.Metadata.Inherit(disc)
	fmt.Fprintf(b, "    %02d  %s  %s", track.Number, track.Index01, meta.Title)
	if meta.Performer != "" && meta.Performer != disc.Performer {
		fmt.Fprintf(b, " / %s", meta.Performer)
	}
	b.WriteString("\n")

	var extra []string
	if track.Type != model.TrackAudio {
		extra = append(extra, track.Type.String())
	}
	if track.Pregap != nil {
		extra = append(extra, fmt.Sprintf("pregap %s (%s)", track.Pregap, track.PregapSource))
	}
	for _, idx := range track.Indexes {
		extra = append(extra, fmt.Sprintf("index %02d %s", idx.Number, idx.Time))
	}
	if track.Postgap != nil {
		extra = append(extra, "postgap "+track.Postgap.String())
	}
	if !track.Flags.IsEmpty() {
		extra = append(extra, "flags "+track.Flags.String())
	}
	if len(extra) > 0 {
		b.WriteString(dimStyle.Render("        " + strings.Join(extra, ", ")))
		b.WriteString("\n")
	}
}

// Run starts the TUI application with settings from the default config
// file and CUESHEET_* environment variables.
func Run() error {
	settings, err := config.Load("", nil)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

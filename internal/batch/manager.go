package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/cuesheet/internal/audio"
	"github.com/handiism/cuesheet/internal/config"
	"github.com/handiism/cuesheet/internal/cue"
	"github.com/handiism/cuesheet/internal/http"
	ioutils "github.com/handiism/cuesheet/internal/io"
	"github.com/handiism/cuesheet/internal/model"
)

// ErrNoSheets is returned by Initialize when the inputs name no cue sheet.
var ErrNoSheets = errors.New("no cue sheets found")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a processing progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is the outcome for one cue sheet.
type Result struct {
	// Source is the file path or URL the sheet was read from.
	Source string

	// Sheet is nil when Err is set.
	Sheet    *model.CueSheet
	Warnings []cue.Warning
	Err      error

	// Playlist is the path of the playlist written, if any.
	Playlist string

	// Tagged counts the MP3 files whose tags were written.
	Tagged int
}

// OK reports whether the sheet parsed and validated.
func (r Result) OK() bool {
	return r.Err == nil
}

// Manager coordinates parsing of many cue sheets.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	parser       *cue.Parser
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	sources []string
	results []Result

	totalSheets     int32
	processedSheets int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new batch Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		httpClient:   http.NewClient(settings.HTTPTimeout(), settings.UserAgent),
		parser:       cue.NewParser(settings.ToParseOptions()),
		tagger:       audio.NewTagger(settings.ToTagConfig()),
		playlist:     settings.ToPlaylistCreator(),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize expands the inputs into the list of sheets to process.
//
// An input is an http(s) URL, a .cue file or a directory. Directories are
// searched for *.cue files, recursively when settings.Recursive is set.
// Inputs that cannot be read are reported and skipped.
func (m *Manager) Initialize(ctx context.Context, inputs []string) error {
	var sources []string
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if isURL(input) {
			sources = append(sources, input)
			continue
		}

		found, err := m.expandPath(input)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %s: %v", input, err), Level: LevelError})
			continue
		}
		sources = append(sources, found...)
	}

	if len(sources) == 0 {
		return ErrNoSheets
	}

	m.mu.Lock()
	m.sources = sources
	m.results = nil
	m.mu.Unlock()
	atomic.StoreInt32(&m.totalSheets, int32(len(sources)))
	atomic.StoreInt32(&m.processedSheets, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d cue sheet(s)", len(sources)), Level: LevelInfo})
	return nil
}

// Process parses every initialized sheet, at most
// settings.MaxConcurrentSheets at a time.
//
// A sheet that fails does not stop the others; its error is kept in its
// Result. Process returns an error only when ctx is cancelled.
func (m *Manager) Process(ctx context.Context) error {
	m.mu.RLock()
	sources := m.sources
	m.mu.RUnlock()

	results := make([]Result, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentSheets)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Source: src, Err: err}
				return err
			}
			results[i] = m.ProcessOne(ctx, src)
			return nil
		})
	}

	err := g.Wait()

	m.mu.Lock()
	m.results = results
	m.mu.Unlock()

	return err
}

// ProcessOne loads, parses and post-processes a single sheet.
func (m *Manager) ProcessOne(ctx context.Context, source string) Result {
	defer atomic.AddInt32(&m.processedSheets, 1)

	res := Result{Source: source}

	text, err := m.load(ctx, source)
	if err != nil {
		res.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %s: %v", source, err), Level: LevelError})
		return res
	}

	sheet, warnings, err := m.parser.Parse(text)
	if err != nil {
		res.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", source, err), Level: LevelError})
		return res
	}
	res.Sheet = sheet
	res.Warnings = warnings

	for _, w := range warnings {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", source, w), Level: LevelWarning})
	}

	if !isURL(source) {
		if m.settings.CreatePlaylist {
			res.Playlist = m.writePlaylist(ctx, source, sheet)
		}
		if m.settings.ModifyTags {
			res.Tagged = m.tagFiles(ctx, source, sheet)
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Parsed %s: %d file(s), %d track(s)", source, len(sheet.Files), sheet.TrackCount()),
		Level:   LevelSuccess,
	})
	return res
}

// Results returns the results of the last Process call in input order.
func (m *Manager) Results() []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// Sources returns the sheets found by Initialize.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.sources...)
}

// GetProgress returns how many sheets have been processed out of the total.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedSheets), atomic.LoadInt32(&m.totalSheets)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isCueFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".cue")
}

func (m *Manager) expandPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var found []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && !m.settings.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if isCueFile(d.Name()) {
			found = append(found, p)
		}
		return nil
	})
	return found, err
}

// load returns the decoded text of a local or remote sheet.
func (m *Manager) load(ctx context.Context, source string) (string, error) {
	if !isURL(source) {
		return ioutils.ReadCueFile(ctx, source, m.settings.Encoding)
	}

	data, err := m.fetch(ctx, source)
	if err != nil {
		return "", err
	}
	return ioutils.DecodeText(data, m.settings.Encoding)
}

// fetch downloads a remote sheet, retrying transient failures.
func (m *Manager) fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	var err error

	for tries := 0; tries < m.settings.FetchMaxRetries; tries++ {
		data, err = m.httpClient.Get(ctx, url)
		if err == nil {
			return data, nil
		}

		var statusErr *http.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return nil, err
		}
		if tries+1 < m.settings.FetchMaxRetries {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.FetchMaxRetries, url), Level: LevelWarning})
			if werr := m.waitForRetry(ctx, tries); werr != nil {
				return nil, werr
			}
		}
	}

	return nil, err
}

// writePlaylist writes the playlist next to the sheet and returns its path.
func (m *Manager) writePlaylist(ctx context.Context, source string, sheet *model.CueSheet) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	path := filepath.Join(filepath.Dir(source), ioutils.SanitizeFileName(base)+m.playlist.Format().Extension())

	content := m.playlist.CreatePlaylist(sheet)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return ""
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelVerbose})
	return path
}

// tagFiles writes ID3 tags into every taggable MP3 referenced by the sheet.
func (m *Manager) tagFiles(ctx context.Context, source string, sheet *model.CueSheet) int {
	dir := filepath.Dir(source)
	artwork := m.coverArt(ctx, dir)

	tagged := 0
	for i := range sheet.Files {
		f := &sheet.Files[i]
		if !audio.CanTag(f) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: not a single-track MP3", f.Name), Level: LevelVerbose})
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(f.Name, `\`, "/")))
		if err := m.tagger.SaveTags(path, sheet, f, artwork); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", f.Name, err), Level: LevelWarning})
			continue
		}
		tagged++
		m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", f.Name), Level: LevelVerbose})
	}
	return tagged
}

// coverArt returns prepared cover art from dir, or nil.
func (m *Manager) coverArt(ctx context.Context, dir string) []byte {
	if !m.settings.SaveCoverArtInTags {
		return nil
	}
	path := ioutils.FindCoverArt(dir)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err == nil {
		data, err = m.imageService.PrepareCoverArt(ctx, data, m.settings.CoverArtMaxSize())
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error preparing cover art %s: %v", path, err), Level: LevelWarning})
		return nil
	}
	return data
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) error {
	cooldown := m.settings.FetchRetryCooldown * math.Pow(m.settings.FetchRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
		return nil
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/handiism/cuesheet/internal/batch"
)

const watchDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate cue sheets whenever they change",
		Long: `Validate every cue sheet under a directory, then watch it and validate
each sheet again when it is written or created. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			root := args[0]

			info, err := os.Stat(root)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", root)
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			dirs, err := watchDirs(root, a.settings.Recursive)
			if err != nil {
				return err
			}
			for _, dir := range dirs {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("failed to watch %s: %w", dir, err)
				}
			}

			m := batch.NewManager(a.settings, progressLogger(a.logger))
			w := &sheetWatcher{
				manager:   m,
				out:       cmd.OutOrStdout(),
				recursive: a.settings.Recursive,
				timers:    make(map[string]*time.Timer),
			}

			ctx := cmd.Context()
			if err := m.Initialize(ctx, []string{root}); err == nil {
				if err := m.Process(ctx); err != nil {
					return err
				}
				for _, res := range m.Results() {
					w.report(res)
				}
			} else if !errors.Is(err, batch.ErrNoSheets) {
				return err
			}

			a.logger.Info("watching for changes", "dir", root, "recursive", a.settings.Recursive)
			w.loop(ctx, watcher)
			w.stop()
			return nil
		},
	}
}

// watchDirs lists root and, when recursive, every directory below it.
func watchDirs(root string, recursive bool) ([]string, error) {
	if !recursive {
		return []string{root}, nil
	}
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// isSheetChange reports whether event is a write or create of a .cue file.
func isSheetChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".cue")
}

// sheetWatcher re-validates sheets as fsnotify reports changes.
type sheetWatcher struct {
	manager   *batch.Manager
	out       io.Writer
	recursive bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (w *sheetWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if w.recursive && event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
					continue
				}
			}

			if !isSheetChange(event) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.print(fmt.Sprintf("watch error: %v", err))
		}
	}
}

// schedule debounces bursts of events for one path into a single check.
func (w *sheetWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.report(w.manager.ProcessOne(ctx, path))
	})
}

func (w *sheetWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *sheetWatcher) report(res batch.Result) {
	if !res.OK() {
		w.print(fmt.Sprintf("FAIL %s: %v", res.Source, res.Err))
		return
	}
	w.print(fmt.Sprintf("OK   %s (%d track(s), %d warning(s))", res.Source, res.Sheet.TrackCount(), len(res.Warnings)))
}

func (w *sheetWatcher) print(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.out, line)
}

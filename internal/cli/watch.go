package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/tablegen/compiler/load"
)

// DefaultDebounce is how long Watch waits for further events before
// rebuilding.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls rebuild once, then again every time a declaration file under
// the configured paths changes, until ctx is done. Errors returned by
// rebuild are logged and watching continues.
func Watch(ctx context.Context, cfg *Config, logger *slog.Logger, debounce time.Duration, rebuild func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return GeneralError("starting watcher", err)
	}
	defer w.Close()

	dirs, err := watchDirs(cfg.Paths)
	if err != nil {
		return SchemaError("resolving watch paths", err)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return GeneralError("watching "+dir, err)
		}
		logger.Debug("watching", "dir", dir)
	}

	run := func() {
		if err := rebuild(ctx); err != nil {
			logger.Error("rebuild failed", "error", err)
		}
	}
	run()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// watchDirs returns the directories to watch for the configured paths: a
// directory itself, or the directory of a file.
func watchDirs(paths []string) ([]string, error) {
	var dirs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		dir := p
		if !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if dir, err = filepath.Abs(dir); err != nil {
			return nil, err
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// relevant reports whether ev touches a declaration file. Generated files
// and test files are ignored so a rebuild does not trigger itself.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	switch {
	case strings.HasSuffix(name, load.GeneratedSuffix), strings.HasSuffix(name, "_test.go"):
		return false
	case strings.HasSuffix(name, ".go"):
		return true
	default:
		return strings.HasSuffix(name, ".tables.yaml") || strings.HasSuffix(name, ".tables.yml")
	}
}

package commands

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/session"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Paths  []string
	Format string // Output format: text, json
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-validate journal files as they change",
		Long: `Watch journal files and re-run validation on every save.

Each changed file keeps its own validation session, so repeated saves
within the debounce window collapse into one run and every report
shows what changed against the previous run of that file.

In JSON mode each re-check emits one line-delimited event with the
added and resolved issues, suitable for piping into other tools.`,
		Example: `  # Watch the current vault
  journalint watch

  # Watch one directory and emit JSON events
  journalint watch daily/ --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	exts := cfg.WatchExtensions()
	files, err := collectFiles(roots, exts)
	if err != nil {
		return err
	}

	sessCfg := sessionConfig(cfg, cmdCtx.Logger)
	sessCfg.Debounce = cfg.WatchDebounce()

	w := newWatchRunner(r, cmdCtx.Logger, sessCfg, exts)
	defer w.closeSessions()

	// Baseline pass: the first event for each file carries its full
	// issue list, later events only the delta.
	for _, path := range files {
		w.recheckNow(path)
	}
	if !w.jsonMode {
		r.Muted(time.Now().Format("15:04:05") + " watching " + strings.Join(roots, ", ") + " (Ctrl+C to stop)")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return w.loop(ctx, roots)
}

// watchRunner owns the per-file sessions and serializes event output.
type watchRunner struct {
	renderer *output.Renderer
	logger   *slog.Logger
	sessCfg  session.Config
	exts     map[string]struct{}
	jsonMode bool
	enc      *json.Encoder

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newWatchRunner(r *output.Renderer, logger *slog.Logger, sessCfg session.Config, exts []string) *watchRunner {
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = struct{}{}
	}
	w := &watchRunner{
		renderer: r,
		logger:   logger,
		sessCfg:  sessCfg,
		exts:     extSet,
		jsonMode: r.EffectiveMode() == output.ModeJSON,
		sessions: make(map[string]*session.Session),
	}
	if w.jsonMode {
		w.enc = json.NewEncoder(r.Writer())
	}
	return w
}

func (w *watchRunner) loop(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watchDirRecursive(watcher, root); err != nil {
				w.logger.Error("failed to watch directory", "dir", root, "error", err)
			}
			continue
		}
		if err := watcher.Add(filepath.Dir(root)); err != nil {
			w.logger.Error("failed to watch file", "file", root, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, watched := w.exts[strings.ToLower(filepath.Ext(event.Name))]; !watched {
				continue
			}
			w.recheck(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// recheck schedules a debounced validation run for path. Editors
// fire several write events per save; each one re-reads the file, so
// the run that finally fires sees the newest content.
func (w *watchRunner) recheck(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("skipping unreadable file", "file", path, "error", err)
		return
	}
	w.sessionFor(path).Schedule(string(data))
}

// recheckNow validates path synchronously, emitting its baseline
// event through the session's result hook.
func (w *watchRunner) recheckNow(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("skipping unreadable file", "file", path, "error", err)
		return
	}
	w.sessionFor(path).Run(string(data))
}

func (w *watchRunner) sessionFor(path string) *session.Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.sessions[path]; ok {
		return s
	}
	cfg := w.sessCfg
	var s *session.Session
	cfg.OnResult = func(res session.Result) {
		w.emit(path, s, res)
	}
	s = session.New(cfg)
	w.sessions[path] = s
	return s
}

func (w *watchRunner) closeSessions() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sessions {
		s.Close()
	}
}

// emit reports one completed run. Runs complete on debounce timer
// goroutines, so output is serialized here.
func (w *watchRunner) emit(path string, s *session.Session, res session.Result) {
	delta := s.Delta()

	errors, warnings, infos := 0, 0, 0
	for _, d := range res.Diagnostics {
		switch d.Severity {
		case lint.SeverityError:
			errors++
		case lint.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.jsonMode {
		event := output.WatchEvent{
			Time:     time.Now().Format(time.RFC3339),
			Path:     path,
			Errors:   errors,
			Warnings: warnings,
			Infos:    infos,
		}
		for _, d := range delta.Added {
			event.Added = append(event.Added, toCheckDiagnostic(d))
		}
		for _, d := range delta.Removed {
			event.Removed = append(event.Removed, toCheckDiagnostic(d))
		}
		if err := w.enc.Encode(event); err != nil {
			w.logger.Error("failed to encode watch event", "error", err)
		}
		return
	}

	styles := w.renderer.Styles()
	parts := []string{
		styles.Muted.Render(time.Now().Format("15:04:05")),
		styles.Path.Render(path),
	}
	if n := len(delta.Added); n > 0 {
		parts = append(parts, styles.Error.Render("+"+strconv.Itoa(n)))
	}
	if n := len(delta.Removed); n > 0 {
		parts = append(parts, styles.Success.Render("-"+strconv.Itoa(n)))
	}
	switch {
	case len(res.Diagnostics) == 0:
		parts = append(parts, styles.Success.Render("clean"))
	case delta.Empty():
		parts = append(parts, styles.Muted.Render(issueSummary(errors, warnings, infos)+" (no change)"))
	default:
		parts = append(parts, styles.Muted.Render(issueSummary(errors, warnings, infos)))
	}
	w.renderer.Println(strings.Join(parts, " "))
}

func issueSummary(errors, warnings, infos int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, strconv.Itoa(errors)+" errors")
	}
	if warnings > 0 {
		parts = append(parts, strconv.Itoa(warnings)+" warnings")
	}
	if infos > 0 {
		parts = append(parts, strconv.Itoa(infos)+" notes")
	}
	if len(parts) == 0 {
		return "0 issues"
	}
	return strings.Join(parts, ", ")
}

// watchDirRecursive adds a directory and all subdirectories to the
// watcher, skipping hidden directories the way file collection does.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}

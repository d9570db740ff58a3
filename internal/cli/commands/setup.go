package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/config"
	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/internal/state"
	"github.com/inkwell-labs/journalint/pkg/session"
)

// ErrIssuesFound marks a run that completed but found error-severity
// issues. main maps it to exit code 1; every other error exits 2.
var ErrIssuesFound = errors.New("errors found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the shared dependencies from the
// command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, falling back to
// environment variables when no Load has run (direct command
// construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		OutputFormat: os.Getenv("JOURNALINT_OUTPUT"),
		Verbose:      os.Getenv("JOURNALINT_VERBOSE") == "true",
	}
}

// sessionConfig assembles the engine configuration for validation
// runs from the host config.
func sessionConfig(cfg *config.Config, logger *slog.Logger) session.Config {
	return session.Config{
		Structure: cfg.StructureConfig(),
		Isolation: cfg.IsolationConfig(),
		Lint:      cfg.LintConfig(),
		Debounce:  cfg.DebouncePeriod(),
		Logger:    logger,
	}
}

// openHistory opens the run-history store, or returns nil when
// recording is disabled or the store cannot be opened. History is
// best-effort; a missing store never fails the command.
func openHistory(cmdCtx *CommandContext) *state.Store {
	if !cmdCtx.Cfg.HistoryEnabled() {
		return nil
	}
	path := ""
	if cmdCtx.Cfg.History != nil {
		path = cmdCtx.Cfg.History.Path
	}
	if path == "" {
		var err error
		path, err = state.DefaultPath()
		if err != nil {
			cmdCtx.Logger.Warn("run history disabled", "error", err)
			return nil
		}
	}
	store, err := state.Open(path, cmdCtx.Logger)
	if err != nil {
		cmdCtx.Logger.Warn("run history disabled", "error", err)
		return nil
	}
	return store
}

// collectFiles expands paths into the sorted list of journal files to
// process. Directories are walked recursively for matching
// extensions, skipping hidden directories; explicitly named files are
// taken as-is.
func collectFiles(paths []string, exts []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = struct{}{}
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; ok {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", p, walkErr)
		}
	}

	sort.Strings(files)
	return files, nil
}

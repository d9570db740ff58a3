package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/fix"
	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
	"github.com/inkwell-labs/journalint/pkg/text"
)

// DefaultDebounce is the delay between the last Schedule call and the
// run it triggers.
const DefaultDebounce = 250 * time.Millisecond

// Config holds session configuration. A Config may be shared across
// sessions; the session clones the lint configuration at construction
// so later mutation by the caller never reaches a running session.
type Config struct {
	// Structure is the set of named structure definitions. The zero
	// value has no structures, which limits validation to
	// structure-independent rules.
	Structure parser.StructureConfig

	// Isolation controls which content categories hide their text
	// from analysis. The zero value isolates nothing; hosts normally
	// pass classify.DefaultConfig().
	Isolation classify.Config

	// Lint configures the analyzer. Nil means all rules at default
	// severities.
	Lint *lint.Config

	// Debounce is the trailing-edge delay for Schedule. Zero or
	// negative means DefaultDebounce.
	Debounce time.Duration

	// OnResult, when set, is called after every completed run, on
	// whichever goroutine executed it.
	OnResult func(Result)

	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Session validates one document. All methods are safe for concurrent
// use; pipeline runs are serialized internally.
type Session struct {
	structures parser.StructureConfig
	classifier *classify.Classifier
	base       *lint.Config
	analyzer   *lint.Analyzer
	debounce   time.Duration
	onResult   func(Result)
	logger     *slog.Logger

	// runMu serializes pipeline executions. A run that has started
	// always completes; requests arriving meanwhile wait here.
	runMu sync.Mutex

	mu         sync.Mutex
	state      State
	timer      *time.Timer
	pendingGen uint64
	last       *Result
	prev       *Result
	closed     bool
}

// New creates a session. It cannot fail: an invalid isolation pattern
// or custom rule degrades to engine-attributed issues on every run
// instead of blocking construction.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	base := cfg.Lint.Clone()
	s := &Session{
		structures: cfg.Structure,
		classifier: classify.New(cfg.Isolation),
		base:       base,
		analyzer:   lint.NewAnalyzer(base),
		debounce:   debounce,
		onResult:   cfg.OnResult,
		logger:     logger,
		state:      StateIdle,
	}
	logger.Debug("session created",
		"structures", len(cfg.Structure.Structures),
		"debounce", debounce)
	return s
}

// Run validates the given text synchronously and returns the issue
// list. The text value is the run's snapshot; the caller may keep
// editing its document meanwhile.
func (s *Session) Run(input string) []lint.Diagnostic {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.isClosed() {
		return nil
	}
	res := s.runLocked(input)
	return append([]lint.Diagnostic(nil), res.Diagnostics...)
}

// RunAndFix applies the given fixes to the text and re-validates the
// result. It returns the new text and the remaining issues. Stale or
// conflicting fixes are skipped, never applied partially; skips are
// logged.
func (s *Session) RunAndFix(input string, fixes []lint.Fix) (string, []lint.Diagnostic) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.isClosed() {
		return input, nil
	}

	s.setState(StateApplying)
	outcome := fix.Apply(input, fixes...)
	for _, sk := range outcome.Skipped {
		s.logger.Warn("fix skipped", "fix", sk.Description, "reason", sk.Reason)
	}
	s.logger.Debug("fixes applied",
		"applied", len(outcome.Applied),
		"skipped", len(outcome.Skipped))

	res := s.runLocked(outcome.Text)
	return outcome.Text, append([]lint.Diagnostic(nil), res.Diagnostics...)
}

// Schedule requests a debounced validation run of the given text.
// Rapid successive calls collapse into a single pending run carrying
// the text of the latest call; the run starts after the debounce
// delay elapses without another Schedule.
func (s *Session) Schedule(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.state == StateReady {
		s.state = StateIdle
	}
	s.pendingGen++
	gen := s.pendingGen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.firePending(gen, input)
	})
}

// firePending executes a debounced run unless it was superseded or
// cancelled after its timer fired.
func (s *Session) firePending(gen uint64, input string) {
	s.mu.Lock()
	if s.closed || gen != s.pendingGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.runLocked(input)
}

// CancelPending discards the pending debounced run, if any, and
// reports whether one was cancelled. A run that has already started
// executing cannot be cancelled and always completes.
func (s *Session) CancelPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.pendingGen++
	return true
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns a copy of the last completed run's issue list, nil
// when no run has completed yet.
func (s *Session) Results() []lint.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	return append([]lint.Diagnostic(nil), s.last.Diagnostics...)
}

// Last returns a copy of the last completed run's full result. The
// second return is false when no run has completed yet.
func (s *Session) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	res := *s.last
	res.Diagnostics = append([]lint.Diagnostic(nil), s.last.Diagnostics...)
	return res, true
}

// Delta reports what changed between the last two completed runs.
// After the first run everything counts as added.
func (s *Session) Delta() Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	var before, after []lint.Diagnostic
	if s.prev != nil {
		before = s.prev.Diagnostics
	}
	if s.last != nil {
		after = s.last.Diagnostics
	}
	return Diff(before, after)
}

// Close discards any pending run and stops the session. Subsequent
// Schedule calls are ignored and Run returns nil.
func (s *Session) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pendingGen++
	s.closed = true
	s.mu.Unlock()
	s.logger.Debug("session closed")
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// runLocked executes one pipeline run and publishes the result. The
// caller holds runMu.
func (s *Session) runLocked(input string) Result {
	s.setState(StateValidating)
	res := s.execute(input)

	s.mu.Lock()
	s.prev = s.last
	s.last = &res
	s.state = StateReady
	s.mu.Unlock()

	if s.onResult != nil {
		s.onResult(res)
	}
	return res
}

// execute runs the pipeline stages in order: classify, parse, apply
// frontmatter overrides, analyze. Stages never fail; configuration
// problems surface as engine-attributed issues in the result.
func (s *Session) execute(input string) Result {
	start := time.Now()

	idx := text.NewIndex(input)
	spans := s.classifier.Classify(input)

	var engine []lint.Diagnostic
	for _, pe := range s.classifier.PatternErrors() {
		engine = append(engine, engineIssue(pe.Error()))
	}

	ov, fmIssue := parseOverrides(input, spans)
	if fmIssue != nil {
		engine = append(engine, *fmIssue)
	}

	analyzer := s.analyzer
	if len(ov.Lint.Disabled) > 0 {
		cfg := s.base.Clone()
		for _, id := range ov.Lint.Disabled {
			cfg.Disable(id)
		}
		analyzer = lint.NewAnalyzer(cfg)
	}

	doc := &lint.Document{
		Text:  input,
		Index: idx,
		Spans: spans,
		Tree:  parser.Parse(idx, spans, s.structures),
	}
	structure := ""
	if def, ok := s.structures.Active(ov.Structure); ok {
		active := def
		doc.Structure = &active
		doc.StructureName = def.Name
		structure = def.Name
	} else {
		// Unresolved reference; the analyzer reports it.
		doc.StructureName = ov.Structure
	}

	diags := analyzer.Analyze(doc)
	if len(engine) > 0 {
		diags = append(engine, diags...)
		lint.Sort(diags)
	}

	res := Result{
		Diagnostics: diags,
		Structure:   structure,
		Duration:    time.Since(start),
	}
	s.logger.Debug("validation run complete",
		"structure", structure,
		"issues", len(diags),
		"duration", res.Duration)
	return res
}

func engineIssue(msg string) lint.Diagnostic {
	pos := text.Position{Line: 1, Column: 1, Offset: 0}
	return lint.Diagnostic{
		RuleID:   lint.EngineRuleID,
		Severity: lint.SeverityWarning,
		Message:  msg,
		Pos:      pos,
		EndPos:   pos,
	}
}

package session_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/lint"
	_ "github.com/inkwell-labs/journalint/pkg/lint/rules"
	"github.com/inkwell-labs/journalint/pkg/parser"
	"github.com/inkwell-labs/journalint/pkg/session"
	"github.com/inkwell-labs/journalint/pkg/text"
)

// testStructures configures a compact journal structure plus a
// "scratch" structure with no requirements, so override tests can
// switch between strict and lax validation.
func testStructures() parser.StructureConfig {
	return parser.StructureConfig{
		Default: "journal-entry",
		Structures: []parser.StructureDef{
			{
				Name:             "journal-entry",
				EntryCallout:     "journal-entry",
				ChildCallouts:    []string{"dream-diary"},
				MetricsCallout:   "dream-metrics",
				RequiredChildren: []string{"dream-metrics"},
				DateFormats:      []string{"2006-01-02"},
				Metrics: parser.MetricsSpec{
					Required:        []string{"Sensory Detail", "Emotional Recall"},
					AllowAdditional: true,
				},
			},
			{
				Name:         "scratch",
				EntryCallout: "journal-entry",
				Metrics:      parser.MetricsSpec{AllowAdditional: true},
			},
		},
	}
}

func newSession(t *testing.T, cfg session.Config) *session.Session {
	t.Helper()
	s := session.New(cfg)
	t.Cleanup(s.Close)
	return s
}

const cleanEntry = `> [!journal-entry] 2024-01-15
> Walked through a corridor of doors.
>
> > [!dream-metrics]
> > Sensory Detail: 4
> > Emotional Recall: 3
`

const missingMetricEntry = `> [!journal-entry] 2024-01-15
> Walked through a corridor of doors.
>
> > [!dream-metrics]
> > Sensory Detail: 4
`

func TestSession_RunCleanDocument(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	diags := s.Run(cleanEntry)

	assert.Empty(t, diags)
	assert.Equal(t, session.StateReady, s.State())

	res, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "journal-entry", res.Structure)
	assert.False(t, res.HasErrors())
}

func TestSession_RunReportsIssues(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	diags := s.Run(missingMetricEntry)

	require.NotEmpty(t, diags)
	assert.Equal(t, "CT01", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "Emotional Recall")

	res, ok := s.Last()
	require.True(t, ok)
	assert.True(t, res.HasErrors())
	assert.Equal(t, 1, res.Count(lint.SeverityError))
}

func TestSession_StateTransitions(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Debounce:  25 * time.Millisecond,
	})

	assert.Equal(t, session.StateIdle, s.State())

	s.Run(cleanEntry)
	assert.Equal(t, session.StateReady, s.State())

	// A new edit invalidates the current results.
	s.Schedule(cleanEntry)
	assert.Equal(t, session.StateIdle, s.State())

	assert.True(t, s.CancelPending())
	assert.False(t, s.CancelPending())
	assert.Equal(t, session.StateIdle, s.State())
}

func TestSession_ScheduleCoalesces(t *testing.T) {
	var runs atomic.Int32
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
		Debounce:  25 * time.Millisecond,
		OnResult:  func(session.Result) { runs.Add(1) },
	})

	// Rapid edits: only the last text should be validated, once.
	for range 5 {
		s.Schedule(missingMetricEntry)
	}
	s.Schedule(cleanEntry)

	require.Eventually(t, func() bool { return runs.Load() == 1 },
		2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	assert.Empty(t, s.Results(), "the coalesced run should carry the latest text")
	assert.Equal(t, session.StateReady, s.State())
}

func TestSession_CancelPendingPreventsRun(t *testing.T) {
	var runs atomic.Int32
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Debounce:  25 * time.Millisecond,
		OnResult:  func(session.Result) { runs.Add(1) },
	})

	s.Schedule(cleanEntry)
	require.True(t, s.CancelPending())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.Equal(t, session.StateIdle, s.State())
}

func TestSession_RunAndFix(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	diags := s.Run(missingMetricEntry)
	require.NotEmpty(t, diags)
	require.NotEmpty(t, diags[0].Fixes)

	newText, remaining := s.RunAndFix(missingMetricEntry, diags[0].Fixes)

	assert.Contains(t, newText, "> > Emotional Recall: ")
	for _, d := range remaining {
		assert.NotEqual(t, "CT01", d.RuleID)
	}
	assert.Equal(t, session.StateReady, s.State())
}

func TestSession_Delta(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	s.Run(missingMetricEntry)
	first := s.Delta()
	require.Len(t, first.Added, 1, "first run reports everything as added")
	assert.Equal(t, "CT01", first.Added[0].RuleID)
	assert.Empty(t, first.Removed)

	// The missing metric is fixed but a typoed callout appears.
	edited := `> [!journal-entry] 2024-01-15
> Walked through a corridor of doors.
>
> > [!dream-dairy]
> > nonsense
>
> > [!dream-metrics]
> > Sensory Detail: 4
> > Emotional Recall: 3
`
	s.Run(edited)

	delta := s.Delta()
	require.Len(t, delta.Added, 1)
	assert.Equal(t, "ST03", delta.Added[0].RuleID)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "CT01", delta.Removed[0].RuleID)
	assert.False(t, delta.Empty())
}

func TestSession_FrontmatterStructureOverride(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	doc := `---
title: quick capture
structure: scratch
---
` + missingMetricEntry

	diags := s.Run(doc)
	assert.Empty(t, diags, "the scratch structure requires nothing")

	res, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "scratch", res.Structure)
}

func TestSession_FrontmatterDisablesRules(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	doc := `---
lint:
  disabled: [CT01]
---
` + missingMetricEntry

	diags := s.Run(doc)
	for _, d := range diags {
		assert.NotEqual(t, "CT01", d.RuleID)
	}

	// The override is per document, not a config mutation.
	diags = s.Run(missingMetricEntry)
	require.NotEmpty(t, diags)
	assert.Equal(t, "CT01", diags[0].RuleID)
}

func TestSession_FrontmatterMalformed(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	doc := `---
structure: [unclosed
---
` + missingMetricEntry

	diags := s.Run(doc)

	var engine []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == lint.EngineRuleID {
			engine = append(engine, d)
		}
	}
	require.Len(t, engine, 1)
	assert.Equal(t, lint.SeverityWarning, engine[0].Severity)
	assert.Contains(t, engine[0].Message, "invalid YAML")

	// Overrides are ignored; the default structure still applies.
	found := false
	for _, d := range diags {
		if d.RuleID == "CT01" {
			found = true
		}
	}
	assert.True(t, found, "validation proceeds with the default structure")
}

func TestSession_FrontmatterUnknownStructure(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	doc := `---
structure: nope
---
` + missingMetricEntry

	diags := s.Run(doc)

	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.RuleID == lint.EngineRuleID {
			assert.Contains(t, d.Message, `unknown structure "nope"`)
			found = true
		}
		// Structure-dependent checks are skipped entirely.
		assert.NotEqual(t, "CT01", d.RuleID)
	}
	assert.True(t, found)

	res, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "", res.Structure)
}

func TestSession_IsolationPatternErrorSurfaces(t *testing.T) {
	iso := classify.DefaultConfig()
	iso.Custom = append(iso.Custom, classify.CustomPattern{Name: "broken", Pattern: "("})

	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: iso,
	})

	diags := s.Run(cleanEntry)

	require.Len(t, diags, 1)
	assert.Equal(t, lint.EngineRuleID, diags[0].RuleID)
	assert.Contains(t, diags[0].Message, `isolation pattern "broken"`)
}

func TestSession_ResultsAreSnapshots(t *testing.T) {
	s := newSession(t, session.Config{
		Structure: testStructures(),
		Isolation: classify.DefaultConfig(),
	})

	s.Run(missingMetricEntry)

	got := s.Results()
	require.NotEmpty(t, got)
	got[0].RuleID = "mutated"

	fresh := s.Results()
	assert.Equal(t, "CT01", fresh[0].RuleID)
}

func TestSession_CloseStopsWork(t *testing.T) {
	var runs atomic.Int32
	s := session.New(session.Config{
		Structure: testStructures(),
		Debounce:  25 * time.Millisecond,
		OnResult:  func(session.Result) { runs.Add(1) },
	})

	s.Schedule(cleanEntry)
	s.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
	assert.Nil(t, s.Run(cleanEntry))
}

func TestSession_ZeroConfig(t *testing.T) {
	s := newSession(t, session.Config{})

	assert.NotPanics(t, func() {
		diags := s.Run("just some plain text\n")
		assert.Empty(t, diags)
	})
	assert.Empty(t, s.Run(""))
}

func TestDiff(t *testing.T) {
	mk := func(id string, offset int, msg string) lint.Diagnostic {
		return lint.Diagnostic{
			RuleID:  id,
			Message: msg,
			Pos:     text.Position{Line: 1, Column: offset + 1, Offset: offset},
		}
	}

	before := []lint.Diagnostic{
		mk("ST01", 0, "missing block"),
		mk("CT01", 40, "missing metric"),
	}
	after := []lint.Diagnostic{
		mk("CT01", 40, "missing metric"),
		mk("FM01", 2, "no date"),
	}

	delta := session.Diff(before, after)
	require.Len(t, delta.Added, 1)
	assert.Equal(t, "FM01", delta.Added[0].RuleID)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "ST01", delta.Removed[0].RuleID)

	t.Run("position shift is remove plus add", func(t *testing.T) {
		moved := session.Diff(
			[]lint.Diagnostic{mk("ST01", 0, "missing block")},
			[]lint.Diagnostic{mk("ST01", 10, "missing block")},
		)
		assert.Len(t, moved.Added, 1)
		assert.Len(t, moved.Removed, 1)
	})

	t.Run("identical lists are empty", func(t *testing.T) {
		assert.True(t, session.Diff(before, before).Empty())
	})

	t.Run("duplicates match pairwise", func(t *testing.T) {
		dup := mk("CT04", 12, "duplicate metric")
		delta := session.Diff(
			[]lint.Diagnostic{dup, dup},
			[]lint.Diagnostic{dup},
		)
		assert.Empty(t, delta.Added)
		assert.Len(t, delta.Removed, 1)
	})
}

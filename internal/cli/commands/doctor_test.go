package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/journalint/internal/cli/testutil"
	"github.com/inkwell-labs/journalint/pkg/lint"
)

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor [paths...]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		checks    []HealthCheck
		fileCount int
		minScore  int
		maxScore  int
	}{
		{
			name:      "no checks returns 100",
			checks:    nil,
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "ST01", Status: "pass", IssueCount: 0},
				{RuleID: "CT01", Status: "pass", IssueCount: 0},
			},
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "ST01", Status: "pass", IssueCount: 0},
				{RuleID: "FM03", Status: "warn", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  80,
			maxScore:  100,
		},
		{
			name: "errors reduce score more",
			checks: []HealthCheck{
				{RuleID: "CT01", Status: "error", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  70,
			maxScore:  95,
		},
		{
			name: "more files means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "FM01", Status: "warn", IssueCount: 5},
			},
			fileCount: 100,
			minScore:  90,
			maxScore:  100,
		},
		{
			name: "many issues can reduce to 0",
			checks: []HealthCheck{
				{RuleID: "ST01", Status: "error", IssueCount: 20},
				{RuleID: "CT01", Status: "error", IssueCount: 20},
			},
			fileCount: 5,
			minScore:  0,
			maxScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.fileCount)
			assert.GreaterOrEqual(t, score, tt.minScore, "score should be >= %d", tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore, "score should be <= %d", tt.maxScore)
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	tests := []struct {
		ruleID   string
		expected bool // whether a recommendation is returned
	}{
		{"ST01", true},
		{"ST02", true},
		{"ST03", true},
		{"ST04", true},
		{"ST05", true},
		{"FM01", true},
		{"FM02", true},
		{"FM03", true},
		{"CT01", true},
		{"CT02", true},
		{"CT03", true},
		{"CT04", true},
		{lint.EngineRuleID, true},
		{"UNKNOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.ruleID, func(t *testing.T) {
			rec := getRecommendation(tt.ruleID)
			if tt.expected {
				assert.NotEmpty(t, rec, "expected recommendation for %s", tt.ruleID)
			} else {
				assert.Empty(t, rec, "expected no recommendation for %s", tt.ruleID)
			}
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "CT01", Status: "error", IssueCount: 1},
		{RuleID: "FM03", Status: "warn", IssueCount: 2},
		{RuleID: "ST01", Status: "pass", IssueCount: 0},
	}

	recommendations := generateRecommendations(checks)

	assert.Len(t, recommendations, 2)
	assert.Contains(t, recommendations[0], "journalint fix")
	assert.Contains(t, recommendations[1], "canonical casing")
}

func TestGenerateRecommendations_LimitTo5(t *testing.T) {
	ruleIDs := []string{"ST01", "ST02", "ST03", "ST04", "ST05", "FM01", "FM02", "FM03", "CT01", "CT02"}
	checks := make([]HealthCheck, len(ruleIDs))
	for i, id := range ruleIDs {
		checks[i] = HealthCheck{RuleID: id, Status: "warn", IssueCount: 1}
	}

	recommendations := generateRecommendations(checks)

	assert.Len(t, recommendations, 5)
}

func TestScanOne(t *testing.T) {
	root := testutil.SetupTestVault(t)
	sessCfg := defaultSessionConfig()

	t.Run("valid entry", func(t *testing.T) {
		scan := scanOne(filepath.Join(root, "daily", "2024-03-15.md"), sessCfg)

		require.NoError(t, scan.Err)
		assert.Empty(t, scan.Diags)
		assert.Equal(t, 1, scan.Entries)
		assert.Equal(t, 1, scan.Metrics)
		assert.Equal(t, 10, scan.Lines)
	})

	t.Run("broken entry", func(t *testing.T) {
		scan := scanOne(filepath.Join(root, "daily", "2024-03-16.md"), sessCfg)

		require.NoError(t, scan.Err)
		assert.Len(t, scan.Diags, 5)
		assert.Equal(t, 1, scan.Entries)
		assert.Equal(t, 1, scan.Metrics)
	})

	t.Run("missing file", func(t *testing.T) {
		scan := scanOne(filepath.Join(root, "nope.md"), sessCfg)
		assert.Error(t, scan.Err)
	})
}

func TestBuildDoctorOutput(t *testing.T) {
	root := testutil.SetupTestVault(t)
	sessCfg := defaultSessionConfig()
	files := []string{
		filepath.Join(root, "daily", "2024-03-15.md"),
		filepath.Join(root, "daily", "2024-03-16.md"),
	}

	out := buildDoctorOutput(scanVault(files, sessCfg))

	assert.Equal(t, 2, out.Summary.Files)
	assert.Equal(t, 2, out.Summary.Entries)
	assert.Equal(t, 2, out.Summary.MetricsBlocks)
	assert.Equal(t, 16, out.Summary.Lines)

	// One check per registered rule; nothing read failed, so no
	// engine check is added.
	assert.Len(t, out.HealthChecks, lint.Count())

	var ct01 HealthCheck
	for _, check := range out.HealthChecks {
		if check.RuleID == "CT01" {
			ct01 = check
			continue
		}
		assert.Equal(t, "pass", check.Status, "rule %s should pass", check.RuleID)
	}
	assert.Equal(t, "error", ct01.Status)
	assert.Equal(t, 5, ct01.IssueCount)
	require.NotEmpty(t, ct01.Details)
	assert.Contains(t, ct01.Details[0], "2024-03-16.md:")

	// 5 errors at 2 files: 100 - 5*5*2.
	assert.Equal(t, 50, out.Score)
	assert.Equal(t, 5, out.IssueCount)
	require.NotEmpty(t, out.Recommendations)
	assert.Contains(t, out.Recommendations[0], "journalint fix")

	// Groups come out sorted, content rules first.
	assert.Equal(t, "content", out.HealthChecks[0].Group)
}

func TestBuildEngineCheck(t *testing.T) {
	scans := []vaultScan{
		{Path: "daily/2024-03-15.md"},
		{Path: "daily/gone.md", Err: errors.New("permission denied")},
	}

	check, ok := buildEngineCheck(scans, nil, nil)

	require.True(t, ok)
	assert.Equal(t, lint.EngineRuleID, check.RuleID)
	assert.Equal(t, "error", check.Status)
	assert.Equal(t, 1, check.IssueCount)
	require.Len(t, check.Details, 1)
	assert.Contains(t, check.Details[0], "gone.md")
}

func TestBuildEngineCheckCleanRun(t *testing.T) {
	scans := []vaultScan{{Path: "daily/2024-03-15.md"}}

	_, ok := buildEngineCheck(scans, nil, nil)

	assert.False(t, ok)
}

func TestRunDoctorJSON(t *testing.T) {
	root := testutil.SetupTestVault(t)

	cmd := NewDoctorCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{root, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var doc DoctorOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 2, doc.Summary.Files)
	assert.Equal(t, 50, doc.Score)
	assert.Equal(t, 5, doc.IssueCount)
	assert.Len(t, doc.HealthChecks, lint.Count())
}

func TestRunDoctorEmptyVault(t *testing.T) {
	cmd := NewDoctorCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "No journal files found")
}

func TestRenderDoctorText(t *testing.T) {
	tr := testutil.NewTestRendererText()
	out := &DoctorOutput{
		Summary: VaultSummary{Files: 2, Entries: 2, MetricsBlocks: 2, Lines: 16},
		HealthChecks: []HealthCheck{
			{RuleID: "CT01", Name: "required-metrics", Group: "content", Status: "error", IssueCount: 5,
				Details: []string{"a.md:4 one", "a.md:4 two", "a.md:4 three", "a.md:4 four", "a.md:4 five"}},
			{RuleID: "ST01", Name: "required-children", Group: "structure", Status: "pass"},
		},
		Score:           42,
		Recommendations: []string{"Run 'journalint fix' to insert missing metric lines"},
		IssueCount:      5,
	}

	require.NoError(t, renderDoctorText(tr.Renderer, out))

	got := tr.Output()
	assert.Contains(t, got, "Journal Health Report")
	assert.Contains(t, got, "Files: 2 | Entries: 2 | Metrics blocks: 2")
	assert.Contains(t, got, "Content")
	assert.Contains(t, got, "CT01: required-metrics (5 issues)")
	assert.Contains(t, got, "... and 2 more")
	assert.Contains(t, got, "42/100")
	assert.Contains(t, got, "1. Run 'journalint fix'")
	testutil.AssertNoANSI(t, got)
}

func TestRenderDoctorMarkdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	out := &DoctorOutput{
		Summary: VaultSummary{Files: 1},
		HealthChecks: []HealthCheck{
			{RuleID: "CT01", Name: "required-metrics", Group: "content", Status: "error", IssueCount: 5},
			{RuleID: "FM01", Name: "entry-date", Group: "format", Status: "pass"},
		},
		Score: 50,
	}

	require.NoError(t, renderDoctorMarkdown(tr.Renderer, out))

	got := tr.Output()
	assert.Contains(t, got, "# Journal Health Report")
	assert.Contains(t, got, "### Content")
	assert.Contains(t, got, "- **[ERROR]** CT01: required-metrics (5 issues)")
	assert.Contains(t, got, "- **[PASS]** FM01: entry-date")
	assert.Contains(t, got, "**50/100**")
	testutil.AssertValidMarkdown(t, got)
}

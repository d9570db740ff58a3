package output

// JSON output documents shared by commands. These are plain DTOs;
// commands convert engine types into them before rendering.

// CheckDiagnostic is one reported issue.
type CheckDiagnostic struct {
	RuleID    string `json:"ruleId"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Fixable   bool   `json:"fixable"`
}

// CheckFileResult groups the issues found in one file.
type CheckFileResult struct {
	Path        string            `json:"path"`
	Structure   string            `json:"structure,omitempty"`
	Diagnostics []CheckDiagnostic `json:"diagnostics"`
	Error       string            `json:"error,omitempty"`
}

// CheckSummary totals one check run.
type CheckSummary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
	Fixable  int `json:"fixable"`
}

// CheckOutput is the JSON document for the check command.
type CheckOutput struct {
	Files   []CheckFileResult `json:"files"`
	Summary CheckSummary      `json:"summary"`
}

// FixFileResult reports fix application for one file.
type FixFileResult struct {
	Path      string   `json:"path"`
	Applied   int      `json:"applied"`
	Skipped   int      `json:"skipped"`
	Remaining int      `json:"remaining"`
	Passes    int      `json:"passes"`
	Written   bool     `json:"written"`
	Details   []string `json:"details,omitempty"`
}

// FixOutput is the JSON document for the fix command.
type FixOutput struct {
	Files   []FixFileResult `json:"files"`
	Applied int             `json:"applied"`
	Skipped int             `json:"skipped"`
}

// WatchEvent is one line-delimited JSON event emitted by watch mode
// after each re-check of a changed file.
type WatchEvent struct {
	Time     string            `json:"time"`
	Path     string            `json:"path"`
	Added    []CheckDiagnostic `json:"added,omitempty"`
	Removed  []CheckDiagnostic `json:"removed,omitempty"`
	Errors   int               `json:"errors"`
	Warnings int               `json:"warnings"`
	Infos    int               `json:"infos"`
}

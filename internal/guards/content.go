package guards

import (
	"fmt"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// NewMockCodeDetection warns when an edit introduces mocking constructs
// into a file. This is advisory because legitimate tests use mocks
// deliberately; the guard exists to catch mocks slipping into
// production code paths under the guise of "temporary" stubs.
func NewMockCodeDetection() guard.Guard {
	return &mockCodeGuard{Base: guard.Base{
		GuardName:        "Mock Code Detection",
		GuardDescription: "warns when mock/stub constructs are introduced",
		Action:           guard.ActionAllow,
	}}
}

type mockCodeGuard struct{ guard.Base }

func (g *mockCodeGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolWrite && req.ToolName != request.ToolEdit && req.ToolName != request.ToolMultiEdit {
		return false
	}
	matched, _ := patterns.MatchesAny(req.CombinedEditText(), patterns.MockCode)
	return matched
}

func (g *mockCodeGuard) Message(req *request.Request) string {
	matches := patterns.FindAllMatches(req.CombinedEditText(), patterns.MockCode)
	return fmt.Sprintf(
		"WARNING: mock/stub constructs detected in %s: %v\n\n"+
			"Confirm this is test code and not a stand-in left in a production path.",
		req.FilePath, matches,
	)
}

// NewSQLInShell warns when a raw SQL statement appears directly in a
// shell command rather than going through a database client's own
// interface.
func NewSQLInShell() guard.Guard {
	return &sqlInShellGuard{Base: guard.Base{
		GuardName:        "SQL In Shell Command",
		GuardDescription: "warns on raw SQL embedded directly in a shell command",
		Action:           guard.ActionAllow,
	}}
}

type sqlInShellGuard struct{ guard.Base }

func (g *sqlInShellGuard) ShouldTrigger(req *request.Request) bool {
	return req.ToolName == request.ToolBash && patterns.SQLKeywords.MatchString(req.Command)
}

func (g *sqlInShellGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: raw SQL statement embedded in a shell command.\n\n"+
			"Command: %s\n\n"+
			"Consider running this through a migration file or the project's database client "+
			"instead of an inline shell invocation, for auditability.",
		req.Command,
	)
}

// NewLocationDependent warns on a command whose behavior depends on the
// current working directory (relative scripts, bare make/npm/yarn,
// python scripts invoked without a path).
func NewLocationDependent() guard.Guard {
	return &locationDependentGuard{Base: guard.Base{
		GuardName:        "Location-Dependent Command",
		GuardDescription: "warns on commands whose meaning depends on the working directory",
		Action:           guard.ActionAllow,
	}}
}

type locationDependentGuard struct{ guard.Base }

func (g *locationDependentGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	matched, _ := patterns.MatchesAny(req.Command, patterns.LocationDependent)
	return matched
}

func (g *locationDependentGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: '%s' depends on the current working directory. Verify the working directory "+
			"before relying on its result, or use an absolute path.",
		req.Command,
	)
}

// NewPrematureCompletion warns on shell echoes that assert "done" outside
// a test runner or build tool's own completion report.
func NewPrematureCompletion() guard.Guard {
	return &prematureCompletionGuard{Base: guard.Base{
		GuardName:        "Premature Completion Claim",
		GuardDescription: "warns on shell echoes asserting success without supporting evidence",
		Action:           guard.ActionAllow,
	}}
}

type prematureCompletionGuard struct{ guard.Base }

func (g *prematureCompletionGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	matched, _ := patterns.MatchesAny(req.Command, patterns.Completion)
	return matched
}

func (g *prematureCompletionGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: '%s' asserts success via a plain echo. Confirm the underlying command's exit "+
			"code or test output actually supports this claim before reporting it as done.",
		req.Command,
	)
}

// NewFilesystemIntrusion warns when a tool reads or writes a path inside
// the assistant's own installation directory from outside its sanctioned
// installer/updater.
func NewFilesystemIntrusion() guard.Guard {
	return &filesystemIntrusionGuard{Base: guard.Base{
		GuardName:        "Installation Directory Intrusion",
		GuardDescription: "warns on direct reads/writes into the assistant's install directory",
		Action:           guard.ActionAllow,
	}}
}

type filesystemIntrusionGuard struct{ guard.Base }

func (g *filesystemIntrusionGuard) ShouldTrigger(req *request.Request) bool {
	if req.FilePath != "" && patterns.ClaudeDir.MatchString(req.FilePath) {
		return true
	}
	return req.ToolName == request.ToolBash && patterns.ClaudeDir.MatchString(req.Command)
}

func (g *filesystemIntrusionGuard) Message(req *request.Request) string {
	target := req.FilePath
	if target == "" {
		target = req.Command
	}
	return fmt.Sprintf(
		"WARNING: '%s' touches the assistant's own installation directory directly. Prefer the "+
			"sanctioned installer/updater for changes there.",
		target,
	)
}

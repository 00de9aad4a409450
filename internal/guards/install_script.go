package guards

import (
	"fmt"
	"path/filepath"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// NewInstallScriptPrevention blocks creating or rewriting an unsanctioned
// installer script whose content mutates the assistant's own install
// directory: a file whose name looks like an installer AND whose
// content touches ~/.claude (or another dotfile install root) is
// blocked outright, regardless of which sanctioned installer already
// exists.
func NewInstallScriptPrevention() guard.Guard {
	return &installScriptGuard{Base: guard.Base{
		GuardName:        "Install Script Prevention",
		GuardDescription: "blocks unsanctioned installer scripts that mutate the install directory",
		Action:           guard.ActionBlock,
		Fail:             guard.FailClosed,
	}}
}

type installScriptGuard struct{ guard.Base }

func (g *installScriptGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolWrite && req.ToolName != request.ToolEdit && req.ToolName != request.ToolMultiEdit {
		return false
	}
	if req.FilePath == "" {
		return false
	}
	name := filepath.Base(req.FilePath)
	matched, _ := patterns.MatchesAny(name, patterns.InstallScriptName)
	if !matched {
		return false
	}
	content := req.CombinedEditText()
	dangerous, _ := patterns.MatchesAny(content, patterns.InstallDirMutation)
	return dangerous
}

func (g *installScriptGuard) Message(req *request.Request) string {
	matches := patterns.FindAllMatches(req.CombinedEditText(), patterns.InstallDirMutation)
	return fmt.Sprintf(
		"SECURITY VIOLATION: unsanctioned installer script detected.\n\n"+
			"File: %s\n"+
			"Dangerous content: %v\n\n"+
			"This file's name matches an installer pattern and its content mutates the assistant's "+
			"own installation directory. Only the project's sanctioned installer may do this. "+
			"Creating a second installer that touches the same directory risks corrupting an "+
			"existing installation. Use the sanctioned installer's update path instead.",
		req.FilePath, matches,
	)
}

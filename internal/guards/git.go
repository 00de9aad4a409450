// Package guards implements the concrete Pattern Guards and the
// Duplicate-Prevention Guard. Each guard is grounded on the
// corresponding class in the original hook system's guards/ package,
// built on the Pattern Library (internal/patterns) and the Guard
// interface (internal/guard).
package guards

import (
	"fmt"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// NewGitNoVerify blocks a `git commit --no-verify` that bypasses
// pre-commit hooks.
func NewGitNoVerify() guard.Guard {
	return &gitNoVerifyGuard{Base: guard.Base{
		GuardName:        "Git No-Verify Prevention",
		GuardDescription: "blocks git commit --no-verify",
		Action:           guard.ActionBlock,
	}}
}

type gitNoVerifyGuard struct{ guard.Base }

func (g *gitNoVerifyGuard) ShouldTrigger(req *request.Request) bool {
	return req.ToolName == request.ToolBash && patterns.GitNoVerify.MatchString(req.Command)
}

func (g *gitNoVerifyGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"SECURITY VIOLATION: --no-verify bypasses pre-commit hooks.\n\n"+
			"Command: %s\n\n"+
			"Pre-commit hooks exist to catch issues before they reach the repository. "+
			"Fix the underlying issue the hook is complaining about instead of skipping it.",
		req.Command,
	)
}

// NewGitForcePush blocks `git push --force` (excluding --force-with-lease).
func NewGitForcePush() guard.Guard {
	return &gitForcePushGuard{Base: guard.Base{
		GuardName:        "Git Force Push Prevention",
		GuardDescription: "blocks git push --force / -f",
		Action:           guard.ActionBlock,
	}}
}

type gitForcePushGuard struct{ guard.Base }

func (g *gitForcePushGuard) ShouldTrigger(req *request.Request) bool {
	return req.ToolName == request.ToolBash && patterns.MatchesForcePush(req.Command)
}

func (g *gitForcePushGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"SECURITY VIOLATION: force push can overwrite remote history and destroy others' work.\n\n"+
			"Command: %s\n\n"+
			"Use 'git push --force-with-lease' instead, which refuses to overwrite commits "+
			"you haven't seen.",
		req.Command,
	)
}

// NewGitCheckoutSafety warns (does not block) on checkout/switch/restore/
// reset invocations that can discard uncommitted work.
func NewGitCheckoutSafety() guard.Guard {
	return &gitCheckoutSafetyGuard{Base: guard.Base{
		GuardName:        "Git Checkout Safety",
		GuardDescription: "warns before operations that can discard uncommitted work",
		Action:           guard.ActionAllow,
	}}
}

type gitCheckoutSafetyGuard struct{ guard.Base }

func (g *gitCheckoutSafetyGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	matched, _ := patterns.MatchesAny(req.Command, patterns.GitCheckoutFamily)
	return matched
}

func (g *gitCheckoutSafetyGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: '%s' can discard uncommitted work. Run 'git status' first if you're unsure "+
			"what will be lost.",
		req.Command,
	)
}

package guards

import (
	"fmt"
	"strings"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// nonAssigningVerbs are leading command verbs that reference a bypass
// variable name without assigning it (reading, printing, or removing it)
// and so must NOT trigger: echo, if [ -n "$VAR" ], unset VAR, printenv VAR.
var nonAssigningVerbs = map[string]bool{
	"echo":     true,
	"if":       true,
	"unset":    true,
	"printenv": true,
}

// NewEnvBypass blocks setting an environment variable whose name looks
// like a safety-guard bypass switch (SKIP_*, *_BYPASS, DISABLE_*, NO_*,
// FORCE_PASS, ALWAYS_PASS, IGNORE_FAILURES).
func NewEnvBypass() guard.Guard {
	return &envBypassGuard{Base: guard.Base{
		GuardName:        "Environment Variable Bypass Prevention",
		GuardDescription: "blocks setting environment variables that disable safety checks",
		Action:           guard.ActionBlock,
	}}
}

type envBypassGuard struct{ guard.Base }

func (g *envBypassGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	cmd := strings.TrimSpace(req.Command)
	if cmd == "" {
		return false
	}
	if verb := leadingVerb(cmd); nonAssigningVerbs[verb] {
		return false
	}

	for _, m := range patterns.EnvAssignment.FindAllStringSubmatch(cmd, -1) {
		if len(m) < 2 {
			continue
		}
		if patterns.EnvBypassName.MatchString(m[1]) {
			return true
		}
	}
	return false
}

func (g *envBypassGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"SECURITY VIOLATION: ENVIRONMENT BYPASS ATTEMPT DETECTED\n\n"+
			"Command: %s\n\n"+
			"Guards exist to prevent production issues. Setting an environment variable to "+
			"disable or skip them is a SECURITY POLICY violation, not a fix. Fix the underlying "+
			"issue the guard is reporting instead of bypassing it.",
		req.Command,
	)
}

func leadingVerb(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

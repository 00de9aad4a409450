package guards

import (
	"fmt"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// NewPipInstallDiscipline warns on a bare `pip install <pkg>` that
// bypasses requirements-file discipline. `-r requirements.txt`,
// `--upgrade pip`, and `--user` invocations are exempt.
func NewPipInstallDiscipline() guard.Guard {
	return &pipInstallGuard{Base: guard.Base{
		GuardName:        "Pip Install Discipline",
		GuardDescription: "warns on ad-hoc pip install outside requirements files",
		Action:           guard.ActionAllow,
	}}
}

type pipInstallGuard struct{ guard.Base }

func (g *pipInstallGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	if !patterns.PipInstallBare.MatchString(req.Command) {
		return false
	}
	return !patterns.PipHasAllowedFlag(req.Command)
}

func (g *pipInstallGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: ad-hoc pip install bypasses requirements-file discipline.\n\n"+
			"Command: %s\n\n"+
			"Add the dependency to requirements.txt (or pyproject.toml) so installs stay "+
			"reproducible across environments.",
		req.Command,
	)
}

// NewPythonVenvDiscipline warns when invoking a bare `python`/`python3`
// interpreter outside a project-local virtualenv.
func NewPythonVenvDiscipline() guard.Guard {
	return &pythonVenvGuard{Base: guard.Base{
		GuardName:        "Python Virtualenv Discipline",
		GuardDescription: "warns on bare python invocation outside a project venv",
		Action:           guard.ActionAllow,
	}}
}

type pythonVenvGuard struct{ guard.Base }

func (g *pythonVenvGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	if !patterns.PythonBareInvocation.MatchString(req.Command) {
		return false
	}
	if patterns.PythonExempt(req.Command) {
		return false
	}
	return !patterns.PythonUsesVenv(req.Command)
}

func (g *pythonVenvGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"WARNING: invoking the system python interpreter outside a project virtualenv.\n\n"+
			"Command: %s\n\n"+
			"Activate the project's venv (or invoke .venv/bin/python directly) so the right "+
			"dependency versions are used.",
		req.Command,
	)
}

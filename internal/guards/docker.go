package guards

import (
	"fmt"

	"guardhook/internal/guard"
	"guardhook/internal/patterns"
	"guardhook/internal/request"
)

// NewDockerRestart blocks direct container restarts: restarts should go
// through the project's compose/orchestration entry point so config/env
// changes actually take effect.
func NewDockerRestart() guard.Guard {
	return &dockerRestartGuard{Base: guard.Base{
		GuardName:        "Docker Restart Prevention",
		GuardDescription: "blocks ad-hoc container restarts",
		Action:           guard.ActionBlock,
	}}
}

type dockerRestartGuard struct{ guard.Base }

func (g *dockerRestartGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	matched, _ := patterns.MatchesAny(req.Command, patterns.DockerRestart)
	return matched
}

func (g *dockerRestartGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"SECURITY VIOLATION: direct container restart bypasses the project's orchestration.\n\n"+
			"Command: %s\n\n"+
			"A restart does not reload changed images, volumes, or compose config. Rebuild and "+
			"recreate through docker compose instead.",
		req.Command,
	)
}

// NewDockerWithoutCompose blocks bare `docker ...` invocations that skip
// docker-compose/the project's container discipline. Read-only commands
// (ps, logs, exec, images, ...) are exempt.
func NewDockerWithoutCompose() guard.Guard {
	return &dockerWithoutComposeGuard{Base: guard.Base{
		GuardName:        "Container Discipline",
		GuardDescription: "requires compose for container lifecycle commands",
		Action:           guard.ActionBlock,
	}}
}

type dockerWithoutComposeGuard struct{ guard.Base }

func (g *dockerWithoutComposeGuard) ShouldTrigger(req *request.Request) bool {
	if req.ToolName != request.ToolBash {
		return false
	}
	if !patterns.DockerInvocation.MatchString(req.Command) {
		return false
	}
	if patterns.DockerHasCompose.MatchString(req.Command) {
		return false
	}
	return !patterns.DockerSafeCommands.MatchString(req.Command)
}

func (g *dockerWithoutComposeGuard) Message(req *request.Request) string {
	return fmt.Sprintf(
		"SECURITY VIOLATION: bare docker command bypasses the project's compose configuration.\n\n"+
			"Command: %s\n\n"+
			"Use 'docker compose' so networking, volumes, and env files stay consistent with the "+
			"rest of the stack.",
		req.Command,
	)
}

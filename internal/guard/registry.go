package guard

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"guardhook/internal/logging"
	"guardhook/internal/request"
)

// sentinelTool is the wildcard tool-name bucket: a guard registered under
// it applies to every tool variant.
const sentinelTool = "*"

// Interactor abstracts the User Interaction component so the registry
// never imports a concrete terminal implementation.
type Interactor interface {
	// IsInteractive reports whether stdin/stdout/stderr are all attached
	// to a terminal.
	IsInteractive() bool
	// Confirm prints message to stderr and reads a y/n response. It
	// returns the caller-supplied default when the response is empty, and
	// false when the response is unreadable (EOF/interrupt).
	Confirm(message string, defaultAllow bool) bool
}

// OverrideChecker abstracts the Override Authenticator.
type OverrideChecker interface {
	// Check consumes the current override candidate (if any) and reports
	// whether it validly authorizes exactly one bypass. A checker must
	// only return true once per process.
	Check() (ok bool, reason string)
}

// Registry maps tool name to an ordered list of applicable guards and
// evaluates them against a request.
type Registry struct {
	byTool     map[string][]Guard
	order      []string // tool names in registration order, for determinism in tests
	interactor Interactor
	override   OverrideChecker
	auditPath  string
}

// NewRegistry constructs an empty registry. Construction never reads user
// input.
func NewRegistry(interactor Interactor, override OverrideChecker) *Registry {
	return &Registry{
		byTool:     make(map[string][]Guard),
		interactor: interactor,
		override:   override,
	}
}

// SetAuditLog points the registry at a best-effort, append-only file that
// records blocking decisions. Observability only: a write failure is
// logged and otherwise ignored, never propagated to the caller.
func (r *Registry) SetAuditLog(path string) {
	r.auditPath = path
}

// Register adds guard to every tool name listed. Passing "*" registers a
// universal guard.
func (r *Registry) Register(g Guard, tools ...string) {
	for _, tool := range tools {
		if _, seen := r.byTool[tool]; !seen {
			r.order = append(r.order, tool)
		}
		r.byTool[tool] = append(r.byTool[tool], g)
	}
}

// applicableGuards concatenates the wildcard bucket with the tool-specific
// bucket, wildcard guards first, preserving each bucket's registration
// order.
func (r *Registry) applicableGuards(toolName request.ToolName) []Guard {
	var out []Guard
	out = append(out, r.byTool[sentinelTool]...)
	out = append(out, r.byTool[string(toolName)]...)
	return out
}

// Evaluate runs every applicable guard against req in registration order
// and stops at the first blocking decision: strict registration order,
// blocking guards included inline.
func (r *Registry) Evaluate(req *request.Request) Decision {
	var warnings []string

	for _, g := range r.applicableGuards(req.ToolName) {
		triggered, msg := r.safeEvaluate(g, req)
		if !triggered {
			continue
		}

		switch g.DefaultAction() {
		case ActionAllow:
			warnings = append(warnings, msg)
			logging.Get(logging.CategoryGuard).Infow("guard warned", "guard", g.Name())
			continue

		case ActionBlock:
			if r.interactor != nil && r.interactor.IsInteractive() {
				if r.interactor.Confirm(msg, false) {
					logging.Get(logging.CategoryGuard).Warnw("guard override by interactive confirmation", "guard", g.Name())
					warnings = append(warnings, msg)
					continue
				}
				r.appendBlockAuditLog(g.Name(), req)
				return Decision{
					ShouldBlock: true,
					ExitCode:    ExitRefuse,
					Message:     joinMessages(warnings, msg),
					GuardName:   g.Name(),
				}
			}

			if r.override != nil {
				if ok, reason := r.override.Check(); ok {
					logging.Get(logging.CategoryGuard).Warnw("guard decision overridden by TOTP", "guard", g.Name(), "reason", reason)
					warnings = append(warnings, msg)
					continue
				}
			}

			r.appendBlockAuditLog(g.Name(), req)
			return Decision{
				ShouldBlock: true,
				ExitCode:    ExitRefuse,
				Message:     joinMessages(warnings, msg),
				GuardName:   g.Name(),
			}
		}
	}

	return Decision{
		ShouldBlock: false,
		ExitCode:    ExitAdmit,
		Message:     joinMessages(warnings),
	}
}

// safeEvaluate wraps a guard's ShouldTrigger/Message calls so a panicking
// guard never crashes the host. A FailClosed guard that panics
// is treated as a block; everything else is treated as admit-with-warning.
func (r *Registry) safeEvaluate(g Guard, req *request.Request) (triggered bool, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Get(logging.CategoryGuard).Errorw("guard panicked", "guard", g.Name(), "panic", rec)
			if g.FailMode() == FailClosed {
				triggered = true
				message = fmt.Sprintf("%s: internal error during safety-critical validation (%v); refusing by policy", g.Name(), rec)
			} else {
				triggered = false
			}
		}
	}()

	if !g.ShouldTrigger(req) {
		return false, ""
	}
	return true, g.Message(req)
}

// appendBlockAuditLog records a blocking decision to the best-effort audit
// file, mirroring the override authenticator's own audit logging. A
// missing auditPath or any write failure is logged at debug level and
// otherwise swallowed: loss of this file never affects a decision.
func (r *Registry) appendBlockAuditLog(guardName string, req *request.Request) {
	eventID := uuid.New().String()
	logging.Get(logging.CategoryGuard).Warnw("guard blocked request", "guard", guardName, "tool", req.ToolName, "event_id", eventID)

	if r.auditPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.auditPath), 0o700); err != nil {
		logging.Get(logging.CategoryGuard).Debugw("failed to create guard audit log dir", "err", err)
		return
	}
	f, err := os.OpenFile(r.auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		logging.Get(logging.CategoryGuard).Debugw("failed to open guard audit log", "err", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s event=%s guard=%s tool=%s blocked\n", time.Now().UTC().Format(time.RFC3339), eventID, guardName, req.ToolName)
	if _, err := f.WriteString(line); err != nil {
		logging.Get(logging.CategoryGuard).Debugw("failed to append guard audit log", "err", err)
	}
}

func joinMessages(groups ...interface{}) string {
	var out string
	for _, group := range groups {
		switch v := group.(type) {
		case []string:
			for _, s := range v {
				if s == "" {
					continue
				}
				if out != "" {
					out += "\n\n"
				}
				out += s
			}
		case string:
			if v == "" {
				continue
			}
			if out != "" {
				out += "\n\n"
			}
			out += v
		}
	}
	return out
}

// Package patterns is the compiled, reusable regular-expression library
// shared by every pattern-based guard. It is a direct port of
// the original hook system's utils/patterns.py, recompiled with Go's
// regexp/syntax (RE2, no backreferences or lookahead) — patterns that
// relied on negative lookahead in the source are re-expressed as a raw
// match followed by an explicit exclusion check (see MatchesForcePush).
//
// All patterns are compiled once at package init, matching the teacher's
// convention of constructing expensive state at process start, not per
// request (internal/embedding.NewEngine, internal/store.NewLocalStore).
package patterns

import "regexp"

// GitNoVerify matches `git commit ... --no-verify`, tolerant of
// multi-line heredoc commit messages (Go's (?s) flag is the DOTALL
// equivalent of Python's re.DOTALL).
var GitNoVerify = regexp.MustCompile(`(?is)git\s+commit.*--no-verify`)

// gitForceRaw matches any `git push ... --force`. RE2 has no negative
// lookahead, so MatchesForcePush applies the "not -with-lease" exclusion
// through gitForceWithLease after a raw match.
var gitForceRaw = regexp.MustCompile(`(?i)git\s+push\s+.*--force\b`)
var gitForceWithLease = regexp.MustCompile(`(?i)--force-with-lease`)
var GitForceShortFlag = []*regexp.Regexp{
	regexp.MustCompile(`(?i)git\s+push\s+.*-f\s`),
	regexp.MustCompile(`(?i)git\s+push\s+.*-f$`),
}

// MatchesForcePush reports whether command is a force push, excluding the
// safe --force-with-lease form.
func MatchesForcePush(command string) bool {
	if gitForceRaw.MatchString(command) && !gitForceWithLease.MatchString(command) {
		return true
	}
	for _, p := range GitForceShortFlag {
		if p.MatchString(command) {
			return true
		}
	}
	return false
}

// GitCheckoutFamily matches commands that can discard uncommitted work;
// these are advisory (warn), not blocking.
var GitCheckoutFamily = []*regexp.Regexp{
	regexp.MustCompile(`(?i)git\s+checkout\s+.+`),
	regexp.MustCompile(`(?i)git\s+switch\s+.+`),
	regexp.MustCompile(`(?i)git\s+restore\s+.+`),
	regexp.MustCompile(`(?i)git\s+reset\s+.+`),
}

// DockerRestart matches restart invocations against a running container,
// whether via `docker restart`, `docker compose restart`, or
// `docker-compose restart`.
var DockerRestart = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdocker\s+.*\brestart\b`),
	regexp.MustCompile(`(?i)\bdocker-compose\s+.*\brestart\b`),
	regexp.MustCompile(`(?i)\bdocker\s+.*compose\s+.*\brestart\b`),
}

// DockerSafeCommands are read-only docker subcommands excluded from the
// "docker without compose" category.
var DockerSafeCommands = regexp.MustCompile(`(?i)\bdocker\s+(?:ps|logs|exec|images|system|info|version|help|--help)\b`)

// DockerHasCompose reports whether the command routes through compose.
var DockerHasCompose = regexp.MustCompile(`(?i)compose`)

// DockerInvocation matches any bare `docker ...` invocation; callers
// combine it with DockerSafeCommands/DockerHasCompose to find container
// container discipline violations.
var DockerInvocation = regexp.MustCompile(`(?i)\bdocker\s+`)

// ClaudeDir matches a path reference into the assistant's own install dir.
var ClaudeDir = regexp.MustCompile(`(?i)\.claude/`)

// MockCode lists identifiers/decorators associated with introducing mock
// code into production or test files.
var MockCode = []*regexp.Regexp{
	regexp.MustCompile(`(?i)@mock\.patch`),
	regexp.MustCompile(`(?i)unittest\.mock`),
	regexp.MustCompile(`(?i)MagicMock`),
	regexp.MustCompile(`(?i)Mock\(\)`),
	regexp.MustCompile(`(?i)SIMULATION:`),
	regexp.MustCompile(`(?i)if.*test_mode.*return.*fake`),
	regexp.MustCompile(`(?i)mock_\w*\s*=`),
	regexp.MustCompile(`(?i)\.patch\(`),
}

// LocationDependent matches shell invocations whose meaning depends on
// the current working directory (relative scripts, bare `make`/`npm`/
// `yarn`, python scripts without a path, relative docker volume mounts).
var LocationDependent = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cd\s+[^/]`),
	regexp.MustCompile(`(?i)(^|[;&|]\s*)\./\S*`),
	regexp.MustCompile(`(?i)\.\./\S*`),
	regexp.MustCompile(`(?i)(^|[;&|]\s*)[^/\s]+\.sh\b`),
	regexp.MustCompile(`(?i)docker.*compose.*-f\s+[^/]`),
	regexp.MustCompile(`(?i)(^|[;&|]\s*)make\b`),
	regexp.MustCompile(`(?i)(^|[;&|]\s*)npm\b`),
	regexp.MustCompile(`(?i)(^|[;&|]\s*)yarn\b`),
	regexp.MustCompile(`(?i)python3?\s+[^/\s-][^\s]*\.py\b`),
	regexp.MustCompile(`(?i)python3?\s+-m\s+\S+\s+[^/\s]`),
	regexp.MustCompile(`(?i)docker.*-v\s+\./`),
}

// Completion lists side-channel "I'm done" claims emitted via shell echo,
// the premature-completion category.
var Completion = []*regexp.Regexp{
	regexp.MustCompile(`(?i)echo.*complete`),
	regexp.MustCompile(`(?i)echo.*\bdone\b`),
	regexp.MustCompile(`(?i)echo.*finished`),
	regexp.MustCompile(`(?i)echo.*working`),
	regexp.MustCompile(`(?i)echo.*ready`),
	regexp.MustCompile(`(?i)echo.*implemented`),
	regexp.MustCompile(`(?i)echo.*fixed`),
	regexp.MustCompile(`(?i)echo.*success`),
	regexp.MustCompile(`(?i)echo.*passing`),
	regexp.MustCompile(`(?i)all.*tests.*passed`),
	regexp.MustCompile(`(?i)feature.*complete`),
	regexp.MustCompile(`(?i)implementation.*complete`),
}

// EnvBypassName matches environment variable identifiers associated with
// disabling safety infrastructure (guards, tests, CI checks).
var EnvBypassName = regexp.MustCompile(`(?i)\b(?:\w*SKIP\w*|\w*BYPASS\w*|\w*DISABLE\w*|NO_\w+|FORCE_PASS|ALWAYS_PASS|IGNORE_FAILURES)\b`)

// EnvAssignment matches `export VAR=value`, `set VAR=value`, `env
// VAR=value cmd...`, or an inline `VAR=value prog ...` prefix.
var EnvAssignment = regexp.MustCompile(`(?i)\b(?:export|set|env)?\s*([A-Z][A-Z0-9_]*)=(\S+)`)

// PipInstallBare matches a direct `pip install <pkg>` that bypasses
// requirements-file discipline.
var PipInstallBare = regexp.MustCompile(`(?i)\bpip3?\s+install\s+`)
var pipAllowedFlags = regexp.MustCompile(`(?i)(-r\s+\S*requirements\S*\.txt|--upgrade\s+pip|--user)`)

// PipHasAllowedFlag reports whether command carries a flag that exempts
// it from the "ad-hoc pip install" warning (-r requirements.txt,
// --upgrade pip, --user).
func PipHasAllowedFlag(command string) bool {
	return pipAllowedFlags.MatchString(command)
}

// PythonBareInvocation matches `python`/`python3` invoked outside a
// project-local virtualenv interpreter.
var PythonBareInvocation = regexp.MustCompile(`(?i)\bpython3?\b`)
var pythonExemptInvocation = regexp.MustCompile(`(?i)python3?\s+(--version|-V|-m\s+venv|$)|which\s+python`)
var pythonVenvInterpreter = regexp.MustCompile(`(?i)(venv|\.venv|virtualenv)/bin/python3?\b`)

// PythonExempt reports whether command is a python invocation exempt from
// the venv-discipline warning (--version, -V, -m venv, or `which python`).
func PythonExempt(command string) bool {
	return pythonExemptInvocation.MatchString(command)
}

// PythonUsesVenv reports whether command invokes python through a
// project-local virtualenv interpreter path.
func PythonUsesVenv(command string) bool {
	return pythonVenvInterpreter.MatchString(command)
}

// SQLKeywords matches SQL statements appearing directly in a shell
// command, as opposed to inside a database client invocation.
var SQLKeywords = regexp.MustCompile(`(?s)\b(?:SELECT\s+.+?\s+FROM|INSERT\s+INTO|UPDATE\s+.+?\s+SET|DELETE\s+FROM|CREATE\s+(?:TABLE|DATABASE|INDEX|VIEW)|ALTER\s+TABLE|DROP\s+(?:TABLE|DATABASE|INDEX|VIEW)|DESCRIBE\s+\w+|SHOW\s+(?:TABLES|DATABASES|CREATE))\b`)

// InstallScriptName matches file names that look like an installation
// script other than the one sanctioned script.
var InstallScriptName = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^install.*\.sh$`),
	regexp.MustCompile(`(?i)^setup.*\.sh$`),
	regexp.MustCompile(`(?i)^deploy.*\.sh$`),
	regexp.MustCompile(`(?i).*install.*claude.*\.sh$`),
	regexp.MustCompile(`(?i).*setup.*claude.*\.sh$`),
	regexp.MustCompile(`(?i).*install.*hook.*\.sh$`),
	regexp.MustCompile(`(?i).*install.*mcp.*\.sh$`),
}

// InstallDirMutation matches file content that copies, moves, removes, or
// creates inside the assistant's own installation directory outside the
// sanctioned installer.
var InstallDirMutation = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcp\b.*~/\.\w+`),
	regexp.MustCompile(`(?i)\bmv\b.*~/\.\w+`),
	regexp.MustCompile(`(?i)\brm\b.*~/\.\w+`),
	regexp.MustCompile(`(?i)\bmkdir\b.*~/\.\w+`),
	regexp.MustCompile(`(?i)\binstall\b.*~/\.\w+`),
}

// MatchesAny reports whether text matches any pattern in the set and
// returns the matched excerpt, guaranteed to be a substring of text so
// callers can quote it directly in a guard message.
func MatchesAny(text string, set []*regexp.Regexp) (matched bool, excerpt string) {
	for _, p := range set {
		if loc := p.FindString(text); loc != "" {
			return true, loc
		}
	}
	return false, ""
}

// FindAllMatches returns every matching excerpt across the set, used by
// guards that report multiple offending patterns at once (e.g. mock-code
// introduction, spec scenario 4).
func FindAllMatches(text string, set []*regexp.Regexp) []string {
	var out []string
	for _, p := range set {
		if m := p.FindString(text); m != "" {
			out = append(out, m)
		}
	}
	return out
}

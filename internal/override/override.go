// Package override implements the Override Authenticator: a
// TOTP-gated, single-use bypass for one blocking decision per process.
package override

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"guardhook/internal/logging"
)

const envOverrideCode = "HOOK_OVERRIDE_CODE"

// Authenticator validates a candidate TOTP code against a shared secret
// and consumes the override after a single successful use: once spent,
// it is never honored again for the remainder of the process.
type Authenticator struct {
	mu        sync.Mutex
	secret    string
	skew      time.Duration
	auditPath string
	consumed  bool

	// now is overridable for deterministic tests.
	now func() time.Time
}

// New constructs an Authenticator for the given shared secret
// (base32-encoded, provisioned out-of-band; cmd/guardhook reads it from
// GUARDHOOK_OVERRIDE_SECRET).
// skew is the clock-skew tolerance applied in both directions. auditPath
// is the best-effort append-only log file under the assistant's
// installation directory.
func New(secret string, skew time.Duration, auditPath string) *Authenticator {
	return &Authenticator{
		secret:    secret,
		skew:      skew,
		auditPath: auditPath,
		now:       time.Now,
	}
}

// Check reads HOOK_OVERRIDE_CODE from the environment, validates it, and
// — on success — consumes the override for the remainder of the process.
// A missing or malformed code is indistinguishable from no override: both
// simply return false with no detail, giving an attacker no oracle to
// brute force against.
func (a *Authenticator) Check() (ok bool, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.consumed {
		return false, "override already consumed this process"
	}
	if a.secret == "" {
		return false, ""
	}

	code := os.Getenv(envOverrideCode)
	if code == "" {
		return false, ""
	}

	valid := a.validate(code)
	if !valid {
		return false, ""
	}

	a.consumed = true
	a.appendAuditLog(code)
	return true, "valid override code"
}

// validate checks code against the TOTPs of every 30-second step from
// now-skew to now+skew, covering the clock-skew window in both
// directions; at least one step on each side is checked even when skew is
// under 30 seconds.
func (a *Authenticator) validate(code string) bool {
	at := a.now()
	step := 30 * time.Second
	windows := int(a.skew / step)
	if windows < 1 {
		windows = 1
	}
	for i := -windows; i <= windows; i++ {
		candidate := at.Add(time.Duration(i) * step)
		ok, err := totp.ValidateCustom(code, a.secret, candidate, totp.ValidateOpts{
			Period:    30,
			Skew:      0,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err == nil && ok {
			return true
		}
	}
	return false
}

// appendAuditLog records override acceptance to a best-effort,
// append-only file. Failures to write are logged but never propagated —
// the audit log is observability, not a durable record.
func (a *Authenticator) appendAuditLog(code string) {
	eventID := uuid.New().String()
	logging.Get(logging.CategoryOverride).Warnw("override accepted", "time", a.now().UTC(), "event_id", eventID)

	if a.auditPath == "" {
		return
	}
	if err := os.MkdirAll(dirOf(a.auditPath), 0o700); err != nil {
		logging.Get(logging.CategoryOverride).Debugw("failed to create audit log dir", "err", err)
		return
	}
	f, err := os.OpenFile(a.auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		logging.Get(logging.CategoryOverride).Debugw("failed to open audit log", "err", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s event=%s override-accepted code-suffix=%s\n", a.now().UTC().Format(time.RFC3339), eventID, lastFour(code))
	if _, err := f.WriteString(line); err != nil {
		logging.Get(logging.CategoryOverride).Debugw("failed to append audit log", "err", err)
	}
}

func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

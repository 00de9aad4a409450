package override

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func TestCheckMissingCodeIsIndistinguishableFromNoOverride(t *testing.T) {
	os.Unsetenv("HOOK_OVERRIDE_CODE")
	a := New(testSecret, 30*time.Second, "")
	ok, _ := a.Check()
	assert.False(t, ok, "expected no override when env var unset")
}

func TestCheckInvalidCodeRefuses(t *testing.T) {
	t.Setenv("HOOK_OVERRIDE_CODE", "000000")
	a := New(testSecret, 30*time.Second, "")
	ok, _ := a.Check()
	assert.False(t, ok, "expected invalid code to refuse")
}

func TestCheckValidCodeConsumedOnce(t *testing.T) {
	now := time.Now()
	code, err := totp.GenerateCode(testSecret, now)
	require.NoError(t, err)
	t.Setenv("HOOK_OVERRIDE_CODE", code)

	auditPath := filepath.Join(t.TempDir(), "audit.log")
	a := New(testSecret, 30*time.Second, auditPath)
	a.now = func() time.Time { return now }

	ok, _ := a.Check()
	require.True(t, ok, "expected valid TOTP to authorize override")

	ok2, _ := a.Check()
	assert.False(t, ok2, "expected override to be consumed after first use")

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data, "expected audit log entry to be written")
	assert.Contains(t, string(data), "event=")
}

func TestCheckEmptySecretNeverAuthorizes(t *testing.T) {
	t.Setenv("HOOK_OVERRIDE_CODE", "123456")
	a := New("", 30*time.Second, "")
	ok, _ := a.Check()
	assert.False(t, ok, "expected empty secret to never authorize")
}

package guards

import (
	"testing"

	"guardhook/internal/guard"
)

func TestRegisterPopulatesBashAndFileBuckets(t *testing.T) {
	registry := guard.NewRegistry(nil, nil)
	Register(registry, nil, nil, DuplicateConfig{})

	req := bashReq(t, `git commit -m "wip" --no-verify`)
	decision := registry.Evaluate(req)
	if !decision.ShouldBlock {
		t.Fatal("expected registered Bash guards to evaluate against a Bash request")
	}
	if decision.GuardName != "Git No-Verify Prevention" {
		t.Fatalf("expected Git No-Verify Prevention to fire first, got %q", decision.GuardName)
	}
}

func TestRegisterSkipsDuplicateGuardWithoutBackends(t *testing.T) {
	registry := guard.NewRegistry(nil, nil)
	Register(registry, nil, nil, DuplicateConfig{})

	req := writeReq(t, "new.go", "package main\n")
	decision := registry.Evaluate(req)
	if decision.ShouldBlock {
		t.Fatalf("did not expect a block with no embedding/vector-store backends, got %q", decision.Message)
	}
}

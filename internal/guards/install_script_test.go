package guards

import "testing"

func TestInstallScriptGuardBlocksDangerousInstaller(t *testing.T) {
	g := NewInstallScriptPrevention()
	req := writeReq(t, "install-claude-hooks.sh", "#!/bin/bash\ncp -r ./hooks ~/.claude/hooks\n")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on installer script mutating ~/.claude")
	}
}

func TestInstallScriptGuardIgnoresNonInstallerName(t *testing.T) {
	g := NewInstallScriptPrevention()
	req := writeReq(t, "build.sh", "cp -r ./hooks ~/.claude/hooks\n")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on a non-installer-named script")
	}
}

func TestInstallScriptGuardIgnoresSafeInstaller(t *testing.T) {
	g := NewInstallScriptPrevention()
	req := writeReq(t, "setup.sh", "#!/bin/bash\necho setting up project\nnpm install\n")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on installer that doesn't touch the install dir")
	}
}

func TestInstallScriptGuardFailsClosed(t *testing.T) {
	g := NewInstallScriptPrevention()
	if g.FailMode() != "closed" {
		t.Fatal("expected install script guard to fail closed")
	}
}

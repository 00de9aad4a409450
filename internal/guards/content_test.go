package guards

import "testing"

func TestMockCodeGuardWarnsOnMockPatch(t *testing.T) {
	g := NewMockCodeDetection()
	req := writeReq(t, "service.py", "@mock.patch('time.sleep')\ndef f(): pass")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on @mock.patch")
	}
}

func TestSQLInShellGuardWarns(t *testing.T) {
	g := NewSQLInShell()
	req := bashReq(t, `psql -c "DELETE FROM users WHERE id = 1"`)
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on raw SQL in shell command")
	}
}

func TestLocationDependentGuardWarnsOnRelativeScript(t *testing.T) {
	g := NewLocationDependent()
	req := bashReq(t, "./deploy.sh")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on relative script invocation")
	}
}

func TestLocationDependentGuardAllowsAbsolutePath(t *testing.T) {
	g := NewLocationDependent()
	req := bashReq(t, "/usr/bin/true")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on absolute path invocation")
	}
}

func TestPrematureCompletionGuardWarns(t *testing.T) {
	g := NewPrematureCompletion()
	req := bashReq(t, `echo "All tests passed!"`)
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on echoed success claim")
	}
}

func TestFilesystemIntrusionGuardWarnsOnClaudeDirPath(t *testing.T) {
	g := NewFilesystemIntrusion()
	req := writeReq(t, "/home/user/.claude/settings.json", "{}")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on write under .claude/")
	}
}

func TestFilesystemIntrusionGuardIgnoresUnrelatedPath(t *testing.T) {
	g := NewFilesystemIntrusion()
	req := writeReq(t, "/home/user/project/main.go", "package main")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on unrelated path")
	}
}

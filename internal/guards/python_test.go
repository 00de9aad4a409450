package guards

import "testing"

func TestPipInstallGuardWarnsOnBareInstall(t *testing.T) {
	g := NewPipInstallDiscipline()
	req := bashReq(t, "pip install requests")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on bare pip install")
	}
}

func TestPipInstallGuardExemptsRequirementsFile(t *testing.T) {
	g := NewPipInstallDiscipline()
	req := bashReq(t, "pip install -r requirements.txt")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger when installing from requirements.txt")
	}
}

func TestPythonVenvGuardExemptsVersionCheck(t *testing.T) {
	g := NewPythonVenvDiscipline()
	req := bashReq(t, "python3 --version")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger on version check")
	}
}

func TestPythonVenvGuardExemptsVenvInterpreter(t *testing.T) {
	g := NewPythonVenvDiscipline()
	req := bashReq(t, ".venv/bin/python3 main.py")
	if g.ShouldTrigger(req) {
		t.Fatal("did not expect trigger when invoking the venv interpreter directly")
	}
}

func TestPythonVenvGuardWarnsOnBareInvocation(t *testing.T) {
	g := NewPythonVenvDiscipline()
	req := bashReq(t, "python3 script.py")
	if !g.ShouldTrigger(req) {
		t.Fatal("expected trigger on bare python invocation")
	}
}

package request

import "testing"

func TestParseBytesCanonical(t *testing.T) {
	req, err := ParseBytes([]byte(`{"tool_name":"Bash","tool_input":{"command":"ls -la"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ToolName != ToolBash {
		t.Fatalf("expected Bash, got %s", req.ToolName)
	}
	if req.Command != "ls -la" {
		t.Fatalf("expected command to be derived, got %q", req.Command)
	}
}

func TestParseBytesLegacyAliases(t *testing.T) {
	req, err := ParseBytes([]byte(`{"tool":"Write","toolInput":{"file_path":"/tmp/a.py","content":"x=1"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ToolName != ToolWrite {
		t.Fatalf("expected Write via 'tool' alias, got %s", req.ToolName)
	}
	if req.FilePath != "/tmp/a.py" {
		t.Fatalf("expected file_path via toolInput alias, got %q", req.FilePath)
	}
}

func TestParseBytesParametersAlias(t *testing.T) {
	req, err := ParseBytes([]byte(`{"tool_name":"Bash","parameters":{"command":"echo hi"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Command != "echo hi" {
		t.Fatalf("expected command via parameters alias, got %q", req.Command)
	}
}

func TestParseBytesMissingInput(t *testing.T) {
	if _, err := ParseBytes([]byte(``)); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseBytesNotObject(t *testing.T) {
	if _, err := ParseBytes([]byte(`[1,2,3]`)); err == nil {
		t.Fatal("expected error for non-object JSON")
	}
}

func TestParseBytesMissingToolName(t *testing.T) {
	if _, err := ParseBytes([]byte(`{"tool_input":{}}`)); err == nil {
		t.Fatal("expected error when neither tool_name nor tool present")
	}
}

func TestParseBytesUnknownToolNameAllowed(t *testing.T) {
	req, err := ParseBytes([]byte(`{"tool_name":"FutureTool","tool_input":{}}`))
	if err != nil {
		t.Fatalf("unknown tool names must be accepted: %v", err)
	}
	if req.ToolName != "FutureTool" {
		t.Fatalf("expected tool name preserved, got %s", req.ToolName)
	}
}

func TestCombinedEditTextIsolatesEdits(t *testing.T) {
	req := &Request{
		Edits: []Edit{
			{NewString: "git commit -m x --no"},
			{NewString: "-verify"},
		},
	}
	combined := req.CombinedEditText()
	if combined != "git commit -m x --no\n-verify" {
		t.Fatalf("unexpected combined text: %q", combined)
	}
}

func TestDefaultEmptyDerivedFields(t *testing.T) {
	req, err := ParseBytes([]byte(`{"tool_name":"Bash","tool_input":{}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Command != "" || req.FilePath != "" {
		t.Fatal("absent fields must default to empty string, never inferred")
	}
}

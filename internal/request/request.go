// Package request implements the Input Normalizer: it parses
// the JSON object the host AI runtime sends on standard input and maps
// legacy field aliases into a canonical Request record.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ToolName enumerates the host operations guardhook recognizes. Unknown
// values are accepted and ignored for forward compatibility.
type ToolName string

const (
	ToolBash      ToolName = "Bash"
	ToolWrite     ToolName = "Write"
	ToolEdit      ToolName = "Edit"
	ToolMultiEdit ToolName = "MultiEdit"
)

// Edit is one {old_string, new_string} pair within a MultiEdit tool_input.
type Edit struct {
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
}

// Request is the normalized, immutable form of one hook invocation. It is
// never mutated after ParseBytes returns.
type Request struct {
	ToolName  ToolName               `json:"tool_name"`
	ToolInput map[string]interface{} `json:"tool_input"`

	// Derived convenience fields, populated mechanically from ToolInput.
	Command   string `json:"-"`
	FilePath  string `json:"-"`
	Content   string `json:"-"`
	OldString string `json:"-"`
	NewString string `json:"-"`
	Edits     []Edit `json:"-"`
}

// rawRequest captures every alias accepted on input before normalization.
type rawRequest struct {
	ToolName  *string                `json:"tool_name"`
	Tool      *string                `json:"tool"`
	ToolInput map[string]interface{} `json:"tool_input"`
	ToolInput2 map[string]interface{} `json:"toolInput"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ErrMalformedInput is returned for every input-malformed condition:
// no input, non-object JSON, neither tool_name nor tool present.
type ErrMalformedInput struct {
	Reason string
}

func (e *ErrMalformedInput) Error() string {
	return fmt.Sprintf("malformed hook input: %s", e.Reason)
}

// Parse reads one JSON object from r and returns its normalized Request.
func Parse(r io.Reader) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ErrMalformedInput{Reason: fmt.Sprintf("failed to read stdin: %v", err)}
	}
	return ParseBytes(data)
}

// ParseBytes normalizes raw JSON bytes into a Request. Exposed separately
// from Parse so tests and the MCP layer can feed literal payloads.
func ParseBytes(data []byte) (*Request, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ErrMalformedInput{Reason: "no input present"}
	}

	// First confirm the payload is a JSON object, not an array/scalar.
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ErrMalformedInput{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if _, ok := probe.(map[string]interface{}); !ok {
		return nil, &ErrMalformedInput{Reason: "input is not a JSON object"}
	}

	var raw rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ErrMalformedInput{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	toolName := ""
	switch {
	case raw.ToolName != nil && *raw.ToolName != "":
		toolName = *raw.ToolName
	case raw.Tool != nil && *raw.Tool != "":
		toolName = *raw.Tool
	default:
		return nil, &ErrMalformedInput{Reason: "neither tool_name nor tool present"}
	}

	toolInput := raw.ToolInput
	if toolInput == nil {
		toolInput = raw.ToolInput2
	}
	if toolInput == nil {
		toolInput = raw.Parameters
	}
	if toolInput == nil {
		toolInput = map[string]interface{}{}
	}

	req := &Request{
		ToolName:  ToolName(toolName),
		ToolInput: toolInput,
	}
	req.deriveFields()
	return req, nil
}

// deriveFields extracts tool-specific convenience fields mechanically.
// Absent fields are left as the empty string; nothing is inferred.
func (r *Request) deriveFields() {
	r.Command = stringField(r.ToolInput, "command")
	r.FilePath = stringField(r.ToolInput, "file_path")
	r.Content = stringField(r.ToolInput, "content")
	r.OldString = stringField(r.ToolInput, "old_string")
	r.NewString = stringField(r.ToolInput, "new_string")

	if raw, ok := r.ToolInput["edits"]; ok {
		if list, ok := raw.([]interface{}); ok {
			for _, item := range list {
				m, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				r.Edits = append(r.Edits, Edit{
					OldString: stringField(m, "old_string"),
					NewString: stringField(m, "new_string"),
				})
			}
		}
	}
}

func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// CombinedEditText concatenates the new_string of every edit (or the
// single new_string/content for non-multi tools) with a newline
// separator, preserving per-edit isolation: a pattern spanning two edits
// must not trigger by virtue of concatenation with no separator.
func (r *Request) CombinedEditText() string {
	var parts []string
	if r.Content != "" {
		parts = append(parts, r.Content)
	}
	if r.NewString != "" {
		parts = append(parts, r.NewString)
	}
	for _, e := range r.Edits {
		parts = append(parts, e.NewString)
	}
	return strings.Join(parts, "\n")
}

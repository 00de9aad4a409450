package review

import (
	"fmt"
	"strings"
)

// FileChange is one file's diff within a review request.
type FileChange struct {
	Path    string
	Diff    string
	MaxByte int64
}

// AssemblePrompt concatenates a set of file diffs into one review prompt,
// truncating any single file's diff that exceeds maxFileBytes so one
// oversized generated file cannot crowd out the rest of the changeset.
func AssemblePrompt(changes []FileChange, maxFileBytes int64) string {
	var b strings.Builder
	b.WriteString("Review the following changes:\n\n")
	for _, c := range changes {
		diff := c.Diff
		if maxFileBytes > 0 && int64(len(diff)) > maxFileBytes {
			diff = diff[:maxFileBytes] + "\n... (truncated)"
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n\n", c.Path, diff)
	}
	return b.String()
}

// Package workspace implements the Workspace Detector: it walks upward
// from the current working directory to find a repository root and
// derives a deterministic vector-store collection name from it. Grounded
// on the teacher's single-root-discovery convention: a single
// root-discovery function that resolves all paths from the workspace
// root, with no function silently consulting the current working
// directory.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

const collectionSuffix = "_duplicate_prevention"

// Root walks upward from start looking for a ".git" entry (file or
// directory, to support git worktrees whose .git is a file). If none is
// found by the filesystem root, start itself is the workspace root.
func Root(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	dir := abs
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// CollectionName derives the deterministic collection name for root: the
// absolute path, separators replaced with a safe delimiter, lowercased,
// suffixed with the duplicate-prevention discriminator. Two
// processes starting anywhere inside the same repository resolve to the
// same root and therefore the same collection name.
func CollectionName(root string) string {
	clean := filepath.Clean(root)
	clean = strings.ToLower(clean)
	clean = strings.Trim(clean, string(filepath.Separator))
	clean = strings.ReplaceAll(clean, string(filepath.Separator), "__")
	clean = strings.ReplaceAll(clean, ":", "_")
	clean = strings.ReplaceAll(clean, " ", "_")
	return clean + collectionSuffix
}

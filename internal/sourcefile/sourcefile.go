// Package sourcefile classifies workspace paths as indexable source code,
// the shared selection rule behind the File Indexer and the
// Duplicate-Prevention Guard: a source-code extension allow-list plus an
// exclusion set for directories that never hold code worth indexing
// (version-control metadata, dependency caches, build outputs, virtual
// environments, bytecode caches).
package sourcefile

import (
	"path/filepath"
	"strings"
)

// Extensions is the set of file extensions considered source code,
// matching the languages the Symbol Index extractor understands plus the
// common scripting/config languages a duplicate-prevention corpus
// typically holds.
var Extensions = map[string]bool{
	".go":   true,
	".py":   true,
	".js":   true,
	".jsx":  true,
	".ts":   true,
	".tsx":  true,
	".java": true,
	".rb":   true,
	".rs":   true,
	".c":    true,
	".h":    true,
	".cpp":  true,
	".cc":   true,
	".hpp":  true,
	".cs":   true,
	".php":  true,
	".sh":   true,
	".sql":  true,
}

// ExcludedDirs names directories whose contents are never source code
// worth indexing.
var ExcludedDirs = map[string]bool{
	".git":            true,
	"node_modules":    true,
	"vendor":          true,
	"venv":            true,
	".venv":           true,
	"__pycache__":     true,
	"dist":            true,
	"build":           true,
	".tox":            true,
	"target":          true,
	".mypy_cache":     true,
	".pytest_cache":   true,
	".idea":           true,
	".next":           true,
}

// HasSourceExtension reports whether path's extension is in the
// source-code allow-list.
func HasSourceExtension(path string) bool {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

var extensionLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".sh":   "shell",
	".sql":  "sql",
}

// Language returns the short language tag for path's extension, used as
// the embedding provider's prompt hint and as VectorPoint metadata. An
// unrecognized extension returns "" (no hint).
func Language(path string) string {
	return extensionLanguage[strings.ToLower(filepath.Ext(path))]
}

// IsExcludedDir reports whether dirName names a directory whose contents
// should never be walked for indexing.
func IsExcludedDir(dirName string) bool {
	return ExcludedDirs[dirName]
}

// MeetsMinLines reports whether content has at least min lines. An empty
// string has zero lines.
func MeetsMinLines(content string, min int) bool {
	if content == "" {
		return min <= 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n")+1 >= min
}

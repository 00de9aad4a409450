// Package symbols implements the Symbol Index & Search peripheral: it
// extracts function/method/class/variable declarations from
// source files via tree-sitter, stores them in an embedded SQLite file,
// and serves wildcard-pattern lookups. Grounded on the teacher's
// TreeSitterParser (internal/world/ast_treesitter.go: per-language
// *sitter.Parser fields, ParseGo/extractGoSymbols AST walk) and its
// SQLite storage convention (internal/store/local_core.go NewLocalStore:
// WAL mode, busy_timeout pragmas).
package symbols

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Kind enumerates the declaration categories a Record may hold.
const (
	KindFunction = "function"
	KindMethod   = "method"
	KindClass    = "class"
	KindType     = "type"
	KindVariable = "variable"
)

// kindPriority orders Kind values for result ranking: callable
// declarations before type/value declarations.
var kindPriority = map[string]int{
	KindFunction: 0,
	KindMethod:   1,
	KindClass:    2,
	KindType:     2,
	KindVariable: 3,
}

// Record is one extracted symbol.
type Record struct {
	ID         int64
	Name       string
	Kind       string // function, method, class, type, variable
	Visibility string // "public", "private"
	Path       string
	Line       int
	Column     int
	Parent     string // enclosing type/class name, empty for top-level declarations
	Signature  string
	Docstring  string
	FileHash   string // content fingerprint of the file this record was extracted from
	IndexedAt  string // RFC3339 timestamp of extraction
}

// Store persists Records in an embedded SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path, matching the
// teacher's WAL-mode/busy_timeout connection convention for a
// single-process, crash-tolerant local database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("symbols: open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS symbols (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			visibility TEXT NOT NULL,
			path TEXT NOT NULL,
			line INTEGER NOT NULL,
			column INTEGER NOT NULL,
			parent TEXT NOT NULL DEFAULT '',
			signature TEXT NOT NULL,
			docstring TEXT NOT NULL DEFAULT '',
			file_hash TEXT NOT NULL DEFAULT '',
			indexed_at TEXT NOT NULL DEFAULT '',
			UNIQUE(name, kind, path, line)
		);
		CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
		CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path);
	`)
	if err != nil {
		return fmt.Errorf("symbols: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// ReplaceFile deletes every symbol previously recorded for path and
// inserts recs in its place, keeping the index consistent across
// re-indexing of a changed file.
func (s *Store) ReplaceFile(path string, recs []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("symbols: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
		return fmt.Errorf("symbols: clear stale entries: %w", err)
	}
	for _, r := range recs {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO symbols
			 (name, kind, visibility, path, line, column, parent, signature, docstring, file_hash, indexed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Kind, r.Visibility, r.Path, r.Line, r.Column, r.Parent, r.Signature, r.Docstring, r.FileHash, r.IndexedAt,
		); err != nil {
			return fmt.Errorf("symbols: insert: %w", err)
		}
	}
	return tx.Commit()
}

// Query looks up symbols whose name matches pattern, which may contain
// shell-style wildcards (`*`, `?`). Results are ranked by an exact-name
// match first, then by kind priority (function/method before
// class/type before variable), then by shorter name, then
// alphabetically, so the most likely intended symbol surfaces first
// among ambiguous wildcard matches.
func (s *Store) Query(pattern string, limit int) ([]Record, error) {
	sqlPattern := globToLike(pattern)
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, name, kind, visibility, path, line, column, parent, signature, docstring, file_hash, indexed_at
		 FROM symbols
		 WHERE name LIKE ? ESCAPE '\'
		 ORDER BY
			CASE WHEN name = ? THEN 0 ELSE 1 END,
			CASE kind
				WHEN ? THEN 0
				WHEN ? THEN 1
				WHEN ? THEN 2
				WHEN ? THEN 2
				ELSE 3
			END,
			LENGTH(name),
			name
		 LIMIT ?`,
		sqlPattern, pattern, KindFunction, KindMethod, KindClass, KindType, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Kind, &r.Visibility, &r.Path, &r.Line, &r.Column, &r.Parent, &r.Signature, &r.Docstring, &r.FileHash, &r.IndexedAt); err != nil {
			return nil, fmt.Errorf("symbols: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// globToLike translates a shell glob (`*` any run, `?` single char) into
// a SQL LIKE pattern, escaping literal `%`/`_`/`\` first so they are not
// misinterpreted as LIKE wildcards (spec supplemented feature).
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '%':
			b.WriteString(`\%`)
		case '_':
			b.WriteString(`\_`)
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

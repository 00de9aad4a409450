package symbols

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceFileAndQuery(t *testing.T) {
	s := openTestStore(t)

	recs := []Record{
		{Name: "ParseRequest", Kind: "function", Visibility: "public", Path: "request.go", Signature: "func ParseRequest()"},
		{Name: "deriveFields", Kind: "method", Visibility: "private", Path: "request.go", Signature: "func (r *Request) deriveFields()"},
	}
	if err := s.ReplaceFile("request.go", recs); err != nil {
		t.Fatal(err)
	}

	got, err := s.Query("Parse*", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "ParseRequest" {
		t.Fatalf("unexpected query result: %v", got)
	}
}

func TestReplaceFileClearsStaleEntries(t *testing.T) {
	s := openTestStore(t)

	s.ReplaceFile("a.go", []Record{{Name: "Old", Kind: "function", Path: "a.go"}})
	s.ReplaceFile("a.go", []Record{{Name: "New", Kind: "function", Path: "a.go"}})

	got, err := s.Query("*", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "New" {
		t.Fatalf("expected only the new symbol to remain, got %v", got)
	}
}

func TestGlobToLikeEscapesLiteralWildcards(t *testing.T) {
	got := globToLike("100%_done*")
	want := `100\%\_done%`
	if got != want {
		t.Fatalf("globToLike(%q) = %q, want %q", "100%_done*", got, want)
	}
}

func TestQueryOrdersExactMatchFirst(t *testing.T) {
	s := openTestStore(t)
	s.ReplaceFile("a.go", []Record{
		{Name: "Run", Kind: KindFunction, Path: "a.go", Line: 1},
		{Name: "RunLonger", Kind: KindFunction, Path: "a.go", Line: 2},
	})

	got, err := s.Query("Run*", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Run" {
		t.Fatalf("expected exact match Run first, got %v", got)
	}
}

func TestQueryOrdersByKindPriorityThenLength(t *testing.T) {
	s := openTestStore(t)
	s.ReplaceFile("a.go", []Record{
		{Name: "Widget", Kind: KindVariable, Path: "a.go", Line: 1},
		{Name: "Widget", Kind: KindType, Path: "a.go", Line: 2},
		{Name: "Widget", Kind: KindFunction, Path: "a.go", Line: 3},
	})

	got, err := s.Query("Widget", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].Kind != KindFunction || got[1].Kind != KindType || got[2].Kind != KindVariable {
		t.Fatalf("expected function, then type, then variable, got %v / %v / %v", got[0].Kind, got[1].Kind, got[2].Kind)
	}
}

func TestQueryWildcardSingleChar(t *testing.T) {
	s := openTestStore(t)
	s.ReplaceFile("x.go", []Record{
		{Name: "Run1", Kind: "function", Path: "x.go"},
		{Name: "Run22", Kind: "function", Path: "x.go"},
	})

	got, err := s.Query("Run?", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Run1" {
		t.Fatalf("expected single-char wildcard to match only Run1, got %v", got)
	}
}

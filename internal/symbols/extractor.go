package symbols

import (
	"context"
	"fmt"
	"regexp"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"guardhook/internal/fingerprint"
	"guardhook/internal/logging"
)

// Extractor walks source files with tree-sitter and produces Records,
// mirroring the teacher's TreeSitterParser (one *sitter.Parser per
// language, reused across calls rather than reconstructed per file).
type Extractor struct {
	goParser *sitter.Parser
	pyParser *sitter.Parser
	jsParser *sitter.Parser
	tsParser *sitter.Parser
}

// NewExtractor constructs an Extractor with one parser per supported
// language.
func NewExtractor() *Extractor {
	return &Extractor{
		goParser: sitter.NewParser(),
		pyParser: sitter.NewParser(),
		jsParser: sitter.NewParser(),
		tsParser: sitter.NewParser(),
	}
}

// Close releases the underlying tree-sitter parsers.
func (e *Extractor) Close() {
	e.goParser.Close()
	e.pyParser.Close()
	e.jsParser.Close()
	e.tsParser.Close()
}

// Extract parses content according to path's extension and returns the
// symbols it declares. Unsupported extensions fall back to a regex-based
// best-effort extraction rather than skipping the file entirely, so files
// in languages without a tree-sitter grammar in this build still get
// their func/def/function/fn declarations recorded.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) ([]Record, error) {
	var recs []Record
	var err error

	switch extOf(path) {
	case ".go":
		recs, err = e.extractGo(ctx, path, content)
	case ".py":
		recs, err = e.extractWithGrammar(ctx, e.pyParser, python.GetLanguage(), path, content, pyFunctionNodeTypes)
	case ".js", ".jsx":
		recs, err = e.extractWithGrammar(ctx, e.jsParser, javascript.GetLanguage(), path, content, jsFunctionNodeTypes)
	case ".ts", ".tsx":
		recs, err = e.extractWithGrammar(ctx, e.tsParser, typescript.GetLanguage(), path, content, jsFunctionNodeTypes)
	default:
		recs = regexFallback(path, content)
	}
	if err != nil {
		return nil, err
	}

	hash := fingerprint.Of(string(content))
	indexedAt := time.Now().UTC().Format(time.RFC3339)
	for i := range recs {
		recs[i].FileHash = hash
		recs[i].IndexedAt = indexedAt
	}
	return recs, nil
}

func (e *Extractor) extractGo(ctx context.Context, path string, content []byte) ([]Record, error) {
	e.goParser.SetLanguage(golang.GetLanguage())
	tree, err := e.goParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("symbols: parse go %s: %w", path, err)
	}
	defer tree.Close()

	var recs []Record
	getText := func(n *sitter.Node) string { return n.Content(content) }

	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		switch n.Type() {
		case "function_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				recs = append(recs, goFuncRecord(getText(name), n, path, parent, getText))
			}
		case "method_declaration":
			name := n.ChildByFieldName("name")
			recv := n.ChildByFieldName("receiver")
			if name != nil && recv != nil {
				recs = append(recs, goMethodRecord(getText(name), getText(recv), n, path, getText))
			}
		case "type_declaration":
			recs = append(recs, goTypeRecords(n, path, getText)...)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), parent)
		}
	}
	walk(tree.RootNode(), "")

	logging.Get(logging.CategorySymbols).Debugw("extracted go symbols", "path", path, "count", len(recs))
	return recs, nil
}

// pyFunctionNodeTypes/jsFunctionNodeTypes name the grammar node types
// that introduce a callable or type definition in each language's
// tree-sitter grammar, used by the generic extractWithGrammar walk below.
var pyFunctionNodeTypes = map[string]bool{"function_definition": true, "class_definition": true}
var jsFunctionNodeTypes = map[string]bool{
	"function_declaration": true, "method_definition": true, "class_declaration": true,
	"lexical_declaration": true,
}

// extractWithGrammar is a generic AST walk shared by every non-Go
// language: it visits every node whose type is in nodeTypes and records
// the nearest "name"-field child as the declared symbol, tracking the
// enclosing class (if any) as Parent. Go gets its own extractGo because
// its receiver/result fields need dedicated handling for method
// signatures.
func (e *Extractor) extractWithGrammar(ctx context.Context, parser *sitter.Parser, lang *sitter.Language, path string, content []byte, nodeTypes map[string]bool) ([]Record, error) {
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("symbols: parse %s: %w", path, err)
	}
	defer tree.Close()

	var recs []Record
	getText := func(n *sitter.Node) string { return n.Content(content) }

	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		nextParent := parent
		switch {
		case n.Type() == "lexical_declaration" && nodeTypes[n.Type()]:
			recs = append(recs, jsLexicalDeclarationRecords(n, path, parent, content, getText)...)
		case nodeTypes[n.Type()]:
			if name := n.ChildByFieldName("name"); name != nil {
				nm := getText(name)
				kind := KindFunction
				isClass := n.Type() == "class_definition" || n.Type() == "class_declaration"
				if isClass {
					kind = KindClass
				} else if n.Type() == "method_definition" {
					kind = KindMethod
				}
				pt := n.StartPoint()
				recs = append(recs, Record{
					Name:       nm,
					Kind:       kind,
					Visibility: visibilityOf(nm),
					Path:       path,
					Line:       int(pt.Row) + 1,
					Column:     int(pt.Column) + 1,
					Parent:     parent,
					Signature:  nm,
					Docstring:  leadingCommentOf(n, content),
				})
				if isClass {
					nextParent = nm
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), nextParent)
		}
	}
	walk(tree.RootNode(), "")
	return recs, nil
}

// jsLexicalDeclarationRecords records a const/let binding (at any nesting
// depth) as a
// function symbol when its initializer is a function/arrow expression,
// and as a variable symbol otherwise, mirroring the teacher's
// lexical_declaration/variable_declarator walk
// (internal/world/ast_treesitter.go ParseTypeScript).
func jsLexicalDeclarationRecords(n *sitter.Node, path, parent string, content []byte, getText func(*sitter.Node) string) []Record {
	var recs []Record
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		nm := getText(nameNode)
		kind := KindVariable
		if value := child.ChildByFieldName("value"); value != nil {
			if value.Type() == "arrow_function" || value.Type() == "function" {
				kind = KindFunction
			}
		}
		pt := child.StartPoint()
		recs = append(recs, Record{
			Name:       nm,
			Kind:       kind,
			Visibility: visibilityOf(nm),
			Path:       path,
			Line:       int(pt.Row) + 1,
			Column:     int(pt.Column) + 1,
			Parent:     parent,
			Signature:  nm,
			Docstring:  leadingCommentOf(n, content),
		})
	}
	return recs
}

func goFuncRecord(name string, n *sitter.Node, path, parent string, getText func(*sitter.Node) string) Record {
	sig := "func " + name
	if params := n.ChildByFieldName("parameters"); params != nil {
		sig = fmt.Sprintf("func %s%s", name, getText(params))
	}
	if result := n.ChildByFieldName("result"); result != nil {
		sig += " " + getText(result)
	}
	pt := n.StartPoint()
	return Record{
		Name:       name,
		Kind:       KindFunction,
		Visibility: visibilityOf(name),
		Path:       path,
		Line:       int(pt.Row) + 1,
		Column:     int(pt.Column) + 1,
		Parent:     parent,
		Signature:  sig,
		Docstring:  leadingCommentOf(n, nil),
	}
}

func goMethodRecord(name, receiver string, n *sitter.Node, path string, getText func(*sitter.Node) string) Record {
	sig := fmt.Sprintf("func %s %s", receiver, name)
	if params := n.ChildByFieldName("parameters"); params != nil {
		sig = fmt.Sprintf("func %s %s%s", receiver, name, getText(params))
	}
	pt := n.StartPoint()
	return Record{
		Name:       name,
		Kind:       KindMethod,
		Visibility: visibilityOf(name),
		Path:       path,
		Line:       int(pt.Row) + 1,
		Column:     int(pt.Column) + 1,
		Parent:     receiver,
		Signature:  sig,
		Docstring:  leadingCommentOf(n, nil),
	}
}

func goTypeRecords(n *sitter.Node, path string, getText func(*sitter.Node) string) []Record {
	var recs []Record
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			nm := getText(name)
			pt := spec.StartPoint()
			recs = append(recs, Record{
				Name:       nm,
				Kind:       KindType,
				Visibility: visibilityOf(nm),
				Path:       path,
				Line:       int(pt.Row) + 1,
				Column:     int(pt.Column) + 1,
				Signature:  "type " + nm,
				Docstring:  leadingCommentOf(n, nil),
			})
		}
	}
	return recs
}

// leadingCommentOf returns the text of a comment node immediately
// preceding n in the source, the tree-sitter shape of a doc comment.
// Returns "" when content is nil (grammars where doc comments are not
// modeled as preceding siblings) or no such sibling exists.
func leadingCommentOf(n *sitter.Node, content []byte) string {
	if content == nil {
		return ""
	}
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	return prev.Content(content)
}

func visibilityOf(name string) string {
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return "public"
	}
	return "private"
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

// regexFallback extracts a best-effort symbol list for languages without
// a wired tree-sitter grammar, grounded on the same excerpt-driven
// pattern-matching idiom as internal/patterns.
var regexFallbackPatterns = regexp.MustCompile(`(?m)^\s*(?:func|def|function|fn)\s+([A-Za-z_]\w*)`)

func regexFallback(path string, content []byte) []Record {
	var recs []Record
	lineOf := func(offset int) int {
		n := 1
		for i := 0; i < offset && i < len(content); i++ {
			if content[i] == '\n' {
				n++
			}
		}
		return n
	}
	for _, m := range regexFallbackPatterns.FindAllSubmatchIndex(content, -1) {
		name := string(content[m[2]:m[3]])
		recs = append(recs, Record{
			Name:       name,
			Kind:       KindFunction,
			Visibility: visibilityOf(name),
			Path:       path,
			Line:       lineOf(m[2]),
			Column:     1,
			Signature:  name,
		})
	}
	return recs
}

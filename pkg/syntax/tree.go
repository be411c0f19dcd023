package syntax

import (
	"sync"
)

// Stats counts the work done by one parse.
type Stats struct {
	TokensScanned  int `json:"tokensScanned"`
	SubtreesReused int `json:"subtreesReused"`
	BytesReused    int `json:"bytesReused"`
	Forks          int `json:"forks"`
	Merges         int `json:"merges"`
	Recoveries     int `json:"recoveries"`
	MaxVersions    int `json:"maxVersions"`
}

// Tree is the immutable result of a parse.
type Tree struct {
	root     *subtree
	text     []byte
	language *Language
	initial  ScannerState
	edits    []Edit
	stats    Stats
	events   []Diagnostic
	reused   *reuseRecord

	statesOnce sync.Once
	states     stateTable

	diagOnce    sync.Once
	diagnostics []Diagnostic
}

// RootNode returns the root node.
func (t *Tree) RootNode() Node {
	return Node{sub: t.root, tree: t}
}

// Text returns the text the tree was parsed from. Pending edits are not
// applied to it. It must not be modified.
func (t *Tree) Text() []byte {
	return t.text
}

// Language returns the language the tree was parsed with.
func (t *Tree) Language() *Language {
	return t.language
}

// HasError reports whether the tree contains any ERROR node.
func (t *Tree) HasError() bool {
	return t.root.hasError()
}

// Stats returns the parse counters.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Edits returns the pending edits recorded with Edit.
func (t *Tree) Edits() []Edit {
	return append([]Edit(nil), t.edits...)
}

// Edit returns a new tree that records e as a pending edit. The receiver is
// not changed. Edits compose: each is expressed in the coordinates of the
// text produced by the previous ones.
func (t *Tree) Edit(e Edit) *Tree {
	edits := make([]Edit, len(t.edits), len(t.edits)+1)
	copy(edits, t.edits)
	return &Tree{
		root:     t.root,
		text:     t.text,
		language: t.language,
		initial:  t.initial,
		edits:    append(edits, e),
		stats:    t.stats,
		events:   t.events,
	}
}

// ExpectedLength returns the document length after the pending edits.
func (t *Tree) ExpectedLength() int {
	n := t.root.size
	for _, e := range t.edits {
		n += e.Delta()
	}
	return n
}

// Diagnostics returns the problems found by the parse in document order,
// followed by engine events such as pruning.
func (t *Tree) Diagnostics() []Diagnostic {
	t.diagOnce.Do(func() {
		var diags []Diagnostic
		t.collectDiagnostics(t.RootNode(), &diags)
		t.diagnostics = append(diags, t.events...)
	})
	return append([]Diagnostic(nil), t.diagnostics...)
}

func (t *Tree) collectDiagnostics(node Node, diags *[]Diagnostic) {
	if !node.HasError() {
		return
	}
	if node.IsError() {
		*diags = append(*diags, t.errorDiagnostic(node))
	}
	for _, child := range node.Children() {
		if node.IsError() && child.IsError() && child.ChildCount() == 0 {
			// Reported as part of the enclosing ERROR node.
			continue
		}
		t.collectDiagnostics(child, diags)
	}
}

func (t *Tree) errorDiagnostic(node Node) Diagnostic {
	table := t.language.Table
	if node.ChildCount() == 0 {
		return Diagnostic{
			Kind:    DiagnosticScanStuck,
			Range:   node.Range(),
			Message: "unrecognized input " + quoteSnippet(node.Content(t.text)),
		}
	}

	var message string
	switch sym := node.sub.unexpected; sym {
	case table.EndSymbol():
		message = "unexpected end of input"
	case table.ErrorSymbol():
		message = "unrecognized input"
		if leaf := firstErrorLeaf(node); !leaf.IsNull() {
			message += " " + quoteSnippet(leaf.Content(t.text))
		}
	default:
		message = "unexpected " + describeSymbol(table, sym)
	}
	return Diagnostic{
		Kind:    DiagnosticSyntaxError,
		Range:   node.Range(),
		Message: message,
	}
}

func firstErrorLeaf(node Node) Node {
	for _, child := range node.Children() {
		if child.IsError() && child.ChildCount() == 0 {
			return child
		}
	}
	return Node{}
}

func describeSymbol(table *Table, sym Symbol) string {
	meta := table.Symbol(sym)
	if meta.Named {
		return meta.Name
	}
	return quoteSnippet(meta.Name)
}

func quoteSnippet(text string) string {
	const maxSnippet = 24
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "…"
	}
	return `"` + text + `"`
}

// scannerStateAt returns the scanner state at a token boundary.
func (t *Tree) scannerStateAt(offset int) ScannerState {
	t.statesOnce.Do(func() {
		t.states = buildStateTable(t.root, t.initial)
	})
	return t.states.lookup(offset, t.initial)
}

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/pkg/syntax"
	"github.com/yaklabco/djtree/pkg/textedit"
)

// ReparseResult describes one session-backed reparse.
type ReparseResult struct {
	// Previous is the revision the new text was compared with. It is nil on
	// the first run for a document.
	Previous *Revision

	// Revision is the newly stored revision.
	Revision Revision

	// Tree is the parse of the new text.
	Tree *syntax.Tree

	// Edit is the single edit between the previous and the new text.
	Edit textedit.TextEdit

	// Changed is false when the text did not change since Previous.
	Changed bool

	// FellBack is true when the incremental tree failed verification and
	// Tree comes from a full parse instead.
	FellBack bool
}

// Reparse parses content incrementally against the latest stored revision
// of path and stores the result as a new revision. The first run for a
// document parses from scratch.
func (s *Store) Reparse(ctx context.Context, parser *syntax.Parser, path string, content []byte) (ReparseResult, error) {
	lang := parser.Language()

	prev, err := s.Latest(ctx, path, lang)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return ReparseResult{}, err
	}

	var result ReparseResult
	if err == nil {
		result.Previous = &prev
		result.Tree, result.Edit, result.Changed, result.FellBack, err = reparseFrom(ctx, parser, prev.Content, content)
	} else {
		result.Changed = true
		result.Tree, err = parser.Parse(ctx, content)
	}
	if err != nil {
		return ReparseResult{}, fmt.Errorf("reparse %s: %w", path, err)
	}

	result.Revision, err = s.Save(ctx, path, lang, result.Tree)
	if err != nil {
		return ReparseResult{}, err
	}
	return result, nil
}

func reparseFrom(ctx context.Context, parser *syntax.Parser, before, after []byte) (*syntax.Tree, textedit.TextEdit, bool, bool, error) {
	old, err := parser.Parse(ctx, before)
	if err != nil {
		return nil, textedit.TextEdit{}, false, false, err
	}

	edit, changed := textedit.Diff(before, after)
	if !changed {
		return old, edit, false, false, nil
	}

	for _, e := range textedit.SyntaxEdits(before, []textedit.TextEdit{edit}) {
		old = old.Edit(e)
	}

	tree, fellBack, err := ParseIncremental(ctx, parser, after, old)
	if err != nil {
		return nil, edit, true, false, err
	}
	return tree, edit, true, fellBack, nil
}

// ParseIncremental parses text against the edited old tree. When the
// incremental tree fails verification it logs a warning and returns a full
// parse of text instead; fellBack reports that case.
func ParseIncremental(ctx context.Context, parser *syntax.Parser, text []byte, old *syntax.Tree) (*syntax.Tree, bool, error) {
	tree, err := parser.ParseIncremental(ctx, text, old)
	if err == nil {
		return tree, false, nil
	}
	if !errors.Is(err, syntax.ErrIncrementalityViolation) {
		return nil, false, err
	}

	logging.FromContext(ctx).Warn("incremental parse rejected, parsing from scratch", logging.FieldError, err)
	tree, err = parser.Parse(ctx, text)
	if err != nil {
		return nil, true, err
	}
	return tree, true, nil
}

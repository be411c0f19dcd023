// Package markdown finds Django templates embedded in Markdown fenced code
// blocks so they can be checked like template files.
package markdown

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/djtree/pkg/langdetect"
)

// Flavor identifies the Markdown flavor used to find fences.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Segment maps a run of block bytes back to the Markdown file.
type Segment struct {
	// BlockOffset is where the run starts in Block.Content.
	BlockOffset int
	// FileOffset is where the run starts in the Markdown file.
	FileOffset int
	// Len is the run length in bytes.
	Len int
}

// Block is one fenced template block.
type Block struct {
	// Language is the fence info word, lowercased.
	Language string
	// Content is the block body with fence indentation removed.
	Content []byte
	// Line is the 1-based line of the opening fence.
	Line int
	// Segments maps Content back to the file, one per body line.
	Segments []Segment
}

// FileOffset maps an offset in Content to an offset in the Markdown file.
// The end of the block maps to the end of its last line.
func (b Block) FileOffset(offset int) int {
	if len(b.Segments) == 0 {
		return 0
	}
	idx := sort.Search(len(b.Segments), func(i int) bool {
		return b.Segments[i].BlockOffset > offset
	}) - 1
	seg := b.Segments[max(idx, 0)]
	return seg.FileOffset + min(offset-seg.BlockOffset, seg.Len)
}

// Extractor finds fenced blocks whose language is a template language.
type Extractor struct {
	md        goldmark.Markdown
	languages map[string]bool
}

// New creates an extractor for the given flavor and fence languages.
// Invalid flavors default to CommonMark. With no languages, any fence whose
// language is a template alias matches.
func New(flavor string, languages []string) *Extractor {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	set := make(map[string]bool, len(languages))
	for _, lang := range languages {
		set[strings.ToLower(lang)] = true
	}

	return &Extractor{
		md:        goldmark.New(opts...),
		languages: set,
	}
}

// Extract returns the template blocks of content in document order.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var blocks []Block
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := strings.ToLower(string(fence.Language(content)))
		if e.matches(lang) {
			blocks = append(blocks, e.block(fence, lang, content))
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return blocks, nil
}

func (e *Extractor) matches(lang string) bool {
	if len(e.languages) == 0 {
		return langdetect.IsTemplateAlias(lang)
	}
	return e.languages[lang]
}

func (e *Extractor) block(fence *ast.FencedCodeBlock, lang string, content []byte) Block {
	block := Block{Language: lang, Line: fenceLine(fence, content)}

	lines := fence.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		block.Segments = append(block.Segments, Segment{
			BlockOffset: len(block.Content),
			FileOffset:  seg.Start,
			Len:         seg.Stop - seg.Start,
		})
		block.Content = append(block.Content, content[seg.Start:seg.Stop]...)
	}

	return block
}

// fenceLine returns the 1-based line of the opening fence. goldmark does not
// record it, so it is found from the info string or the first body line.
func fenceLine(fence *ast.FencedCodeBlock, content []byte) int {
	pos := -1
	if fence.Info != nil {
		pos = fence.Info.Segment.Start
	} else if fence.Lines().Len() > 0 {
		pos = fence.Lines().At(0).Start - 1
	}
	if pos < 0 {
		return 0
	}
	return strings.Count(string(content[:pos]), "\n") + 1
}

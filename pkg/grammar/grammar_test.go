package grammar_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/pkg/django"
	"github.com/yaklabco/djtree/pkg/grammar"
)

func TestRender_Django(t *testing.T) {
	t.Parallel()

	src := grammar.Render(django.Language().Table, django.Lexicon())

	tests := []struct {
		name string
		line string
	}{
		{name: "start", line: "Template = Nodes .\n"},
		{name: "expression", line: `Expression = "{{" Variable "}}" .` + "\n"},
		{name: "filters", line: `Filters = [ Filters "|" Filter ] .` + "\n"},
		{name: "filter", line: `Filter = filter_name | filter_name ":" filter_argument .` + "\n"},
		{name: "unpaired", line: `UnpairedStatement = "{%" tag_name Attributes "%}" .` + "\n"},
		{name: "string", line: "String = quoted Filters .\n"},
		{name: "lexical", line: "number = digit { digit } .\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, src, testCase.line)
		})
	}
}

func TestRender_LexiconSorted(t *testing.T) {
	t.Parallel()

	src := grammar.Render(django.Language().Table, grammar.Lexicon{
		"zeta":  `"z"`,
		"alpha": `"a"`,
	})

	alpha := strings.Index(src, "alpha = ")
	zeta := strings.Index(src, "zeta = ")
	require.Positive(t, alpha)
	assert.Less(t, alpha, zeta)
}

func TestStartName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Template", grammar.StartName(django.Language().Table))
}

func TestVerify_Django(t *testing.T) {
	t.Parallel()
	require.NoError(t, grammar.Verify(django.Language().Table, django.Lexicon()))
}

func TestBuild_Django(t *testing.T) {
	t.Parallel()

	g, err := grammar.Build(django.Language().Table, django.Lexicon())
	require.NoError(t, err)
	assert.Contains(t, g, "Template")
	assert.Contains(t, g, "PairedStatement")
	assert.Contains(t, g, "tag_name")
	assert.NotContains(t, g, "EndPairedStatement")
}

func TestVerify_MissingTerminal(t *testing.T) {
	t.Parallel()

	lexicon := django.Lexicon()
	delete(lexicon, "boolean")

	err := grammar.Verify(django.Language().Table, lexicon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing production boolean")
}

func TestVerify_UnreachableHelper(t *testing.T) {
	t.Parallel()

	lexicon := django.Lexicon()
	lexicon["unused"] = `"x"`

	err := grammar.Verify(django.Language().Table, lexicon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unused is unreachable")
}

func TestBuild_InvalidLexicon(t *testing.T) {
	t.Parallel()

	lexicon := django.Lexicon()
	lexicon["number"] = `digit {`

	_, err := grammar.Build(django.Language().Table, lexicon)
	require.Error(t, err)
}

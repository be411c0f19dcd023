package textedit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/pkg/syntax"
	"github.com/yaklabco/djtree/pkg/textedit"
)

func TestPrepare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		edits     []textedit.TextEdit
		wantValid bool
		wantConf  bool
	}{
		{"empty", nil, false, false},
		{"negative start", []textedit.TextEdit{{StartOffset: -1, EndOffset: 0}}, true, false},
		{"end before start", []textedit.TextEdit{{StartOffset: 3, EndOffset: 2}}, true, false},
		{"past end", []textedit.TextEdit{{StartOffset: 0, EndOffset: 11}}, true, false},
		{"overlap", []textedit.TextEdit{{StartOffset: 4, EndOffset: 6}, {StartOffset: 2, EndOffset: 5}}, false, true},
		{"adjacent", []textedit.TextEdit{{StartOffset: 4, EndOffset: 6}, {StartOffset: 2, EndOffset: 4}}, false, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := textedit.Prepare(testCase.edits, 10)

			var validationErr *textedit.ValidationError
			var conflictErr *textedit.ConflictError
			assert.Equal(t, testCase.wantValid, errors.As(err, &validationErr))
			assert.Equal(t, testCase.wantConf, errors.As(err, &conflictErr))
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	content := []byte("{{ name }} and {{ other }}")
	edits := textedit.NewBuilder().
		Replace(15, 26, "{% now %}").
		Insert(3, "user.").
		Delete(10, 15).
		Edits

	prepared, err := textedit.Prepare(edits, len(content))
	require.NoError(t, err)
	assert.Equal(t, 3, prepared[0].StartOffset)

	assert.Equal(t, "{{ user.name }}{% now %}", string(textedit.Apply(content, prepared)))
}

func TestSyntaxEdits(t *testing.T) {
	t.Parallel()

	content := []byte("a\nbc\nd")
	edits := []textedit.TextEdit{
		{StartOffset: 1, EndOffset: 1, NewText: "x\ny"},
		{StartOffset: 3, EndOffset: 5, NewText: ""},
	}

	got := textedit.SyntaxEdits(content, edits)
	require.Len(t, got, 2)

	assert.Equal(t, syntax.Edit{
		StartByte:   1,
		OldEndByte:  1,
		NewEndByte:  4,
		StartPoint:  syntax.Point{Row: 0, Column: 1},
		OldEndPoint: syntax.Point{Row: 0, Column: 1},
		NewEndPoint: syntax.Point{Row: 1, Column: 1},
	}, got[0])

	// "ax\ny\nbc\nd": the second edit deletes "c\n", shifted by three bytes.
	assert.Equal(t, syntax.Edit{
		StartByte:   6,
		OldEndByte:  8,
		NewEndByte:  6,
		StartPoint:  syntax.Point{Row: 2, Column: 1},
		OldEndPoint: syntax.Point{Row: 3, Column: 0},
		NewEndPoint: syntax.Point{Row: 2, Column: 1},
	}, got[1])
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		after  string
		want   textedit.TextEdit
	}{
		{"insert", "a {{ name }} b", "a {{ naxme }} b", textedit.TextEdit{StartOffset: 7, EndOffset: 7, NewText: "x"}},
		{"delete", "abcdef", "abef", textedit.TextEdit{StartOffset: 2, EndOffset: 4}},
		{"replace all", "abc", "xyz", textedit.TextEdit{StartOffset: 0, EndOffset: 3, NewText: "xyz"}},
		{"repeated run", "aaa", "aaaa", textedit.TextEdit{StartOffset: 3, EndOffset: 3, NewText: "a"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := textedit.Diff([]byte(testCase.before), []byte(testCase.after))
			require.True(t, ok)
			assert.Equal(t, testCase.want, got)

			applied := textedit.Apply([]byte(testCase.before), []textedit.TextEdit{got})
			assert.Equal(t, testCase.after, string(applied))
		})
	}

	_, ok := textedit.Diff([]byte("same"), []byte("same"))
	assert.False(t, ok)
}

func TestUnified(t *testing.T) {
	t.Parallel()

	before := "<ul>\n{% for x in xs %}\n<li>{{ x }}</li>\n{% endfor %}\n</ul>\n"
	after := "<ul>\n{% for x in xs %}\n<li>{{ x.name }}</li>\n{% endfor %}\n</ul>\n"

	got, err := textedit.Unified("/templates/list.html", []byte(before), []byte(after))
	require.NoError(t, err)

	assert.Contains(t, got, "--- a/templates/list.html\n")
	assert.Contains(t, got, "+++ b/templates/list.html\n")
	assert.Contains(t, got, "-<li>{{ x }}</li>\n")
	assert.Contains(t, got, "+<li>{{ x.name }}</li>\n")
	assert.Contains(t, got, " {% for x in xs %}\n")

	same, err := textedit.Unified("list.html", []byte(before), []byte(before))
	require.NoError(t, err)
	assert.Empty(t, same)
}

package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/djtree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		content      string
		wantTemplate bool
		wantReason   langdetect.Reason
	}{
		{
			name:         "jinja extension",
			path:         "templates/base.jinja",
			content:      "plain",
			wantTemplate: true,
			wantReason:   langdetect.ReasonExtension,
		},
		{
			name:         "djhtml extension",
			path:         "app/page.djhtml",
			wantTemplate: true,
			wantReason:   langdetect.ReasonExtension,
		},
		{
			name:         "html with tags",
			path:         "templates/index.html",
			content:      "<p>{% if user %}hi{% endif %}</p>",
			wantTemplate: true,
			wantReason:   langdetect.ReasonContent,
		},
		{
			name:         "html with variable",
			path:         "index.html",
			content:      "<p>{{ user.name }}</p>",
			wantTemplate: true,
			wantReason:   langdetect.ReasonContent,
		},
		{
			name:       "plain html",
			path:       "pages/index.html",
			content:    "<p>hello</p>",
			wantReason: langdetect.ReasonNone,
		},
		{
			name:       "unclosed opener only",
			path:       "notes.txt",
			content:    "a {% b",
			wantReason: langdetect.ReasonNone,
		},
		{
			name:       "vendored template",
			path:       "node_modules/pkg/view.html",
			content:    "{{ x }}",
			wantReason: langdetect.ReasonVendor,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.Detect(testCase.path, []byte(testCase.content))
			assert.Equal(t, testCase.wantTemplate, got.Template)
			assert.Equal(t, testCase.wantReason, got.Reason)
			assert.NotEmpty(t, got.Language)
		})
	}
}

func TestHasTemplateSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    bool
	}{
		{"{# note #}", true},
		{"}} before {{", false},
		{"", false},
		{"{{ x", false},
		{"{% a %}", true},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, langdetect.HasTemplateSyntax([]byte(testCase.content)), testCase.content)
	}
}

func TestIsTemplateAlias(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsTemplateAlias("django"))
	assert.True(t, langdetect.IsTemplateAlias(" Jinja2 "))
	assert.False(t, langdetect.IsTemplateAlias(""))
	assert.False(t, langdetect.IsTemplateAlias("python"))
}

func TestIsVendored(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsVendored("node_modules/"))
	assert.True(t, langdetect.IsVendored("web/node_modules/x.html"))
	assert.False(t, langdetect.IsVendored("templates/"))
}

func TestDetect_Binary(t *testing.T) {
	t.Parallel()

	got := langdetect.Detect("blob.bin", []byte("{{ x }}\x00\x00\x00"))
	assert.False(t, got.Template)
}

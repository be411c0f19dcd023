package django_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/djtree/pkg/django"
	"github.com/yaklabco/djtree/pkg/syntax"
)

func benchmarkDocument() string {
	var b strings.Builder
	b.WriteString("{% extends \"base.html\" %}\n{% load static %}\n")
	for i := range 200 {
		b.WriteString("{% block item %}\n<ul>\n{% for x in items|slice:\":10\" %}\n")
		b.WriteString("  <li class=\"{% cycle 'odd' 'even' %}\">{{ x.name|default:\"n/a\" }}</li>\n")
		b.WriteString("{% empty %}\n  <li>none</li>\n{% endfor %}\n</ul>\n")
		if i%2 == 0 {
			b.WriteString("{% if user.is_staff and not x %}{# staff #}{% else %}-{% endif %}\n")
		}
		b.WriteString("{% endblock %}\n")
	}
	return b.String()
}

func benchmarkParser(b *testing.B) *syntax.Parser {
	b.Helper()
	parser, err := syntax.NewParser(django.Language())
	if err != nil {
		b.Fatal(err)
	}
	return parser
}

func BenchmarkParse(b *testing.B) {
	doc := []byte(benchmarkDocument())
	parser := benchmarkParser(b)
	ctx := context.Background()

	b.SetBytes(int64(len(doc)))
	b.ResetTimer()
	for range b.N {
		if _, err := parser.Parse(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseIncremental(b *testing.B) {
	doc := benchmarkDocument()
	parser := benchmarkParser(b)
	ctx := context.Background()

	old, err := parser.Parse(ctx, []byte(doc))
	if err != nil {
		b.Fatal(err)
	}
	offset := strings.Index(doc, "x.name") + len("x.")
	edit, edited := insert(doc, offset, "display_")
	text := []byte(edited)

	b.ResetTimer()
	for range b.N {
		if _, err := parser.Reparse(ctx, old, edit, text); err != nil {
			b.Fatal(err)
		}
	}
}

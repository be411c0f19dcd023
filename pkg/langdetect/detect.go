// Package langdetect decides whether a file holds a Django template.
// It uses go-enry for extension, alias and vendor lookups and falls back
// to scanning the content for template delimiters.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Reason records which strategy produced a Result.
type Reason string

// Detection reasons.
const (
	ReasonVendor    Reason = "vendor"
	ReasonExtension Reason = "extension"
	ReasonContent   Reason = "content"
	ReasonNone      Reason = "none"
)

const langText = "text"

// templateLanguages are enry language names that use the Django syntax.
var templateLanguages = map[string]bool{
	"HTML+Django": true,
	"Jinja":       true,
}

// templateExtensions are recognised even when enry maps them elsewhere.
var templateExtensions = map[string]bool{
	".djhtml": true,
	".jinja":  true,
	".jinja2": true,
	".j2":     true,
}

// Result describes the outcome of Detect.
type Result struct {
	// Template is true when the file should be parsed as a template.
	Template bool
	// Language is the enry language name, or "text" when unknown.
	Language string
	// Reason is the strategy that decided.
	Reason Reason
}

// Detect classifies a file by path and content.
// Vendored paths are never templates.
func Detect(path string, content []byte) Result {
	if path != "" && IsVendored(path) {
		return Result{Language: langText, Reason: ReasonVendor}
	}

	lang, _ := enry.GetLanguageByExtension(path)
	if templateLanguages[lang] || templateExtensions[strings.ToLower(filepath.Ext(path))] {
		if lang == "" {
			lang = "HTML+Django"
		}
		return Result{Template: true, Language: lang, Reason: ReasonExtension}
	}

	if lang == "" {
		lang = langText
	}
	if !IsBinary(content) && HasTemplateSyntax(content) {
		return Result{Template: true, Language: lang, Reason: ReasonContent}
	}

	return Result{Language: lang, Reason: ReasonNone}
}

// IsVendored reports whether path lies in a vendored or generated tree.
// Directories should carry a trailing slash.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// IsBinary reports whether content looks like binary data.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// HasTemplateSyntax reports whether content contains a closed tag, variable
// or comment delimiter pair.
func HasTemplateSyntax(content []byte) bool {
	for _, pair := range [][2]string{{"{%", "%}"}, {"{{", "}}"}, {"{#", "#}"}} {
		open := bytes.Index(content, []byte(pair[0]))
		if open < 0 {
			continue
		}
		if bytes.Contains(content[open+len(pair[0]):], []byte(pair[1])) {
			return true
		}
	}
	return false
}

// IsTemplateAlias reports whether a Markdown fence language names a
// template language, either directly or through an enry alias.
func IsTemplateAlias(alias string) bool {
	alias = strings.ToLower(strings.TrimSpace(alias))
	switch alias {
	case "django", "htmldjango", "jinja", "jinja2":
		return true
	case "":
		return false
	}
	lang, ok := enry.GetLanguageByAlias(alias)
	return ok && templateLanguages[lang]
}

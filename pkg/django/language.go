// Package django defines the Django template language for the syntax
// engine: its symbols, parse table and context-sensitive scanner.
package django

import (
	"fmt"
	"sync"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// LanguageName is the registered name of the template language.
const LanguageName = "django"

// LanguageVersion changes whenever the table or the scanner state format
// changes. Trees from different versions must not be mixed.
const LanguageVersion = 2

var table = sync.OnceValue(func() *syntax.Table {
	t, err := syntax.NewTable(tableSpec())
	if err != nil {
		panic(fmt.Sprintf("django: invalid parse table: %v", err))
	}
	return t
})

var defaultLanguage = sync.OnceValue(func() *syntax.Language {
	return LanguageWith()
})

// Language returns the shared Django template language.
func Language() *syntax.Language {
	return defaultLanguage()
}

// LanguageWith returns a Django language whose scanners use opts. The parse
// table is shared with Language.
func LanguageWith(opts ...ScannerOption) *syntax.Language {
	return &syntax.Language{
		Name:    LanguageName,
		Version: LanguageVersion,
		Table:   table(),
		NewScanner: func() syntax.Scanner {
			return NewScanner(opts...)
		},
	}
}

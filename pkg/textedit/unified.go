package textedit

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContextLines is the number of unchanged lines shown around a change.
const diffContextLines = 3

// Unified renders the change from before to after as a unified diff with
// git-style a/ and b/ headers. It returns "" when the texts are equal.
func Unified(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}

	name := strings.TrimPrefix(path, "/")
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContextLines,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("unified diff %s: %w", path, err)
	}
	return out, nil
}

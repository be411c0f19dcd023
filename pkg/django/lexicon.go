package django

// Lexicon returns EBNF definitions for the terminals the scanner produces.
// EBNF has no character classes with exclusions, so content, comments and
// raw text are approximated as runs of any character; the scanner stops
// them at the next delimiter.
func Lexicon() map[string]string {
	return map[string]string{
		"any_char":  `"\u0000" … "\U0010FFFF"`,
		"letter":    `"a" … "z" | "A" … "Z"`,
		"digit":     `"0" … "9"`,
		"word_char": `letter | digit | "_"`,
		"blank":     `" " | "\t"`,

		"content":  `any_char { any_char }`,
		"raw_text": `{ any_char }`,

		"unpaired_comment": `"{#" { any_char } "#}"`,
		"paired_comment":   `"{%" { blank } "comment" { any_char } "endcomment" { blank } "%}"`,

		"tag_name":        `word_char { word_char }`,
		"variable_name":   `letter { word_char | "." }`,
		"filter_name":     `word_char { word_char }`,
		"filter_argument": `word_char { word_char | "." }`,

		"quoted":    `"'" | "\""`,
		"separator": `"," | "="`,
		"number":    `digit { digit }`,
		"boolean":   `"True" | "False"`,
		"operator":  `"==" | "!=" | "<=" | ">=" | "<" | ">"`,
		"keyword":   `"on" | "off" | "with" | "as" | "silent" | "only" | "from" | "random" | "by"`,

		"keyword_operator": `"not" blank { blank } "in" | "is" blank { blank } "not" | "and" | "or" | "not" | "in" | "is"`,
	}
}

package markup

import "strings"

// accentEscapes is the fixed substitution table for literal unicode escape
// sequences that survive JSON decoding (double-escaped upstream). Threads
// come from Spanish-language deployments, so the table covers the accented
// vowels and enye in both cases — nothing else. Sequences outside the table
// pass through unchanged.
var accentEscapes = map[string]string{
	`\u00e1`: "á",
	`\u00e9`: "é",
	`\u00ed`: "í",
	`\u00f3`: "ó",
	`\u00fa`: "ú",
	`\u00c1`: "Á",
	`\u00c9`: "É",
	`\u00cd`: "Í",
	`\u00d3`: "Ó",
	`\u00da`: "Ú",
	`\u00f1`: "ñ",
	`\u00d1`: "Ñ",
}

// escapeReplacer accepts each sequence with upper- or lower-case hex digits.
var escapeReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(accentEscapes)*4)
	for seq, ch := range accentEscapes {
		pairs = append(pairs, seq, ch)
		if upper := `\u` + strings.ToUpper(seq[2:]); upper != seq {
			pairs = append(pairs, upper, ch)
		}
	}
	return strings.NewReplacer(pairs...)
}()

// NormalizeEscapes replaces the fixed table of literal accent escape
// sequences with their characters.
func NormalizeEscapes(text string) string {
	return escapeReplacer.Replace(text)
}

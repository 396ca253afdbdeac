// Package markup flattens HTML-like payloads embedded in assistant messages
// into readable plain text. It deliberately does not build a DOM: the
// payloads are machine-generated fragments, and a fixed ordered pipeline of
// pattern replacements is all the contract requires.
package markup

import (
	"regexp"
	"strings"
)

var (
	// A fenced block explicitly tagged as html, e.g. ```html ... ```.
	fencedRe = regexp.MustCompile("(?s)```html\\s*(.*?)```")

	// A full document from its root declaration through the root closing tag.
	docRe = regexp.MustCompile(`(?is)(?:<!doctype\s+html[^>]*>\s*)?<html\b.*?</html\s*>`)

	// A markup root, for the isHtml diagnostic.
	rootRe = regexp.MustCompile(`(?i)<!doctype\s+html|<html\b`)

	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	scriptRe  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	styleRe   = regexp.MustCompile(`(?is)<style\b.*?</style\s*>`)

	// Closers of block-level elements become a separating space so that two
	// adjacent blocks never flatten into one word.
	blockCloseRe = regexp.MustCompile(`(?i)</(?:h[1-6]|p|div|section|li)\s*>`)

	// Table cells keep a visible separator; tabular structure is otherwise
	// unrecoverable as prose.
	cellCloseRe = regexp.MustCompile(`(?i)</t[dh]\s*>`)

	brRe  = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	tagRe = regexp.MustCompile(`(?s)<[^>]*>`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Isolate extracts the markup span from an assistant message, without
// stripping its tags. Priority order: the inner content of a ```html fenced
// block, else a full html document span, else the text unchanged. Only the
// first matching pattern is used.
func Isolate(text string) string {
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := docRe.FindString(text); m != "" {
		return m
	}
	return text
}

// HasRoot reports whether text still contains a markup document root
// (doctype or <html> open tag).
func HasRoot(text string) bool {
	return rootRe.MatchString(text)
}

// Strip converts text that may contain a fenced markup block or raw markup
// into plain prose. Applying Strip to its own output is a no-op.
func Strip(text string) string {
	if m := fencedRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	text = commentRe.ReplaceAllString(text, "")
	text = scriptRe.ReplaceAllString(text, "")
	text = styleRe.ReplaceAllString(text, "")

	text = blockCloseRe.ReplaceAllString(text, " ")
	text = cellCloseRe.ReplaceAllString(text, "| ")
	text = brRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, "")

	text = decodeEntities(text)
	text = NormalizeEscapes(text)

	return CollapseWhitespace(text)
}

// CollapseWhitespace reduces every whitespace run (including line breaks) to
// a single space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// entityReplacer decodes the five standard named entities plus the
// non-breaking space. This is the full set the contract covers, not general
// entity decoding. The single-pass replacement means &amp;lt; decodes to
// &lt; and stops there.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

func decodeEntities(text string) string {
	return entityReplacer.Replace(text)
}

package docx

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

// span is a half-open byte range [start, end) of an element in a document.
type span struct {
	start, end int
}

// elements returns the spans of the outermost elements called name in s.
// Nested elements of the same name are part of their parent's span.
// Self-closing elements (<w:p/>) are returned as their own span.
func elements(s, name string) []span {
	open := "<" + name
	closeTag := "</" + name + ">"

	var out []span
	depth, start := 0, 0
	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '<')
		if j < 0 {
			break
		}
		j += i

		switch {
		case strings.HasPrefix(s[j:], closeTag):
			if depth > 0 {
				depth--
				if depth == 0 {
					out = append(out, span{start, j + len(closeTag)})
				}
			}
			i = j + len(closeTag)
		case strings.HasPrefix(s[j:], open) && isNameEnd(s, j+len(open)):
			k := strings.IndexByte(s[j:], '>')
			if k < 0 {
				return out
			}
			k += j
			if s[k-1] == '/' {
				if depth == 0 {
					out = append(out, span{j, k + 1})
				}
			} else {
				if depth == 0 {
					start = j
				}
				depth++
			}
			i = k + 1
		default:
			i = j + 1
		}
	}
	return out
}

// isNameEnd reports whether s[i] terminates an element name, so that
// "<w:t" does not match "<w:tbl" or "<w:tc".
func isNameEnd(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case ' ', '>', '/', '\t', '\n', '\r':
		return true
	}
	return false
}

// inner splits an element into its opening tag, content and closing tag.
// Self-closing elements have empty content and closing tag.
func inner(elem string) (openTag, content, closeTag string) {
	k := strings.IndexByte(elem, '>')
	if k < 0 {
		return elem, "", ""
	}
	if elem[k-1] == '/' {
		return elem[:k+1], "", ""
	}
	c := strings.LastIndex(elem, "</")
	if c < k {
		return elem[:k+1], elem[k+1:], ""
	}
	return elem[:k+1], elem[k+1 : c], elem[c:]
}

// within reports whether sp lies inside any of the container spans.
func within(sp span, containers []span) bool {
	for _, c := range containers {
		if sp.start >= c.start && sp.end <= c.end {
			return true
		}
	}
	return false
}

// replaceSpans rebuilds s with each span replaced by the matching entry of
// repl. Spans must be sorted and must not overlap.
func replaceSpans(s string, spans []span, repl []string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for i, sp := range spans {
		b.WriteString(s[last:sp.start])
		b.WriteString(repl[i])
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// textRuns returns the spans of the paragraph's own w:t elements. Runs of
// paragraphs nested inside it (text boxes) belong to those paragraphs.
func textRuns(p string) []span {
	openTag, content, _ := inner(p)
	nested := elements(content, "w:p")
	var out []span
	for _, sp := range elements(content, "w:t") {
		if within(sp, nested) {
			continue
		}
		out = append(out, span{sp.start + len(openTag), sp.end + len(openTag)})
	}
	return out
}

// paragraphText returns the plain text of a paragraph: the unescaped
// content of its own w:t runs, concatenated.
func paragraphText(p string) string {
	var b strings.Builder
	for _, sp := range textRuns(p) {
		_, content, _ := inner(p[sp.start:sp.end])
		b.WriteString(html.UnescapeString(content))
	}
	return b.String()
}

// eachParagraph calls fn for every paragraph of s, nested ones included,
// outer paragraphs first.
func eachParagraph(s string, fn func(p string)) {
	for _, sp := range elements(s, "w:p") {
		p := s[sp.start:sp.end]
		fn(p)
		_, content, _ := inner(p)
		eachParagraph(content, fn)
	}
}

// cellText returns the text of every paragraph in a cell, one per line.
func cellText(cell string) string {
	var lines []string
	for _, sp := range elements(cell, "w:p") {
		lines = append(lines, paragraphText(cell[sp.start:sp.end]))
	}
	return strings.Join(lines, "\n")
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func xmlEscape(value string) string {
	return xmlReplacer.Replace(value)
}

// xmlChars replaces what XML 1.0 cannot carry with U+FFFD: invalid UTF-8
// and code points outside the Char production.
func xmlChars(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return utf8.RuneError
	}, text)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= unicode.MaxRune:
		return true
	}
	return false
}

// runText renders text as w:t content. Newlines become line breaks inside
// the same run.
func runText(text string) string {
	text = strings.ReplaceAll(xmlChars(text), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = xmlEscape(line)
	}
	return strings.Join(lines, `</w:t><w:br/><w:t xml:space="preserve">`)
}

// setParagraphText writes text into the first w:t of the paragraph and
// empties the remaining runs. Formatting of the first run is preserved.
// Paragraphs without text runs are returned unchanged.
func setParagraphText(p, text string) string {
	runs := textRuns(p)
	if len(runs) == 0 {
		return p
	}
	repl := make([]string, len(runs))
	repl[0] = `<w:t xml:space="preserve">` + runText(text) + `</w:t>`
	for i := 1; i < len(runs); i++ {
		repl[i] = `<w:t></w:t>`
	}
	return replaceSpans(p, runs, repl)
}

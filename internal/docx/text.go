package docx

import "strings"

// Replacement substitutes every literal occurrence of Token with Value.
type Replacement struct {
	Token string
	Value string
}

// ReplaceText applies the replacements to every paragraph of the body, in
// slice order. Substitution is literal: a value that contains a later token
// is expanded by that later replacement. Paragraphs nested in text boxes
// are substituted on their own. Returns the number of paragraphs whose text
// changed.
func (d *Document) ReplaceText(repls []Replacement) int {
	if len(repls) == 0 {
		return 0
	}
	body, changed := replaceParagraphs(d.body, repls)
	if changed > 0 {
		d.body = body
	}
	return changed
}

// replaceParagraphs substitutes the paragraphs of s, innermost first.
func replaceParagraphs(s string, repls []Replacement) (string, int) {
	paras := elements(s, "w:p")
	out := make([]string, len(paras))
	changed := 0
	for i, sp := range paras {
		p := s[sp.start:sp.end]
		out[i] = p

		openTag, content, closeTag := inner(p)
		if content, n := replaceParagraphs(content, repls); n > 0 {
			p = openTag + content + closeTag
			out[i] = p
			changed += n
		}

		text := paragraphText(p)
		replaced := applyReplacements(text, repls)
		if replaced == text {
			continue
		}
		out[i] = setParagraphText(p, replaced)
		changed++
	}
	if changed == 0 {
		return s, 0
	}
	return replaceSpans(s, paras, out), changed
}

func applyReplacements(text string, repls []Replacement) string {
	for _, r := range repls {
		if r.Token == "" || !strings.Contains(text, r.Token) {
			continue
		}
		text = strings.ReplaceAll(text, r.Token, r.Value)
	}
	return text
}

// Contains reports whether token appears in the text of any paragraph.
func (d *Document) Contains(token string) bool {
	found := false
	eachParagraph(d.body, func(p string) {
		if !found && strings.Contains(paragraphText(p), token) {
			found = true
		}
	})
	return found
}

package docx

import "strings"

// centeredParagraph renders a centered paragraph from run markup.
func centeredParagraph(runs string) string {
	return `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` + runs + `</w:p>`
}

// ReplaceToken replaces token with the image at the given display width.
//
// A table cell whose text contains token is cleared (cell properties are
// kept) and receives a single centered paragraph holding the image. In
// cells holding nested tables, the nested tables are searched recursively
// and the cell's own paragraphs are handled like body paragraphs.
//
// A body paragraph outside tables whose text is only token is replaced by
// a centered paragraph holding the image. When the paragraph carries other
// text, that text is kept and the image is inserted where token was.
// Returns the number of placements.
func (d *Document) ReplaceToken(token string, img *Image, widthInches float64) int {
	body, placed := d.replaceInCells(d.body, token, img, widthInches)
	body, n := d.replaceInParagraphs(body, token, img, widthInches)
	d.body = body
	return placed + n
}

// replaceInParagraphs places the image in the paragraphs of s that lie
// outside tables.
func (d *Document) replaceInParagraphs(s, token string, img *Image, widthInches float64) (string, int) {
	tables := elements(s, "w:tbl")
	var hits []span
	var repl []string
	for _, sp := range elements(s, "w:p") {
		if within(sp, tables) {
			continue
		}
		p := s[sp.start:sp.end]
		if !strings.Contains(paragraphText(p), token) {
			continue
		}
		hits = append(hits, sp)
		repl = append(repl, d.placeInParagraph(p, token, img, widthInches))
	}
	if len(hits) == 0 {
		return s, 0
	}
	return replaceSpans(s, hits, repl), len(hits)
}

// placeInParagraph puts the image at each occurrence of token in p.
func (d *Document) placeInParagraph(p, token string, img *Image, widthInches float64) string {
	parts := strings.Split(paragraphText(p), token)
	if strings.TrimSpace(strings.Join(parts, "")) == "" {
		return centeredParagraph(d.drawingRun(img, widthInches))
	}

	p = setParagraphText(p, parts[0])
	first := textRuns(p)[0]
	at, props := first.end, ""
	for _, r := range elements(p, "w:r") {
		if first.start >= r.start && first.end <= r.end {
			at = r.end
			if pr := elements(p[r.start:r.end], "w:rPr"); len(pr) > 0 {
				props = p[r.start+pr[0].start : r.start+pr[0].end]
			}
			break
		}
	}

	var b strings.Builder
	for _, part := range parts[1:] {
		b.WriteString(d.drawingRun(img, widthInches))
		if part != "" {
			b.WriteString(`<w:r>` + props + `<w:t xml:space="preserve">` + runText(part) + `</w:t></w:r>`)
		}
	}
	return p[:at] + b.String() + p[at:]
}

func (d *Document) replaceInCells(s, token string, img *Image, widthInches float64) (string, int) {
	cells := elements(s, "w:tc")
	if len(cells) == 0 {
		return s, 0
	}

	placed := 0
	out := make([]string, len(cells))
	for i, sp := range cells {
		cell := s[sp.start:sp.end]
		out[i] = cell

		openTag, content, closeTag := inner(cell)
		if len(elements(content, "w:tc")) > 0 {
			nested, n := d.replaceInCells(content, token, img, widthInches)
			nested, m := d.replaceInParagraphs(nested, token, img, widthInches)
			out[i] = openTag + nested + closeTag
			placed += n + m
			continue
		}
		if !strings.Contains(cellText(content), token) {
			continue
		}

		var props string
		if pr := elements(content, "w:tcPr"); len(pr) > 0 {
			props = content[pr[0].start:pr[0].end]
		}
		out[i] = openTag + props + centeredParagraph(d.drawingRun(img, widthInches)) + closeTag
		placed++
	}
	return replaceSpans(s, cells, out), placed
}

// AppendImage appends a centered paragraph with caption followed by the
// image at the end of the body, before the final section properties.
func (d *Document) AppendImage(caption string, img *Image, widthInches float64) {
	var runs string
	if caption != "" {
		runs = `<w:r><w:t xml:space="preserve">` + runText(caption) + `</w:t></w:r>`
	}
	para := centeredParagraph(runs + d.drawingRun(img, widthInches))

	at := d.bodyInsertPoint()
	d.body = d.body[:at] + para + d.body[at:]
}

// bodyInsertPoint returns the offset of the body-level w:sectPr, or of
// </w:body> when the body has no trailing section properties.
func (d *Document) bodyInsertPoint() int {
	end := strings.LastIndex(d.body, "</w:body>")
	if end < 0 {
		return len(d.body)
	}
	sect := strings.LastIndex(d.body[:end], "<w:sectPr")
	if sect < 0 {
		return end
	}
	spans := elements(d.body[sect:end], "w:sectPr")
	if len(spans) == 0 {
		return end
	}
	if strings.TrimSpace(d.body[sect+spans[0].end:end]) != "" {
		// last sectPr belongs to a paragraph, not to the body
		return end
	}
	return sect
}

package docx

import (
	"archive/zip"
	"fmt"
	"io"
)

const (
	minimalContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	minimalPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	minimalDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
		`<w:body>`

	documentFooter = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

// Build writes a minimal .docx package whose body holds the given
// WordprocessingML block markup (paragraphs and tables). An A4 section is
// appended after the blocks.
func Build(w io.Writer, blocks string) error {
	zw := zip.NewWriter(w)
	entries := []struct{ name, data string }{
		{contentTypesPart, minimalContentTypes},
		{"_rels/.rels", minimalPackageRels},
		{documentPart, documentHeader + blocks + documentFooter},
		{relsPart, minimalDocumentRels},
	}
	for _, e := range entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("writing entry %s: %w", e.name, err)
		}
		if _, err := io.WriteString(fw, e.data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("writing entry %s: %w", e.name, err)
		}
	}
	return zw.Close()
}

// Paragraph renders a plain paragraph with a single text run.
func Paragraph(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + runText(text) + `</w:t></w:r></w:p>`
}

// Table renders a bordered table; each row is a slice of cell texts.
func Table(rows [][]string) string {
	s := `<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/>` +
		`<w:bottom w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders></w:tblPr>`
	for _, row := range rows {
		s += `<w:tr>`
		for _, cell := range row {
			s += `<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr>` + Paragraph(cell) + `</w:tc>`
		}
		s += `</w:tr>`
	}
	return s + `</w:tbl>`
}

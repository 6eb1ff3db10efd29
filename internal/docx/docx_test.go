package docx

// Notes:
// - Documents are built in memory with Build, so tests never depend on a
//   binary fixture produced by a word processor.
// - We do not validate the output against the OOXML schema; rendering is
//   covered by the LibreOffice integration tests in the root package.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func buildDocument(t *testing.T, blocks string) *Document {
	t.Helper()
	var buf bytes.Buffer
	if err := Build(&buf, blocks); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	doc, err := Read(buf.Bytes())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return doc
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.White)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// textBox renders a run anchoring a text box, with the DrawingML copy and
// its VML fallback as word processors write them.
func textBox(text string) string {
	content := `<w:txbxContent>` + Paragraph(text) + `</w:txbxContent>`
	return `<w:r><mc:AlternateContent><mc:Choice Requires="wps"><w:drawing><wp:anchor>` +
		`<a:graphic><a:graphicData><wps:wsp><wps:txbx>` + content + `</wps:txbx></wps:wsp></a:graphicData></a:graphic>` +
		`</wp:anchor></w:drawing></mc:Choice><mc:Fallback><w:pict><v:shape><v:textbox>` + content +
		`</v:textbox></v:shape></w:pict></mc:Fallback></mc:AlternateContent></w:r>`
}

// assertWellFormed fails when s is not well-formed XML.
func assertWellFormed(t *testing.T, s string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(s))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("document.xml is not well-formed: %v", err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestElements - Element scanning
// ---------------------------------------------------------------------------

func TestElements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    string
		elem string
		want []string
	}{
		{
			name: "sibling paragraphs",
			s:    `<w:p>a</w:p><w:p>b</w:p>`,
			elem: "w:p",
			want: []string{`<w:p>a</w:p>`, `<w:p>b</w:p>`},
		},
		{
			name: "self-closing paragraph",
			s:    `<w:p/><w:p w:rsidR="1">x</w:p>`,
			elem: "w:p",
			want: []string{`<w:p/>`, `<w:p w:rsidR="1">x</w:p>`},
		},
		{
			name: "w:t does not match w:tbl or w:tc",
			s:    `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
			elem: "w:t",
			want: []string{`<w:t>x</w:t>`},
		},
		{
			name: "nested cells are part of the outer span",
			s:    `<w:tc><w:tbl><w:tr><w:tc>in</w:tc></w:tr></w:tbl></w:tc><w:tc>b</w:tc>`,
			elem: "w:tc",
			want: []string{`<w:tc><w:tbl><w:tr><w:tc>in</w:tc></w:tr></w:tbl></w:tc>`, `<w:tc>b</w:tc>`},
		},
		{
			name: "pPr does not open a nested paragraph",
			s:    `<w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p><w:p/>`,
			elem: "w:p",
			want: []string{`<w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>`, `<w:p/>`},
		},
		{
			name: "no match",
			s:    `<w:body></w:body>`,
			elem: "w:p",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, sp := range elements(tt.s, tt.elem) {
				got = append(got, tt.s[sp.start:sp.end])
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("elements() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParagraphText - Text extraction and rewriting
// ---------------------------------------------------------------------------

func TestParagraphText_SplitRuns(t *testing.T) {
	t.Parallel()

	p := `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{na</w:t></w:r><w:r><w:t xml:space="preserve">me} &amp; co</w:t></w:r></w:p>`

	if got := paragraphText(p); got != "{name} & co" {
		t.Fatalf("paragraphText() = %q, want %q", got, "{name} & co")
	}

	rewritten := setParagraphText(p, "Asha & co")
	if got := paragraphText(rewritten); got != "Asha & co" {
		t.Errorf("paragraphText(rewritten) = %q, want %q", got, "Asha & co")
	}
	if !strings.Contains(rewritten, `<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Asha &amp; co</w:t>`) {
		t.Errorf("first run formatting not preserved: %s", rewritten)
	}
}

func TestSetParagraphText_Multiline(t *testing.T) {
	t.Parallel()

	p := `<w:p><w:r><w:t>{home_address}</w:t></w:r></w:p>`
	got := setParagraphText(p, "12 Main St\r\nPune")

	if !strings.Contains(got, `12 Main St</w:t><w:br/><w:t xml:space="preserve">Pune`) {
		t.Errorf("expected line break between lines, got %s", got)
	}
}

func TestSetParagraphText_NoRuns(t *testing.T) {
	t.Parallel()

	p := `<w:p><w:pPr/></w:p>`
	if got := setParagraphText(p, "x"); got != p {
		t.Errorf("setParagraphText() = %q, want unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestReplaceText - Placeholder substitution
// ---------------------------------------------------------------------------

func TestReplaceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		blocks  string
		repls   []Replacement
		want    string
		changed int
	}{
		{
			name:    "body paragraph",
			blocks:  Paragraph("Name: {name}"),
			repls:   []Replacement{{"{name}", "Asha"}},
			want:    "Name: Asha",
			changed: 1,
		},
		{
			name:    "every occurrence",
			blocks:  Paragraph("{name}/{name}"),
			repls:   []Replacement{{"{name}", "A"}},
			want:    "A/A",
			changed: 1,
		},
		{
			name:    "table cells",
			blocks:  Table([][]string{{"Roll", "{roll_no}"}, {"From", "{from}"}}),
			repls:   []Replacement{{"{roll_no}", "21CS10"}, {"{from}", "2024-05-01"}},
			want:    "Roll\n21CS10\nFrom\n2024-05-01",
			changed: 2,
		},
		{
			name:    "unknown tokens are kept",
			blocks:  Paragraph("{unknown} {name}"),
			repls:   []Replacement{{"{name}", "Asha"}},
			want:    "{unknown} Asha",
			changed: 1,
		},
		{
			name:    "mapping order drives overlapping expansion",
			blocks:  Paragraph("{name}"),
			repls:   []Replacement{{"{name}", "{roll_no}"}, {"{roll_no}", "21CS10"}},
			want:    "21CS10",
			changed: 1,
		},
		{
			name:    "earlier token inside a later value is not expanded",
			blocks:  Paragraph("{roll_no}"),
			repls:   []Replacement{{"{name}", "Asha"}, {"{roll_no}", "{name}"}},
			want:    "{name}",
			changed: 1,
		},
		{
			name:    "markup in values is escaped",
			blocks:  Paragraph("{name}"),
			repls:   []Replacement{{"{name}", "<b>A&B</b>"}},
			want:    "<b>A&B</b>",
			changed: 1,
		},
		{
			name:    "no replacements",
			blocks:  Paragraph("{name}"),
			repls:   nil,
			want:    "{name}",
			changed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := buildDocument(t, tt.blocks)
			changed := doc.ReplaceText(tt.repls)

			if changed != tt.changed {
				t.Errorf("ReplaceText() changed = %d, want %d", changed, tt.changed)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceText_CharactersOutsideXML(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("{name} {roll_no}"))
	doc.ReplaceText([]Replacement{{"{name}", "Asha\x0bRao\x01"}, {"{roll_no}", "21\xffCS"}})

	assertWellFormed(t, doc.Body())
	if got, want := doc.Text(), "Asha\uFFFDRao\uFFFD 21\uFFFDCS"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestXMLChars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Asha Rao", "Asha Rao"},
		{"whitespace controls kept", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"C0 controls", "a\x00b\x1fc", "a\uFFFDb\uFFFDc"},
		{"invalid UTF-8", "21\xffCS", "21\uFFFDCS"},
		{"noncharacter", "a\uFFFEb", "a\uFFFDb"},
		{"supplementary plane", "ok \U0001F600", "ok \U0001F600"},
	}
	for _, tt := range tests {
		if got := xmlChars(tt.in); got != tt.want {
			t.Errorf("%s: xmlChars(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestReplaceText_TextBox(t *testing.T) {
	t.Parallel()

	host := `<w:p><w:r><w:t xml:space="preserve">Header {name}</w:t></w:r>` + textBox("Box {roll_no}") + `</w:p>`
	doc := buildDocument(t, host)

	changed := doc.ReplaceText([]Replacement{{"{name}", "Asha"}, {"{roll_no}", "21CS10"}})

	if changed != 3 {
		t.Errorf("ReplaceText() changed = %d, want 3", changed)
	}
	if diff := cmp.Diff("Header Asha\nBox 21CS10\nBox 21CS10", doc.Text()); diff != "" {
		t.Errorf("Text() mismatch (-want +got):\n%s", diff)
	}
	body := doc.Body()
	if !strings.Contains(body, `<w:t xml:space="preserve">Header Asha</w:t>`) {
		t.Errorf("host run must hold only its own text: %s", body)
	}
	if n := strings.Count(body, `<w:t xml:space="preserve">Box 21CS10</w:t>`); n != 2 {
		t.Errorf("text box copies substituted = %d, want 2", n)
	}
	assertWellFormed(t, body)
}

func TestContains_TextBox(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, `<w:p>`+textBox("{qr_code}")+`</w:p>`)
	if !doc.Contains("{qr_code}") {
		t.Error("Contains() must see text box paragraphs")
	}
	if doc.Contains("{name}") {
		t.Error("Contains({name}) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestAddImage - Image embedding
// ---------------------------------------------------------------------------

func TestAddImage(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("x"))
	img, err := doc.AddImage(testPNG(t, 20, 10))
	if err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}

	if _, ok := doc.Part("word/media/gatepass_qr1.png"); !ok {
		t.Error("expected media part word/media/gatepass_qr1.png")
	}
	rels, _ := doc.Part(relsPart)
	if !strings.Contains(string(rels), `Id="rId1"`) || !strings.Contains(string(rels), `Target="media/gatepass_qr1.png"`) {
		t.Errorf("relationship not registered: %s", rels)
	}
	types, _ := doc.Part(contentTypesPart)
	if !strings.Contains(string(types), `Extension="png"`) {
		t.Errorf("png content type not registered: %s", types)
	}

	cx, cy := img.extent(2.0)
	if cx != 2*emuPerInch || cy != emuPerInch {
		t.Errorf("extent(2.0) = (%d, %d), want (%d, %d)", cx, cy, 2*emuPerInch, emuPerInch)
	}

	second, err := doc.AddImage(testPNG(t, 4, 4))
	if err != nil {
		t.Fatalf("AddImage() second error = %v", err)
	}
	if second.relID != "rId2" || second.name != "media/gatepass_qr2.png" {
		t.Errorf("second image = (%s, %s), want (rId2, media/gatepass_qr2.png)", second.relID, second.name)
	}

	types, _ = doc.Part(contentTypesPart)
	if n := strings.Count(strings.ToLower(string(types)), `extension="png"`); n != 1 {
		t.Errorf("png content type registered %d times, want 1", n)
	}
}

func TestAddImage_Invalid(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("x"))
	_, err := doc.AddImage([]byte("not a png"))
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("AddImage() error = %v, want ErrInvalidImage", err)
	}
}

func TestAddImage_DeclaresNamespaces(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string]string{
		contentTypesPart: minimalContentTypes,
		documentPart:     body,
	} {
		fw, _ := zw.Create(name)
		_, _ = fw.Write([]byte(data))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	doc, err := Read(buf.Bytes())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if _, err := doc.AddImage(testPNG(t, 2, 2)); err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}

	root := doc.Body()[:strings.Index(doc.Body(), "<w:body")]
	for _, ns := range []string{"xmlns:r=", "xmlns:wp="} {
		if !strings.Contains(root, ns) {
			t.Errorf("root element missing %s: %s", ns, root)
		}
	}
	if _, ok := doc.Part(relsPart); !ok {
		t.Error("expected document relationships part to be created")
	}
}

// ---------------------------------------------------------------------------
// TestReplaceToken - QR placement
// ---------------------------------------------------------------------------

func TestReplaceToken_TableCell(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Table([][]string{{"Name", "{name}"}, {"Scan", "{qr_code}"}}))
	img, err := doc.AddImage(testPNG(t, 8, 8))
	if err != nil {
		t.Fatal(err)
	}

	placed := doc.ReplaceToken("{qr_code}", img, 1.5)

	if placed != 1 {
		t.Fatalf("ReplaceToken() = %d, want 1", placed)
	}
	if doc.Contains("{qr_code}") {
		t.Error("literal {qr_code} remains")
	}
	body := doc.Body()
	if n := strings.Count(body, `r:embed="`+img.relID+`"`); n != 1 {
		t.Errorf("image embedded %d times, want 1", n)
	}
	if !strings.Contains(body, `<w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr><w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`) {
		t.Errorf("cell not rebuilt as centered image paragraph: %s", body)
	}
	cx, _ := img.extent(1.5)
	if !strings.Contains(body, `cx="`+itoa(cx)+`"`) {
		t.Errorf("expected 1.5in width (%d EMU) in drawing", cx)
	}
	if !strings.Contains(doc.Text(), "{name}") {
		t.Error("other cells must be left intact")
	}
}

func TestReplaceToken_EveryCell(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Table([][]string{{"{qr_code}", "{qr_code} here"}}))
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 2 {
		t.Errorf("ReplaceToken() = %d, want 2", placed)
	}
	if strings.Count(doc.Body(), "<wp:docPr") != 2 {
		t.Error("expected one drawing per cell")
	}
	ids := docPrIDPattern.FindAllStringSubmatch(doc.Body(), -1)
	if len(ids) != 2 || ids[0][1] == ids[1][1] {
		t.Errorf("drawing ids must be unique per placement, got %v", ids)
	}
}

func TestReplaceToken_BodyParagraph(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("Header")+Paragraph("{qr_code}"))
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 1 {
		t.Fatalf("ReplaceToken() = %d, want 1", placed)
	}
	if doc.Contains("{qr_code}") {
		t.Error("literal {qr_code} remains")
	}
	if got := doc.Text(); got != "Header\n" {
		t.Errorf("Text() = %q, want %q", got, "Header\n")
	}
}

func TestReplaceToken_NestedTable(t *testing.T) {
	t.Parallel()

	nested := Table([][]string{{"{qr_code}"}})
	outer := `<w:tbl><w:tr><w:tc><w:tcPr/>` + Paragraph("outer") + nested + Paragraph("") + `</w:tc></w:tr></w:tbl>`
	doc := buildDocument(t, outer)
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 1 {
		t.Fatalf("ReplaceToken() = %d, want 1", placed)
	}
	if !strings.Contains(doc.Text(), "outer") {
		t.Error("outer cell content must survive placement in a nested cell")
	}
}

func TestReplaceToken_KeepsSurroundingText(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("Scan: {qr_code} at the gate"))
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 1 {
		t.Fatalf("ReplaceToken() = %d, want 1", placed)
	}
	if got, want := doc.Text(), "Scan:  at the gate"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	body := doc.Body()
	if !strings.Contains(body, `Scan: </w:t></w:r><w:r><w:drawing>`) {
		t.Errorf("image not inserted after the leading text: %s", body)
	}
	if !strings.Contains(body, `</w:drawing></w:r><w:r><w:t xml:space="preserve"> at the gate</w:t></w:r>`) {
		t.Errorf("trailing text not kept after the image: %s", body)
	}
	assertWellFormed(t, body)
}

func TestReplaceToken_KeepsRunFormatting(t *testing.T) {
	t.Parallel()

	p := `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{qr_code} scan me</w:t></w:r></w:p>`
	doc := buildDocument(t, p)
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	doc.ReplaceToken("{qr_code}", img, 1.5)

	if !strings.Contains(doc.Body(), `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve"> scan me</w:t></w:r>`) {
		t.Errorf("trailing text lost its run properties: %s", doc.Body())
	}
}

func TestReplaceToken_CellParagraphBesideNestedTable(t *testing.T) {
	t.Parallel()

	nested := Table([][]string{{"inner"}})
	outer := `<w:tbl><w:tr><w:tc><w:tcPr/>` + Paragraph("{qr_code}") + nested + Paragraph("") + `</w:tc></w:tr></w:tbl>`
	doc := buildDocument(t, outer)
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 1 {
		t.Fatalf("ReplaceToken() = %d, want 1", placed)
	}
	if doc.Contains("{qr_code}") {
		t.Error("literal {qr_code} remains")
	}
	if !strings.Contains(doc.Text(), "inner") {
		t.Error("nested table must survive placement in its parent cell")
	}
	if n := strings.Count(doc.Body(), "<w:drawing>"); n != 1 {
		t.Errorf("drawings = %d, want 1", n)
	}
}

func TestReplaceToken_Absent(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Table([][]string{{"{name}"}}))
	img, _ := doc.AddImage(testPNG(t, 8, 8))
	before := doc.Body()

	if placed := doc.ReplaceToken("{qr_code}", img, 1.5); placed != 0 {
		t.Errorf("ReplaceToken() = %d, want 0", placed)
	}
	if doc.Body() != before {
		t.Error("body changed although token is absent")
	}
}

// ---------------------------------------------------------------------------
// TestAppendImage - End-of-document placement
// ---------------------------------------------------------------------------

func TestAppendImage(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("Gate Pass"))
	img, _ := doc.AddImage(testPNG(t, 8, 8))

	doc.AppendImage("Scan the QR code:", img, 2.0)

	body := doc.Body()
	caption := strings.Index(body, "Scan the QR code:")
	drawing := strings.Index(body, "<w:drawing>")
	sect := strings.LastIndex(body, "<w:sectPr>")
	if caption < 0 || drawing < caption || sect < drawing {
		t.Errorf("expected caption, then drawing, then sectPr; got offsets %d, %d, %d", caption, drawing, sect)
	}
	if got := doc.Text(); got != "Gate Pass\nScan the QR code:" {
		t.Errorf("Text() = %q", got)
	}
	cx, _ := img.extent(2.0)
	if !strings.Contains(body, `cx="`+itoa(cx)+`"`) {
		t.Errorf("expected 2.0in width (%d EMU)", cx)
	}
}

func TestBodyInsertPoint_ParagraphSection(t *testing.T) {
	t.Parallel()

	d := &Document{body: `<w:document><w:body><w:p><w:pPr><w:sectPr/></w:pPr></w:p><w:p/></w:body></w:document>`}
	if got, want := d.bodyInsertPoint(), strings.Index(d.body, "</w:body>"); got != want {
		t.Errorf("bodyInsertPoint() = %d, want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestRead / TestSave - Package I/O
// ---------------------------------------------------------------------------

func TestRead_Invalid(t *testing.T) {
	t.Parallel()

	var missingBody bytes.Buffer
	zw := zip.NewWriter(&missingBody)
	fw, _ := zw.Create(contentTypesPart)
	_, _ = fw.Write([]byte(minimalContentTypes))
	_ = zw.Close()

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"missing document part", missingBody.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Read(tt.data); !errors.Is(err, ErrNotWordDocument) {
				t.Errorf("Read() error = %v, want ErrNotWordDocument", err)
			}
		})
	}
}

func TestOpen_NotExist(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.docx"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want os.ErrNotExist", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("{name}")+Table([][]string{{"{qr_code}"}}))
	doc.ReplaceText([]Replacement{{"{name}", "Asha"}})
	img, _ := doc.AddImage(testPNG(t, 8, 8))
	doc.ReplaceToken("{qr_code}", img, 1.5)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if diff := cmp.Diff(doc.Text(), reopened.Text()); diff != "" {
		t.Errorf("text mismatch after round trip (-saved +reopened):\n%s", diff)
	}
	if _, ok := reopened.Part("word/media/gatepass_qr1.png"); !ok {
		t.Error("image part lost after round trip")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the saved file in %s, found %d entries", dir, len(entries))
	}
}

func TestSave_Failure(t *testing.T) {
	t.Parallel()

	doc := buildDocument(t, Paragraph("x"))
	err := doc.Save(filepath.Join(t.TempDir(), "missing", "out.docx"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for document operations.
var (
	ErrNotWordDocument = errors.New("not a word document")
	ErrInvalidImage    = errors.New("invalid PNG image")
)

// Package part names.
const (
	documentPart     = "word/document.xml"
	relsPart         = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

// part is a single zip entry of the package.
type part struct {
	name   string
	method uint16
	data   []byte
}

// Document is an in-memory WordprocessingML package.
type Document struct {
	parts  []*part
	index  map[string]*part
	body   string // word/document.xml, written back on Save
	nextID int    // next wp:docPr id
}

// Open reads a .docx package from path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- template path is operator-provided
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Read(data)
}

// Read parses a .docx package from bytes.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWordDocument, err)
	}

	d := &Document{index: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading entry %s: %w", f.Name, err)
		}
		p := &part{name: f.Name, method: f.Method, data: content}
		d.parts = append(d.parts, p)
		d.index[f.Name] = p
	}

	body, ok := d.index[documentPart]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotWordDocument, documentPart)
	}
	if _, ok := d.index[contentTypesPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotWordDocument, contentTypesPart)
	}
	d.body = string(body.data)
	if !strings.Contains(d.body, "<w:body") {
		return nil, fmt.Errorf("%w: %s has no body", ErrNotWordDocument, documentPart)
	}
	d.nextID = maxDrawingID(d.body) + 1
	return d, nil
}

// Text returns the plain text of every paragraph in document order, one
// paragraph per line. Table cell paragraphs are included; text box
// paragraphs follow the paragraph that anchors them.
func (d *Document) Text() string {
	var lines []string
	eachParagraph(d.body, func(p string) {
		lines = append(lines, paragraphText(p))
	})
	return strings.Join(lines, "\n")
}

// Body returns the raw word/document.xml content.
func (d *Document) Body() string {
	return d.body
}

// Part returns the raw bytes of a package entry.
func (d *Document) Part(name string) ([]byte, bool) {
	p, ok := d.index[name]
	if !ok {
		return nil, false
	}
	if name == documentPart {
		return []byte(d.body), true
	}
	return p.data, true
}

// WriteTo writes the package as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = []byte(d.body)
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		if err != nil {
			_ = zw.Close()
			return cw.n, fmt.Errorf("writing entry %s: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			_ = zw.Close()
			return cw.n, fmt.Errorf("writing entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finalizing package: %w", err)
	}
	return cw.n, nil
}

// Save writes the document to path atomically. On failure nothing is left
// at path and the temporary file is removed.
func (d *Document) Save(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".docx-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}

// setPart adds or replaces a package entry.
func (d *Document) setPart(name string, data []byte) {
	if p, ok := d.index[name]; ok {
		p.data = data
		return
	}
	p := &part{name: name, method: zip.Deflate, data: data}
	d.parts = append(d.parts, p)
	d.index[name] = p
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

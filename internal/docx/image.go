package docx

import (
	"bytes"
	"fmt"
	"image/png"
	"regexp"
	"strconv"
	"strings"
)

// emuPerInch converts inches to English Metric Units used by DrawingML.
const emuPerInch = 914400

const imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// Namespaces required by inline drawings, declared on w:document if absent.
var drawingNamespaces = []struct{ prefix, uri string }{
	{"r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships"},
	{"wp", "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"},
}

var (
	relIDPattern   = regexp.MustCompile(`Id="rId(\d+)"`)
	docPrIDPattern = regexp.MustCompile(`<wp:docPr[^>]*\sid="(\d+)"`)
)

// Image is a PNG embedded in the package, ready to be placed.
type Image struct {
	relID  string
	name   string
	width  int // pixels
	height int // pixels
}

// extent returns the display size in EMU for the given width in inches,
// keeping the pixel aspect ratio.
func (img *Image) extent(widthInches float64) (cx, cy int64) {
	cx = int64(widthInches * emuPerInch)
	cy = cx * int64(img.height) / int64(img.width)
	return cx, cy
}

// AddImage embeds a PNG into the package and registers its relationship
// and content type. The image is not visible until placed.
func (d *Document) AddImage(data []byte) (*Image, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	name := d.uniqueMediaName()
	d.setPart("word/"+name, data)

	relID := d.addRelationship(name)
	d.ensurePNGContentType()
	d.ensureNamespaces()

	return &Image{relID: relID, name: name, width: cfg.Width, height: cfg.Height}, nil
}

func (d *Document) uniqueMediaName() string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("media/gatepass_qr%d.png", n)
		if _, ok := d.index["word/"+name]; !ok {
			return name
		}
	}
}

// addRelationship appends an image relationship and returns its id.
func (d *Document) addRelationship(target string) string {
	rels, ok := d.index[relsPart]
	if !ok {
		d.setPart(relsPart, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`))
		rels = d.index[relsPart]
	}

	content := string(rels.data)
	maxID := 0
	for _, m := range relIDPattern.FindAllStringSubmatch(content, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	id := "rId" + strconv.Itoa(maxID+1)

	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, imageRelType, target)
	if i := strings.LastIndex(content, "</Relationships>"); i >= 0 {
		content = content[:i] + rel + content[i:]
	}
	rels.data = []byte(content)
	return id
}

func (d *Document) ensurePNGContentType() {
	ct := d.index[contentTypesPart]
	content := string(ct.data)
	if strings.Contains(strings.ToLower(content), `extension="png"`) {
		return
	}
	open := strings.Index(content, "<Types")
	if open < 0 {
		return
	}
	end := strings.IndexByte(content[open:], '>')
	if end < 0 {
		return
	}
	end += open + 1
	content = content[:end] + `<Default Extension="png" ContentType="image/png"/>` + content[end:]
	ct.data = []byte(content)
}

// ensureNamespaces declares the drawing namespaces on the root element.
func (d *Document) ensureNamespaces() {
	open := strings.Index(d.body, "<w:document")
	if open < 0 {
		return
	}
	end := strings.IndexByte(d.body[open:], '>')
	if end < 0 {
		return
	}
	end += open
	root := d.body[open:end]

	var add strings.Builder
	for _, ns := range drawingNamespaces {
		if !strings.Contains(root, "xmlns:"+ns.prefix+"=") {
			fmt.Fprintf(&add, ` xmlns:%s="%s"`, ns.prefix, ns.uri)
		}
	}
	if add.Len() == 0 {
		return
	}
	insert := end
	if d.body[end-1] == '/' {
		insert--
	}
	d.body = d.body[:insert] + add.String() + d.body[insert:]
}

func maxDrawingID(body string) int {
	maxID := 0
	for _, m := range docPrIDPattern.FindAllStringSubmatch(body, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID
}

// drawingRun renders a run holding the image as an inline drawing.
// Every placement gets its own wp:docPr id.
func (d *Document) drawingRun(img *Image, widthInches float64) string {
	cx, cy := img.extent(widthInches)
	id := d.nextID
	d.nextID++

	return fmt.Sprintf(`<w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/>`+
		`<wp:docPr id="%[3]d" name="QR Code %[3]d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="0" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, id, xmlEscape(img.name[strings.LastIndexByte(img.name, '/')+1:]), img.relID)
}

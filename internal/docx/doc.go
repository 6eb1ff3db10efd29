// Package docx edits WordprocessingML (.docx) packages.
//
// A Document is loaded fully into memory: every zip entry is kept as raw
// bytes and word/document.xml is edited as text. The editor understands just
// enough of the markup to work on paragraphs (w:p), table cells (w:tc) and
// text runs (w:t), which keeps unrelated markup byte-for-byte intact.
//
// Supported edits:
//
//   - literal placeholder substitution in every paragraph, including
//     paragraphs inside table cells
//   - embedding PNG images as inline drawings
//   - replacing a token with a centered image, in cells or body paragraphs
//   - appending a centered caption and image at the end of the body
//
// Documents are written atomically with Save: the package is written to a
// temporary file next to the destination and renamed into place.
package docx

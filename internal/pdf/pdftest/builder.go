// Package pdftest writes small but well-formed PDF files for tests: lines
// of text per page plus optional interactive form fields.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Field is an interactive form field. A Value starting with "/" is written
// as a name object, anything else as a text string. A field with Kids is a
// non-terminal field; its kids are widgets and may leave Name empty to
// inherit the parent's name.
type Field struct {
	Name  string
	Alias string
	Value string
	Kids  []Field
}

// Document describes the PDF to build.
type Document struct {
	// Pages holds the text of each page, lines separated by "\n". All lines
	// of a page are drawn in a single text object, each one 14pt below the
	// previous. "" produces a page without text.
	Pages []string
	// TextMatrix positions each line with Tm instead of a relative Td move.
	TextMatrix bool
	// Fields are listed in the AcroForm and attached to page 1 as widgets.
	Fields []Field
	// WidgetOnly fields are attached to page 1 but missing from the AcroForm.
	WidgetOnly []Field
	// AcroFormOnly fields are listed in the AcroForm but have no widget.
	AcroFormOnly []Field
}

type builder struct {
	objects []string
}

func (b *builder) reserve() int {
	b.objects = append(b.objects, "")
	return len(b.objects)
}

func (b *builder) set(num int, body string) {
	b.objects[num-1] = body
}

func ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

// Build renders doc as PDF bytes with a correct cross-reference table.
func Build(doc Document) []byte {
	b := &builder{}

	catalog := b.reserve()
	pages := b.reserve()
	font := b.reserve()

	pageCount := len(doc.Pages)
	if pageCount == 0 {
		pageCount = 1
	}
	pageNums := make([]int, pageCount)
	contentNums := make([]int, pageCount)
	for i := range pageNums {
		pageNums[i] = b.reserve()
		contentNums[i] = b.reserve()
	}

	var annots, acroFields []string
	for _, f := range doc.Fields {
		num := b.addField(f, 0, pageNums[0], true, &annots)
		acroFields = append(acroFields, ref(num))
	}
	for _, f := range doc.WidgetOnly {
		b.addField(f, 0, pageNums[0], true, &annots)
	}
	for _, f := range doc.AcroFormOnly {
		num := b.addField(f, 0, pageNums[0], false, nil)
		acroFields = append(acroFields, ref(num))
	}

	catalogBody := fmt.Sprintf("<< /Type /Catalog /Pages %s", ref(pages))
	if len(acroFields) > 0 {
		acroForm := b.reserve()
		b.set(acroForm, fmt.Sprintf("<< /Fields [%s] >>", strings.Join(acroFields, " ")))
		catalogBody += fmt.Sprintf(" /AcroForm %s", ref(acroForm))
	}
	b.set(catalog, catalogBody+" >>")

	kids := make([]string, pageCount)
	for i := range pageNums {
		kids[i] = ref(pageNums[i])
	}
	b.set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount))
	b.set(font, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar %d /LastChar %d /Widths [%s] >>", firstChar, lastChar, widths()))

	for i := range pageNums {
		text := ""
		if i < len(doc.Pages) {
			text = doc.Pages[i]
		}

		pageBody := fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %s >> >> /Contents %s",
			ref(pages), ref(font), ref(contentNums[i]))
		if i == 0 && len(annots) > 0 {
			pageBody += fmt.Sprintf(" /Annots [%s]", strings.Join(annots, " "))
		}
		b.set(pageNums[i], pageBody+" >>")

		content := textObject(text, doc.TextMatrix)
		b.set(contentNums[i], fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	return b.render(catalog)
}

const (
	firstChar   = 32
	lastChar    = 126
	glyphWidth  = 556
	lineSpacing = 14
)

// widths gives every printable character the same advance so that glyph
// positions reported by text extractors increase along a line.
func widths() string {
	w := make([]string, lastChar-firstChar+1)
	for i := range w {
		w[i] = fmt.Sprint(glyphWidth)
	}
	return strings.Join(w, " ")
}

// textObject draws the lines of text in one BT/ET block starting at
// (72, 720).
func textObject(text string, textMatrix bool) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n")
	for i, line := range strings.Split(text, "\n") {
		switch {
		case textMatrix:
			fmt.Fprintf(&b, "1 0 0 1 72 %d Tm\n", 720-i*lineSpacing)
		case i == 0:
			b.WriteString("72 720 Td\n")
		default:
			fmt.Fprintf(&b, "0 -%d Td\n", lineSpacing)
		}
		fmt.Fprintf(&b, "(%s) Tj\n", escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

// addField writes f and its kids, returning f's object number. Terminal
// fields become widget annotations and are appended to annots when
// withWidget is set.
func (b *builder) addField(f Field, parent, page int, withWidget bool, annots *[]string) int {
	num := b.reserve()

	var kidRefs []string
	for _, kid := range f.Kids {
		kidRefs = append(kidRefs, ref(b.addField(kid, num, page, withWidget, annots)))
	}

	var body strings.Builder
	body.WriteString("<<")
	if len(f.Kids) == 0 && withWidget {
		fmt.Fprintf(&body, " /Type /Annot /Subtype /Widget /Rect [72 600 300 620] /P %s", ref(page))
		*annots = append(*annots, ref(num))
	}
	if parent == 0 {
		body.WriteString(" /FT /Tx")
	} else {
		fmt.Fprintf(&body, " /Parent %s", ref(parent))
	}
	if f.Name != "" {
		fmt.Fprintf(&body, " /T (%s)", escape(f.Name))
	}
	if f.Alias != "" {
		fmt.Fprintf(&body, " /TU (%s)", escape(f.Alias))
	}
	if f.Value != "" {
		fmt.Fprintf(&body, " /V %s", value(f.Value))
	}
	if len(kidRefs) > 0 {
		fmt.Fprintf(&body, " /Kids [%s]", strings.Join(kidRefs, " "))
	}
	body.WriteString(" >>")

	b.set(num, body.String())
	return num
}

func (b *builder) render(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, ref(root), xref)

	return buf.Bytes()
}

func value(v string) string {
	if strings.HasPrefix(v, "/") {
		return v
	}
	return "(" + escape(v) + ")"
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// WriteFile builds doc and writes it to path.
func WriteFile(path string, doc Document) error {
	return os.WriteFile(path, Build(doc), 0o600)
}

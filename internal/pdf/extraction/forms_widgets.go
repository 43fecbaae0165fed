package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// WidgetBackend reads form values from the widget annotations attached
// to each page, using ledongthuc/pdf. It sees fields that are reachable
// from pages even when the document's AcroForm dictionary is missing or
// broken.
type WidgetBackend struct{}

// NewWidgetBackend creates a new widget annotation backend
func NewWidgetBackend() *WidgetBackend {
	return &WidgetBackend{}
}

// Name implements FieldBackend
func (w *WidgetBackend) Name() string {
	return "widgets"
}

// ExtractFields returns the value of every widget annotation that has one
func (w *WidgetBackend) ExtractFields(filePath string) (map[string]string, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	fields := make(map[string]string)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		annots := page.V.Key("Annots")
		for i := 0; i < annots.Len(); i++ {
			annot := annots.Index(i)
			if annot.Key("Subtype").Name() != "Widget" {
				continue
			}

			name := widgetFieldName(annot)
			value := widgetFieldValue(annot)
			if name != "" && value != "" {
				fields[name] = value
			}
		}
	}

	return fields, nil
}

// widgetFieldName builds the fully qualified name from the T entries up
// the Parent chain, falling back to the first TU alias found.
func widgetFieldName(annot pdf.Value) string {
	var parts []string
	alias := ""

	v := annot
	for depth := 0; depth <= maxFieldDepth && v.Kind() == pdf.Dict; depth++ {
		if t := v.Key("T"); t.Kind() == pdf.String && t.Text() != "" {
			parts = append([]string{t.Text()}, parts...)
		}
		if tu := v.Key("TU"); alias == "" && tu.Kind() == pdf.String {
			alias = tu.Text()
		}
		v = v.Key("Parent")
	}

	if len(parts) == 0 {
		return alias
	}
	return strings.Join(parts, ".")
}

// widgetFieldValue returns the widget's V, inherited from its parents when absent
func widgetFieldValue(annot pdf.Value) string {
	v := annot
	for depth := 0; depth <= maxFieldDepth && v.Kind() == pdf.Dict; depth++ {
		if value := v.Key("V"); !value.IsNull() {
			return renderWidgetValue(value, 0)
		}
		v = v.Key("Parent")
	}
	return ""
}

func renderWidgetValue(value pdf.Value, depth int) string {
	if depth > maxFieldDepth {
		return ""
	}

	switch value.Kind() {
	case pdf.String:
		return value.Text()
	case pdf.Name:
		if value.Name() == "" {
			return ""
		}
		return "/" + value.Name()
	case pdf.Integer:
		return strconv.FormatInt(value.Int64(), 10)
	case pdf.Real:
		return strconv.FormatFloat(value.Float64(), 'f', -1, 64)
	case pdf.Bool:
		return strconv.FormatBool(value.Bool())
	case pdf.Array:
		var parts []string
		for i := 0; i < value.Len(); i++ {
			if part := renderWidgetValue(value.Index(i), depth+1); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

package extraction

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxFieldDepth bounds the field tree walk; malformed files can contain
// Kids cycles.
const maxFieldDepth = 32

// PDFCPUFormExtractor reads the document's AcroForm field tree using pdfcpu
type PDFCPUFormExtractor struct{}

// NewPDFCPUFormExtractor creates a new form extractor using pdfcpu
func NewPDFCPUFormExtractor() *PDFCPUFormExtractor {
	api.DisableConfigDir()
	return &PDFCPUFormExtractor{}
}

// Name implements FieldBackend
func (fe *PDFCPUFormExtractor) Name() string {
	return "acroform"
}

// ExtractFields returns every named field in the AcroForm tree that carries a value
func (fe *PDFCPUFormExtractor) ExtractFields(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	return fe.extractFieldsFromContext(ctx)
}

// extractFieldsFromContext walks Catalog -> AcroForm -> Fields
func (fe *PDFCPUFormExtractor) extractFieldsFromContext(ctx *model.Context) (map[string]string, error) {
	fields := make(map[string]string)

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return fields, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return fields, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fields, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for _, fieldRef := range fieldsArray {
		fe.processField(ctx, fieldRef, "", nil, fields, 0)
	}

	return fields, nil
}

// processField records the field's value under its fully qualified name
// and descends into Kids. V is inherited from the parent when absent.
func (fe *PDFCPUFormExtractor) processField(ctx *model.Context, fieldObj types.Object, parentName string,
	inherited types.Object, out map[string]string, depth int,
) {
	if depth > maxFieldDepth {
		return
	}

	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return
	}

	name := parentName
	if partial := fe.stringEntry(ctx, fieldDict, "T"); partial != "" {
		name = qualify(parentName, partial)
	}
	if name == "" {
		name = fe.stringEntry(ctx, fieldDict, "TU")
	}

	valueObj := inherited
	if v, found := fieldDict.Find("V"); found {
		valueObj = v
	}

	if name != "" && valueObj != nil {
		if value := fe.renderValue(ctx, valueObj); value != "" {
			out[name] = value
		}
	}

	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return
	}
	for _, kid := range kids {
		fe.processField(ctx, kid, name, valueObj, out, depth+1)
	}
}

func (fe *PDFCPUFormExtractor) stringEntry(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

// renderValue turns a V entry into text. Names keep their leading slash,
// which is how choice exports such as /choice5 are reported.
func (fe *PDFCPUFormExtractor) renderValue(ctx *model.Context, valueObj types.Object) string {
	if s, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return s
	}

	if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		if name == "" {
			return ""
		}
		return "/" + string(name)
	}

	obj, err := ctx.Dereference(valueObj)
	if err != nil || obj == nil {
		return ""
	}

	switch o := obj.(type) {
	case types.Array:
		var parts []string
		for _, item := range o {
			if part := fe.renderValue(ctx, item); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	case types.Integer:
		return strconv.Itoa(int(o))
	case types.Float:
		return strconv.FormatFloat(float64(o), 'f', -1, 64)
	case types.Boolean:
		return strconv.FormatBool(bool(o))
	}

	return ""
}

// qualify joins partial field names the way PDF fully qualified names are built
func qualify(parent, partial string) string {
	if parent == "" {
		return partial
	}
	return parent + "." + partial
}

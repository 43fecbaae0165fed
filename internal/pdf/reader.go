package pdf

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	pdferrors "github.com/a3tai/committee-records/internal/pdf/errors"
)

const (
	// rowTolerance is how far apart, in points, two glyph baselines may be
	// and still belong to the same line.
	rowTolerance = 3.0
	// wordGap is the horizontal gap, as a fraction of the font size, that
	// separates two words positioned without an explicit space.
	wordGap = 0.3
)

// Reader extracts the linear text of a PDF, page by page
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new text reader
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// ExtractText returns the text of every page that yields any, joined by
// newlines in page order. Only a failure to open the document is returned
// as an error; a page that cannot be read contributes nothing.
func (r *Reader) ExtractText(path string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = pdferrors.FromPanic(pdferrors.ErrorTypeOpenFailed, path, rec)
		}
	}()

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", pdferrors.New(pdferrors.ErrorTypeOpenFailed, path, fmt.Errorf("failed to open PDF: %w", err))
	}
	defer f.Close()

	return r.extractTextContent(path, pdfReader), nil
}

// extractTextContent joins the non-empty pages of pdfReader
func (r *Reader) extractTextContent(path string, pdfReader *pdf.Reader) string {
	var pages []string

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		content, err := r.pageText(pdfReader, pageNum)
		if err != nil {
			r.logger.Debug("page text extraction failed",
				zap.String("file", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		if content == "" {
			continue
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n")
}

// pageText reads one page as lines of text, top to bottom. Lines are
// rebuilt from glyph positions because text moved to a new line with Td
// or Tm inside one text object carries no line break of its own.
// Library panics are converted into errors.
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (content string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic reading page %d: %v", pageNum, rec)
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	return textLines(page.Content().Text), nil
}

type textRow struct {
	y      float64
	glyphs []pdf.Text
}

// textLines groups glyphs into rows by baseline, orders rows top to bottom
// and glyphs left to right, and joins the non-blank rows with newlines.
func textLines(glyphs []pdf.Text) string {
	var rows []*textRow
	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" {
			continue
		}

		var row *textRow
		for _, r := range rows {
			if math.Abs(r.y-g.Y) <= rowTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &textRow{y: g.Y}
			rows = append(rows, row)
		}
		row.glyphs = append(row.glyphs, g)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].y > rows[j].y
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := strings.TrimSpace(rowText(row.glyphs)); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// rowText concatenates one row left to right, inserting a space where two
// glyphs are separated by a visible gap. Glyphs without a known width keep
// their content stream order.
func rowText(glyphs []pdf.Text) string {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var b strings.Builder
	lastSpace := true
	for i, g := range glyphs {
		if i > 0 && !lastSpace && g.S != " " {
			prev := glyphs[i-1]
			if prev.W > 0 && g.X-(prev.X+prev.W) > wordGap*g.FontSize {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		lastSpace = strings.HasSuffix(g.S, " ")
	}
	return b.String()
}

package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const creator = "invoice-composer-service"

// renderer draws layout elements onto a gofpdf document
type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render draws layout into PDF bytes. Output depends only on layout, so the
// same layout always produces the same bytes.
func (c *Composer) Render(layout *Layout) ([]byte, error) {
	if layout == nil || len(layout.Pages) == 0 {
		return nil, errors.New("render: empty layout")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(layout.GeneratedAt.UTC())
	pdf.SetModificationDate(layout.GeneratedAt.UTC())
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(layout.Title, true)
	pdf.SetAuthor(layout.Author, true)
	pdf.SetCreator(creator, true)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, e := range page.Elements {
			e.draw(r)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("render page %d: %w", page.Number, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func (t *TextElement) draw(r *renderer) {
	r.pdf.SetFont(t.Font.Family, t.Font.Style, t.Font.Size)
	r.pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
	r.pdf.SetXY(t.X, t.Y)
	align := t.Align
	if align == "" {
		align = "L"
	}
	r.pdf.CellFormat(t.W, t.H, r.tr(t.Text), "", 0, align+"M", false, 0, "")
}

func (e *RectElement) draw(r *renderer) {
	r.pdf.SetFillColor(e.Fill.R, e.Fill.G, e.Fill.B)
	r.pdf.Rect(e.X, e.Y, e.W, e.H, "F")
}

func (e *LineElement) draw(r *renderer) {
	r.pdf.SetDrawColor(e.Color.R, e.Color.G, e.Color.B)
	r.pdf.SetLineWidth(e.Width)
	r.pdf.Line(e.X1, e.Y1, e.X2, e.Y2)
}

func (e *ImageElement) draw(r *renderer) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	// registering an existing name is a no-op
	r.pdf.RegisterImageOptionsReader(e.Name, opts, bytes.NewReader(e.Data))
	r.pdf.ImageOptions(e.Name, e.X, e.Y, e.W, e.H, false, opts, 0, "")
}

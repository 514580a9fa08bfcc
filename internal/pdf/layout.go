package pdf

import "time"

// Font selects a core PDF font
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

// Element is something drawn at an absolute position on a page
type Element interface {
	draw(r *renderer)
}

// TextElement is a single line of text inside a box. Align is "L", "C" or "R".
type TextElement struct {
	X, Y, W, H float64
	Text       string
	Font       Font
	Color      Color
	Align      string
}

// RectElement is a filled rectangle
type RectElement struct {
	X, Y, W, H float64
	Fill       Color
}

// LineElement is a straight stroke
type LineElement struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	Width          float64
}

// ImageElement is an embedded PNG image
type ImageElement struct {
	Name       string
	X, Y, W, H float64
	Data       []byte
}

// Page is one page of a composed document
type Page struct {
	Number   int // 1-based
	Elements []Element
}

func (p *Page) add(e Element) {
	p.Elements = append(p.Elements, e)
}

// Texts returns the text of every text element in drawing order
func (p *Page) Texts() []string {
	var texts []string
	for _, e := range p.Elements {
		if t, ok := e.(*TextElement); ok {
			texts = append(texts, t.Text)
		}
	}
	return texts
}

// Layout is a composed invoice: fixed-size pages of positioned elements
type Layout struct {
	PageWidth   float64
	PageHeight  float64
	Title       string
	Author      string
	GeneratedAt time.Time
	Pages       []*Page
}

func (l *Layout) addPage() *Page {
	p := &Page{Number: len(l.Pages) + 1}
	l.Pages = append(l.Pages, p)
	return p
}

// PageCount returns the number of pages
func (l *Layout) PageCount() int {
	return len(l.Pages)
}

package pdf

// PageCursor tracks the vertical drawing position while a document is composed.
// It is a value: every move returns a new cursor.
type PageCursor struct {
	Y           float64
	Page        int // 0-based
	PageHeight  float64
	TopMargin   float64
	BottomLimit float64 // lowest Y content may reach on a page
}

// NewPageCursor places a cursor at the top margin of the first page
func NewPageCursor(pageHeight, topMargin, bottomLimit float64) PageCursor {
	return PageCursor{
		Y:           topMargin,
		PageHeight:  pageHeight,
		TopMargin:   topMargin,
		BottomLimit: bottomLimit,
	}
}

// Fits reports whether a block of height h can be drawn on the current page
func (c PageCursor) Fits(h float64) bool {
	return c.Y+h <= c.BottomLimit
}

// Advance moves the cursor down by h
func (c PageCursor) Advance(h float64) PageCursor {
	c.Y += h
	return c
}

// NextPage moves the cursor to the top of the following page
func (c PageCursor) NextPage() PageCursor {
	c.Page++
	c.Y = c.TopMargin
	return c
}

// AtTop reports whether nothing has been drawn on the current page yet
func (c PageCursor) AtTop() bool {
	return c.Y <= c.TopMargin
}

// Remaining is the printable height left on the current page
func (c PageCursor) Remaining() float64 {
	if c.Y >= c.BottomLimit {
		return 0
	}
	return c.BottomLimit - c.Y
}

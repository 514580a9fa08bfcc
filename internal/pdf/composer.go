// Package pdf lays out invoices on fixed-size pages and renders them with gofpdf.
//
// Composition is split in two steps. Compose turns an InvoiceDocument into a
// Layout, a list of pages holding absolutely positioned elements; Render draws a
// Layout into PDF bytes. Both steps are pure functions of their input and the
// injected timestamp, so the same document composed twice yields identical bytes.
package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/calculator"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/imageutil"
	"github.com/ridwanfathin/invoice-composer-service/internal/money"
)

const (
	DefaultPageSize = "A4"
	DefaultMargin   = 15.0
	DefaultThankYou = "Thank you for your business!"
	DefaultTerms    = "Payment is due by the due date shown on this invoice. " +
		"Please include the invoice number with your payment. " +
		"Late payments may be subject to a fee as agreed in the project contract."
)

// page dimensions in millimetres
var pageSizes = map[string][2]float64{
	"A4":     {210, 297},
	"LETTER": {215.9, 279.4},
}

// Options configures a Composer
type Options struct {
	PageSize       string // "A4" or "Letter"
	Margin         float64
	Theme          string
	CurrencySymbol string
	DefaultTerms   string // used when the document carries no terms
	ThankYou       string // footer line; empty disables it
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		PageSize:       DefaultPageSize,
		Margin:         DefaultMargin,
		Theme:          DefaultThemeName,
		CurrencySymbol: money.DefaultSymbol,
		DefaultTerms:   DefaultTerms,
		ThankYou:       DefaultThankYou,
	}
}

// Composer lays out and renders invoices. It holds no mutable state and is
// safe for concurrent use.
type Composer struct {
	opts       Options
	theme      Theme
	formatter  money.Formatter
	pageWidth  float64
	pageHeight float64
}

// NewComposer validates opts and creates a Composer
func NewComposer(opts Options) (*Composer, error) {
	size, ok := pageSizes[strings.ToUpper(strings.TrimSpace(opts.PageSize))]
	if !ok {
		if strings.TrimSpace(opts.PageSize) != "" {
			return nil, fmt.Errorf("unsupported page size %q", opts.PageSize)
		}
		size = pageSizes[DefaultPageSize]
	}

	if opts.Margin == 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Margin < 0 || opts.Margin > size[0]/4 {
		return nil, fmt.Errorf("margin %.1fmm out of range", opts.Margin)
	}

	for _, f := range []struct{ name, text string }{
		{"currency symbol", opts.CurrencySymbol},
		{"default terms", opts.DefaultTerms},
		{"thank-you line", opts.ThankYou},
	} {
		if bad := unprintable(f.text); len(bad) > 0 {
			return nil, fmt.Errorf("%s %q contains %q, which the built-in fonts cannot print", f.name, f.text, string(bad))
		}
	}

	theme, err := ThemeByName(opts.Theme)
	if err != nil {
		return nil, err
	}
	opts.Theme = theme.Name

	return &Composer{
		opts:       opts,
		theme:      theme,
		formatter:  money.NewFormatter(opts.CurrencySymbol),
		pageWidth:  size[0],
		pageHeight: size[1],
	}, nil
}

// WithTheme returns a copy of the composer using another theme
func (c *Composer) WithTheme(name string) (*Composer, error) {
	if strings.TrimSpace(name) == "" || strings.EqualFold(name, c.theme.Name) {
		return c, nil
	}
	theme, err := ThemeByName(name)
	if err != nil {
		return nil, err
	}
	clone := *c
	clone.theme = theme
	clone.opts.Theme = theme.Name
	return &clone, nil
}

// Theme returns the theme in use
func (c *Composer) Theme() Theme {
	return c.theme
}

// Options returns the effective options
func (c *Composer) Options() Options {
	return c.opts
}

// Compose lays out doc. now is printed in every footer and stamped into the
// document metadata. Nothing is drawn when a required field is missing.
func (c *Composer) Compose(doc *domain.InvoiceDocument, now time.Time) (*Layout, error) {
	if doc == nil {
		return nil, &domain.MissingInvoiceDataError{Fields: []string{"invoice"}}
	}
	if missing := doc.MissingRequiredFields(); len(missing) > 0 {
		return nil, &domain.MissingInvoiceDataError{Fields: missing}
	}

	totals, err := calculator.ComputeTotals(doc.LineItems, doc.Project, doc.Financials)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		PageWidth:   c.pageWidth,
		PageHeight:  c.pageHeight,
		Title:       "Invoice " + doc.InvoiceNumber,
		Author:      doc.Issuer.BusinessName,
		GeneratedAt: now,
	}

	s := &composition{
		Composer: c,
		doc:      doc,
		totals:   totals,
		m:        newMeasurer(),
		layout:   layout,
		margin:   c.opts.Margin,
		width:    c.pageWidth - 2*c.opts.Margin,
		cur:      NewPageCursor(c.pageHeight, c.opts.Margin, c.pageHeight-c.opts.Margin-footerHeight-footerGap),
	}
	s.page = layout.addPage()

	// an unreadable logo is treated as absent
	if len(doc.Issuer.Logo) > 0 {
		if logo, err := imageutil.PrepareLogo(doc.Issuer.Logo, nil); err == nil {
			s.logo = logo
		}
	}

	s.header()
	s.parties()
	s.lineItems()
	s.totalsBlock()
	s.paragraph("Notes", doc.Notes)
	s.payment()

	terms := doc.Terms
	if strings.TrimSpace(terms) == "" {
		terms = c.opts.DefaultTerms
	}
	s.paragraph("Terms & Conditions", terms)
	s.footers(now)

	return layout, nil
}

// Generate composes and renders doc in one step. On error no bytes are returned.
func (c *Composer) Generate(doc *domain.InvoiceDocument, now time.Time) ([]byte, error) {
	layout, err := c.Compose(doc, now)
	if err != nil {
		return nil, err
	}
	return c.Render(layout)
}

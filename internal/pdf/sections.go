package pdf

import (
	"strconv"
	"strings"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/calculator"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/imageutil"
	"github.com/ridwanfathin/invoice-composer-service/internal/money"
)

const (
	titleSize   = 24.0
	nameSize    = 16.0
	headingSize = 11.0
	bodySize    = 10.0
	termsSize   = 9.0
	smallSize   = 8.0

	titleHeight   = 11.0
	nameHeight    = 8.0
	lineHeight    = 5.0
	headingHeight = 7.0
	rowHeight     = 8.0
	tableHead     = 9.0
	totalsRow     = 7.0
	emphasisRow   = 9.0
	sectionGap    = 8.0
	footerHeight  = 12.0
	footerGap     = 2.0
	logoMaxHeight = 20.0
	cellPadding   = 2.2
	minFigureSize = 5.0

	qtyWidth    = 20.0
	rateWidth   = 32.0
	amountWidth = 32.0
	totalsWidth = 85.0
	labelWidth  = 42.0
)

// TableColumns are the line-item table headings, repeated on every page the table spans
var TableColumns = [4]string{"Description", "Qty", "Rate", "Amount"}

// PaymentHeading titles the payment instructions section
const PaymentHeading = "Payment Information"

type textLine struct {
	text   string
	font   Font
	color  Color
	height float64
}

// composition is the working state of one Compose call
type composition struct {
	*Composer
	doc    *domain.InvoiceDocument
	totals *calculator.Totals
	m      *measurer
	layout *Layout
	page   *Page
	cur    PageCursor
	logo   *imageutil.Logo
	margin float64
	width  float64 // printable width
}

func (s *composition) font(style string, size float64) Font {
	return Font{Family: s.theme.Font, Style: style, Size: size}
}

// ensure starts a new page when a block of height h does not fit.
// A block taller than a whole page is drawn from the top of the page it starts on.
func (s *composition) ensure(h float64) {
	if s.cur.Fits(h) || s.cur.AtTop() {
		return
	}
	s.newPage()
}

func (s *composition) newPage() {
	s.cur = s.cur.NextPage()
	s.page = s.layout.addPage()
}

func (s *composition) text(x, y, w, h float64, text string, f Font, c Color, align string) {
	s.page.add(&TextElement{
		X: x, Y: y, W: w, H: h,
		Text:  s.m.truncate(f, text, w-cellPadding),
		Font:  f,
		Color: c,
		Align: align,
	})
}

// figure draws a number without truncating it. When it does not fit the
// font shrinks in half-point steps down to minFigureSize.
func (s *composition) figure(x, y, w, h float64, text string, f Font, c Color, align string) {
	for f.Size > minFigureSize && s.m.width(f, text) > w-cellPadding {
		f.Size -= 0.5
	}
	s.page.add(&TextElement{X: x, Y: y, W: w, H: h, Text: text, Font: f, Color: c, Align: align})
}

func (s *composition) rule(y float64, c Color, width float64) {
	s.page.add(&LineElement{X1: s.margin, Y1: y, X2: s.margin + s.width, Y2: y, Color: c, Width: width})
}

func (s *composition) stack(x, y, w float64, lines []textLine, align string) {
	for _, l := range lines {
		s.text(x, y, w, l.height, l.text, l.font, l.color, align)
		y += l.height
	}
}

func stackHeight(lines []textLine) float64 {
	var h float64
	for _, l := range lines {
		h += l.height
	}
	return h
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// header draws the business block on the left and the invoice metadata on the right.
// Its height is known before drawing and it is never split.
func (s *composition) header() {
	th := s.theme
	doc := s.doc

	textColor, mutedColor, titleColor := th.Text, th.Muted, th.Primary
	statusColor := th.Unpaid
	if doc.Status == domain.StatusPaid {
		statusColor = th.Paid
	}
	if th.HeaderBand {
		textColor, mutedColor, titleColor = th.HeaderText, th.HeaderText, th.HeaderText
	}

	leftW := s.width * 0.55
	rightW := s.width - leftW

	var logoW, logoH float64
	if s.logo != nil {
		logoH = logoMaxHeight
		logoW = logoH * float64(s.logo.Width) / float64(s.logo.Height)
		if logoW > leftW/2 {
			logoW = leftW / 2
			logoH = logoW * float64(s.logo.Height) / float64(s.logo.Width)
		}
	}
	textX := s.margin
	if logoW > 0 {
		textX += logoW + 4
	}
	textW := leftW - (textX - s.margin)

	body := s.font("", bodySize)
	left := []textLine{{doc.Issuer.BusinessName, s.font("B", nameSize), textColor, nameHeight}}
	if present(doc.Issuer.Phone) {
		left = append(left, textLine{doc.Issuer.Phone, body, mutedColor, lineHeight})
	}
	for _, line := range splitLines(doc.Issuer.Address) {
		left = append(left, textLine{line, body, mutedColor, lineHeight})
	}
	if present(doc.Issuer.Email) {
		left = append(left, textLine{doc.Issuer.Email, body, mutedColor, lineHeight})
	}

	status := doc.Status
	if !status.Valid() {
		status = domain.StatusUnpaid
	}
	right := []textLine{
		{"INVOICE", s.font("B", titleSize), titleColor, titleHeight},
		{"Invoice #: " + doc.InvoiceNumber, s.font("B", bodySize), textColor, lineHeight},
		{"Date: " + doc.InvoiceDate, body, mutedColor, lineHeight},
		{"Due Date: " + doc.DueDate, body, mutedColor, lineHeight},
		{"Status: " + string(status), s.font("B", bodySize), statusColor, lineHeight},
	}

	height := stackHeight(left)
	if h := stackHeight(right); h > height {
		height = h
	}
	if logoH > height {
		height = logoH
	}

	s.ensure(height)
	top := s.cur.Y

	if th.HeaderBand {
		s.page.add(&RectElement{X: 0, Y: 0, W: s.layout.PageWidth, H: top + height + 4, Fill: th.Primary})
	}
	if s.logo != nil {
		s.page.add(&ImageElement{Name: "logo", X: s.margin, Y: top, W: logoW, H: logoH, Data: s.logo.PNG})
	}
	s.stack(textX, top, textW, left, "L")
	s.stack(s.margin+leftW, top, rightW, right, "R")

	s.cur = s.cur.Advance(height + 4)
	if !th.HeaderBand {
		s.rule(s.cur.Y, th.Rule, th.RuleWidth)
	}
	s.cur = s.cur.Advance(sectionGap)
}

// parties draws "Bill To" and, when a shipping address exists, "Ship To" side by side.
// Absent fields produce no row at all.
func (s *composition) parties() {
	th := s.theme
	r := s.doc.Recipient
	heading := s.font("B", headingSize)
	body := s.font("", bodySize)

	billTo := []textLine{
		{"Bill To", heading, th.Primary, headingHeight},
		{r.Name, s.font("B", bodySize), th.Text, lineHeight},
	}
	if present(r.Company) {
		billTo = append(billTo, textLine{r.Company, body, th.Text, lineHeight})
	}
	if present(r.Email) {
		billTo = append(billTo, textLine{r.Email, body, th.Muted, lineHeight})
	}
	for _, line := range splitLines(r.Address) {
		billTo = append(billTo, textLine{line, body, th.Muted, lineHeight})
	}

	var shipTo []textLine
	if lines := splitLines(r.ShippingAddress); len(lines) > 0 {
		shipTo = append(shipTo, textLine{"Ship To", heading, th.Primary, headingHeight})
		for _, line := range lines {
			shipTo = append(shipTo, textLine{line, body, th.Muted, lineHeight})
		}
	}

	height := stackHeight(billTo)
	if h := stackHeight(shipTo); h > height {
		height = h
	}

	s.ensure(height)
	colW := s.width/2 - 4
	s.stack(s.margin, s.cur.Y, colW, billTo, "L")
	if len(shipTo) > 0 {
		s.stack(s.margin+s.width/2, s.cur.Y, colW, shipTo, "L")
	}
	s.cur = s.cur.Advance(height + sectionGap)
}

func (s *composition) tableHeader() {
	th := s.theme
	f := s.font("B", bodySize)
	y := s.cur.Y
	x := s.margin
	descW := s.width - qtyWidth - rateWidth - amountWidth

	s.page.add(&RectElement{X: x, Y: y, W: s.width, H: tableHead, Fill: th.TableHeaderFill})
	s.text(x, y, descW, tableHead, TableColumns[0], f, th.TableHeaderText, "L")
	s.text(x+descW, y, qtyWidth, tableHead, TableColumns[1], f, th.TableHeaderText, "C")
	s.text(x+descW+qtyWidth, y, rateWidth, tableHead, TableColumns[2], f, th.TableHeaderText, "R")
	s.text(x+descW+qtyWidth+rateWidth, y, amountWidth, tableHead, TableColumns[3], f, th.TableHeaderText, "R")
	s.cur = s.cur.Advance(tableHead)
}

// lineItems draws the item table. Rows have a fixed height; when the next row
// does not fit, the table continues on a new page below a repeated header row.
func (s *composition) lineItems() {
	th := s.theme
	body := s.font("", bodySize)
	x := s.margin
	descW := s.width - qtyWidth - rateWidth - amountWidth

	s.ensure(tableHead + rowHeight)
	s.tableHeader()

	for i, item := range s.totals.Items {
		if !s.cur.Fits(rowHeight) {
			s.newPage()
			s.tableHeader()
		}
		y := s.cur.Y
		if th.StripeFill != nil && i%2 == 1 {
			s.page.add(&RectElement{X: x, Y: y, W: s.width, H: rowHeight, Fill: *th.StripeFill})
		}
		s.text(x, y, descW, rowHeight, item.Description, body, th.Text, "L")
		s.figure(x+descW, y, qtyWidth, rowHeight, money.FormatQuantity(item.Quantity), body, th.Text, "C")
		s.figure(x+descW+qtyWidth, y, rateWidth, rowHeight, s.formatter.Format(item.UnitRate), body, th.Text, "R")
		s.figure(x+descW+qtyWidth+rateWidth, y, amountWidth, rowHeight, s.formatter.Format(item.LineTotal), body, th.Text, "R")
		s.rule(y+rowHeight, th.Grid, 0.1)
		s.cur = s.cur.Advance(rowHeight)
	}
	s.cur = s.cur.Advance(sectionGap)
}

type totalsLine struct {
	label, value string
	emphasis     bool
	fill, color  Color
}

// totalsBlock draws the right-aligned financial summary as one unbroken block
func (s *composition) totalsBlock() {
	th := s.theme
	t := s.totals

	lines := []totalsLine{{label: "Subtotal", value: s.formatter.Format(t.Subtotal)}}
	if t.TaxRatePercent > 0 {
		lines = append(lines, totalsLine{
			label: "Tax (" + money.FormatPercent(t.TaxRatePercent) + ")",
			value: s.formatter.Format(t.TaxAmount),
		})
	}
	emphasized := []totalsLine{{label: "Total", value: s.formatter.Format(t.Total), emphasis: true, fill: th.TotalFill, color: th.TotalText}}
	if money.Round2(t.BalanceDue) != money.Round2(t.Total) {
		emphasized = append(emphasized, totalsLine{label: "Balance Due", value: s.formatter.Format(t.BalanceDue), emphasis: true, fill: th.BalanceFill, color: th.BalanceText})
	}

	height := float64(len(lines))*totalsRow + 3 + float64(len(emphasized))*(emphasisRow+1)
	s.ensure(height)

	bx := s.margin + s.width - totalsWidth
	valueW := totalsWidth - labelWidth
	y := s.cur.Y
	for _, l := range lines {
		s.text(bx, y, labelWidth, totalsRow, l.label, s.font("", bodySize), th.Muted, "L")
		s.figure(bx+labelWidth, y, valueW, totalsRow, l.value, s.font("", bodySize), th.Text, "R")
		y += totalsRow
	}

	y += 1.5
	s.page.add(&LineElement{X1: bx, Y1: y, X2: bx + totalsWidth, Y2: y, Color: th.Rule, Width: th.RuleWidth})
	y += 1.5

	for _, l := range emphasized {
		f := s.font("B", headingSize)
		s.page.add(&RectElement{X: bx, Y: y, W: totalsWidth, H: emphasisRow, Fill: l.fill})
		s.text(bx, y, labelWidth, emphasisRow, l.label, f, l.color, "L")
		s.figure(bx+labelWidth, y, valueW, emphasisRow, l.value, f, l.color, "R")
		y += emphasisRow + 1
	}

	s.cur = s.cur.Advance(height + sectionGap)
}

// payment draws only the payment fields that are present; with none, nothing is drawn
func (s *composition) payment() {
	p := s.doc.Payment
	if p.IsEmpty() {
		return
	}
	th := s.theme

	fields := []struct{ label, value string }{
		{"Bank Name", p.BankName},
		{"Account Number", p.AccountNumber},
		{"Account Holder", p.AccountHolder},
		{"Routing / IFSC Code", p.RoutingCode},
		{"UPI ID", p.UPIID},
	}
	var rows [][2]string
	for _, f := range fields {
		if present(f.value) {
			rows = append(rows, [2]string{f.label, strings.TrimSpace(f.value)})
		}
	}

	s.ensure(headingHeight + float64(len(rows))*lineHeight)
	s.text(s.margin, s.cur.Y, s.width, headingHeight, PaymentHeading, s.font("B", headingSize), th.Primary, "L")
	s.cur = s.cur.Advance(headingHeight)

	for _, row := range rows {
		s.text(s.margin, s.cur.Y, labelWidth, lineHeight, row[0]+":", s.font("B", bodySize), th.Muted, "L")
		s.text(s.margin+labelWidth, s.cur.Y, s.width-labelWidth, lineHeight, row[1], s.font("", bodySize), th.Text, "L")
		s.cur = s.cur.Advance(lineHeight)
	}
	s.cur = s.cur.Advance(sectionGap)
}

// paragraph draws a heading and word-wrapped text that may continue on new pages.
// Empty text draws nothing.
func (s *composition) paragraph(heading, text string) {
	f := s.font("", termsSize)
	lines := s.m.wrap(f, text, s.width-cellPadding)
	if len(lines) == 0 {
		return
	}
	th := s.theme

	s.ensure(headingHeight + lineHeight)
	s.text(s.margin, s.cur.Y, s.width, headingHeight, heading, s.font("B", headingSize), th.Primary, "L")
	s.cur = s.cur.Advance(headingHeight)

	for _, line := range lines {
		if !s.cur.Fits(lineHeight) {
			s.newPage()
		}
		s.text(s.margin, s.cur.Y, s.width, lineHeight, line, f, th.Text, "L")
		s.cur = s.cur.Advance(lineHeight)
	}
	s.cur = s.cur.Advance(sectionGap)
}

// footers stamps every page, at a fixed distance from the bottom margin,
// with its position in the document and the generation time
func (s *composition) footers(now time.Time) {
	th := s.theme
	total := len(s.layout.Pages)
	stamp := "Generated " + now.UTC().Format("2006-01-02 15:04 MST")
	small := s.font("", smallSize)

	for _, page := range s.layout.Pages {
		s.page = page
		y := s.layout.PageHeight - s.margin - footerHeight
		s.rule(y, th.Grid, 0.2)
		if present(s.opts.ThankYou) {
			s.text(s.margin, y+1, s.width, lineHeight, s.opts.ThankYou, s.font("I", termsSize), th.Muted, "C")
		}
		s.text(s.margin, y+6, s.width/2, lineHeight, pageLabel(page.Number, total), small, th.Muted, "L")
		s.text(s.margin+s.width/2, y+6, s.width/2, lineHeight, stamp, small, th.Muted, "R")
	}
}

func pageLabel(n, total int) string {
	return "Page " + strconv.Itoa(n) + " of " + strconv.Itoa(total)
}

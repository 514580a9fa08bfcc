package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/money"
)

// FallbackDescription is used for the synthetic line item when the project has no name
const FallbackDescription = "Professional Services"

// Totals holds the reconciled financial figures of an invoice
type Totals struct {
	Items          []domain.LineItem
	Synthetic      bool // Items holds one fabricated row built from the project amount
	Subtotal       float64
	TaxRatePercent float64
	TaxAmount      float64
	Total          float64
	BalanceDue     float64
}

// LineTotal derives a line amount from a quantity and a unit rate
func LineTotal(quantity, unitRate float64) float64 {
	return money.Round2(quantity * unitRate)
}

// ComputeTotals reconciles subtotal, tax, total and balance due.
// Supplied line totals are trusted; explicitly supplied amounts in fin take
// precedence over derived ones.
func ComputeTotals(items []domain.LineItem, project domain.Project, fin domain.Financials) (*Totals, error) {
	if err := validate(items, project, fin); err != nil {
		return nil, err
	}

	totals := &Totals{TaxRatePercent: fin.TaxRatePercent}

	if len(items) == 0 {
		if project.Amount == nil {
			return nil, &domain.MissingInvoiceDataError{Fields: []string{"lineItems", "project.amount"}}
		}
		description := strings.TrimSpace(project.Name)
		if description == "" {
			description = FallbackDescription
		}
		amount := money.Round2(*project.Amount)
		totals.Items = []domain.LineItem{{
			Description: description,
			Quantity:    1,
			UnitRate:    amount,
			LineTotal:   amount,
		}}
		totals.Synthetic = true
		totals.Subtotal = amount
	} else {
		totals.Items = make([]domain.LineItem, len(items))
		copy(totals.Items, items)

		var subtotal float64
		for _, item := range items {
			subtotal += item.LineTotal
		}
		totals.Subtotal = money.Round2(subtotal)
	}

	if fin.TaxAmount != nil {
		totals.TaxAmount = *fin.TaxAmount
	} else {
		totals.TaxAmount = money.Round2(totals.Subtotal * fin.TaxRatePercent / 100)
	}

	if fin.Total != nil {
		totals.Total = *fin.Total
	} else {
		totals.Total = money.Round2(totals.Subtotal + totals.TaxAmount)
	}

	if fin.BalanceDue != nil {
		totals.BalanceDue = *fin.BalanceDue
	} else {
		totals.BalanceDue = totals.Total
	}

	return totals, nil
}

func validate(items []domain.LineItem, project domain.Project, fin domain.Financials) error {
	for i, item := range items {
		if err := checkAmount(indexed("lineItems", i, "quantity"), item.Quantity); err != nil {
			return err
		}
		if err := checkAmount(indexed("lineItems", i, "unitRate"), item.UnitRate); err != nil {
			return err
		}
		if err := checkAmount(indexed("lineItems", i, "lineTotal"), item.LineTotal); err != nil {
			return err
		}
	}

	if project.Amount != nil {
		if err := checkAmount("project.amount", *project.Amount); err != nil {
			return err
		}
	}
	if err := checkAmount("financials.taxRatePercent", fin.TaxRatePercent); err != nil {
		return err
	}

	overrides := []struct {
		field string
		value *float64
	}{
		{"financials.taxAmount", fin.TaxAmount},
		{"financials.total", fin.Total},
		{"financials.balanceDue", fin.BalanceDue},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		if err := checkAmount(o.field, *o.value); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &domain.InvalidNumericInputError{Field: field, Value: v, Reason: "must be a finite number"}
	case v < 0:
		return &domain.InvalidNumericInputError{Field: field, Value: v, Reason: "must not be negative"}
	}
	return nil
}

func indexed(collection string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", collection, i, field)
}

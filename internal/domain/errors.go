package domain

import (
	"fmt"
	"strings"
)

// MissingInvoiceDataError is returned when fields needed to compose an invoice are absent
type MissingInvoiceDataError struct {
	Fields []string
}

func (e *MissingInvoiceDataError) Error() string {
	return fmt.Sprintf("missing invoice data: %s", strings.Join(e.Fields, ", "))
}

// InvalidNumericInputError is returned for non-finite or negative amounts, rates and quantities
type InvalidNumericInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidNumericInputError) Error() string {
	return fmt.Sprintf("invalid numeric input for %s (%v): %s", e.Field, e.Value, e.Reason)
}

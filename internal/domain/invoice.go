package domain

import "strings"

// InvoiceStatus is the payment state of an invoice
type InvoiceStatus string

const (
	StatusPaid   InvoiceStatus = "PAID"
	StatusUnpaid InvoiceStatus = "UNPAID"
)

// Valid reports whether the status is one of the known values
func (s InvoiceStatus) Valid() bool {
	return s == StatusPaid || s == StatusUnpaid
}

// Issuer is the business sending the invoice
type Issuer struct {
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"` // newline-delimited
	Email        string `json:"email,omitempty"`
	Logo         []byte `json:"-"`
}

// Recipient is the client being billed
type Recipient struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Company         string `json:"company,omitempty"`
	Address         string `json:"address,omitempty"`
	ShippingAddress string `json:"shippingAddress,omitempty"`
}

// Project is the flat-fee basis used when an invoice has no itemized lines
type Project struct {
	Name   string   `json:"name,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

// LineItem represents a single billable row on an invoice
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitRate    float64 `json:"unitRate"`
	LineTotal   float64 `json:"lineTotal"`
}

// Financials holds the tax rate and any explicitly supplied amounts.
// A nil pointer means the value is derived from the line items.
type Financials struct {
	TaxRatePercent float64  `json:"taxRatePercent"`
	TaxAmount      *float64 `json:"taxAmount,omitempty"`
	Total          *float64 `json:"total,omitempty"`
	BalanceDue     *float64 `json:"balanceDue,omitempty"`
}

// PaymentInstructions lists how the recipient can pay. Every field is optional.
type PaymentInstructions struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountHolder string `json:"accountHolder,omitempty"`
	RoutingCode   string `json:"routingCode,omitempty"` // routing number or IFSC code
	UPIID         string `json:"upiId,omitempty"`
}

// IsEmpty reports whether no payment field carries a value
func (p PaymentInstructions) IsEmpty() bool {
	return strings.TrimSpace(p.BankName) == "" &&
		strings.TrimSpace(p.AccountNumber) == "" &&
		strings.TrimSpace(p.AccountHolder) == "" &&
		strings.TrimSpace(p.RoutingCode) == "" &&
		strings.TrimSpace(p.UPIID) == ""
}

// InvoiceDocument is the fully resolved record handed to the composer.
// Dates are already formatted for display.
type InvoiceDocument struct {
	InvoiceNumber string              `json:"invoiceNumber"`
	InvoiceDate   string              `json:"invoiceDate"`
	DueDate       string              `json:"dueDate"`
	Status        InvoiceStatus       `json:"status"`
	Issuer        Issuer              `json:"issuer"`
	Recipient     Recipient           `json:"recipient"`
	Project       Project             `json:"project"`
	LineItems     []LineItem          `json:"lineItems"`
	Financials    Financials          `json:"financials"`
	Payment       PaymentInstructions `json:"payment"`
	Notes         string              `json:"notes,omitempty"`
	Terms         string              `json:"terms,omitempty"`
}

// MissingRequiredFields returns the names of the fields the composer cannot do without
func (d *InvoiceDocument) MissingRequiredFields() []string {
	var missing []string
	if strings.TrimSpace(d.InvoiceNumber) == "" {
		missing = append(missing, "invoiceNumber")
	}
	if strings.TrimSpace(d.InvoiceDate) == "" {
		missing = append(missing, "invoiceDate")
	}
	if strings.TrimSpace(d.DueDate) == "" {
		missing = append(missing, "dueDate")
	}
	if strings.TrimSpace(d.Issuer.BusinessName) == "" {
		missing = append(missing, "issuer.businessName")
	}
	if strings.TrimSpace(d.Recipient.Name) == "" {
		missing = append(missing, "recipient.name")
	}
	if len(d.LineItems) == 0 && d.Project.Amount == nil {
		missing = append(missing, "lineItems", "project.amount")
	}
	return missing
}

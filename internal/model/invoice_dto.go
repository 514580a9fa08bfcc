package model

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ridwanfathin/invoice-composer-service/internal/calculator"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

// LineItemDTO represents a single invoice row for data transfer.
// LineTotal is derived from quantity and unit rate when omitted.
type LineItemDTO struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitRate    float64  `json:"unitRate"`
	LineTotal   *float64 `json:"lineTotal,omitempty"`
}

// IssuerDTO is the business issuing the invoice
type IssuerDTO struct {
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Email        string `json:"email,omitempty"`
	LogoBase64   string `json:"logoBase64,omitempty"`
}

// InvoiceDocumentRequest is the JSON body accepted by the render endpoint
type InvoiceDocumentRequest struct {
	InvoiceNumber string                     `json:"invoiceNumber"`
	InvoiceDate   string                     `json:"invoiceDate"` // Format: YYYY-MM-DD
	DueDate       string                     `json:"dueDate"`     // Format: YYYY-MM-DD
	Status        string                     `json:"status,omitempty"`
	Issuer        IssuerDTO                  `json:"issuer"`
	Recipient     domain.Recipient           `json:"recipient"`
	Project       domain.Project             `json:"project"`
	LineItems     []LineItemDTO              `json:"lineItems"`
	Financials    domain.Financials          `json:"financials"`
	Payment       domain.PaymentInstructions `json:"payment"`
	Notes         string                     `json:"notes,omitempty"`
	Terms         string                     `json:"terms,omitempty"`
}

// ToDomain converts the request into an InvoiceDocument
func (r *InvoiceDocumentRequest) ToDomain() (*domain.InvoiceDocument, error) {
	doc := &domain.InvoiceDocument{
		InvoiceNumber: strings.TrimSpace(r.InvoiceNumber),
		InvoiceDate:   strings.TrimSpace(r.InvoiceDate),
		DueDate:       strings.TrimSpace(r.DueDate),
		Status:        domain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(r.Status))),
		Issuer: domain.Issuer{
			BusinessName: r.Issuer.BusinessName,
			Phone:        r.Issuer.Phone,
			Address:      r.Issuer.Address,
			Email:        r.Issuer.Email,
		},
		Recipient:  r.Recipient,
		Project:    r.Project,
		Financials: r.Financials,
		Payment:    r.Payment,
		Notes:      r.Notes,
		Terms:      r.Terms,
	}

	if logo := strings.TrimSpace(r.Issuer.LogoBase64); logo != "" {
		// accept data URLs as produced by browsers
		if i := strings.Index(logo, ","); strings.HasPrefix(logo, "data:") && i > 0 {
			logo = logo[i+1:]
		}
		data, err := base64.StdEncoding.DecodeString(logo)
		if err != nil {
			return nil, fmt.Errorf("issuer.logoBase64 must be base64 encoded: %w", err)
		}
		doc.Issuer.Logo = data
	}

	doc.LineItems = make([]domain.LineItem, len(r.LineItems))
	for i, item := range r.LineItems {
		lineTotal := calculator.LineTotal(item.Quantity, item.UnitRate)
		if item.LineTotal != nil {
			lineTotal = *item.LineTotal
		}
		doc.LineItems[i] = domain.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitRate:    item.UnitRate,
			LineTotal:   lineTotal,
		}
	}

	return doc, nil
}

// FromDomain fills the request from a document, used by the CLI to print examples
func (r *InvoiceDocumentRequest) FromDomain(doc *domain.InvoiceDocument) {
	*r = InvoiceDocumentRequest{
		InvoiceNumber: doc.InvoiceNumber,
		InvoiceDate:   doc.InvoiceDate,
		DueDate:       doc.DueDate,
		Status:        string(doc.Status),
		Issuer: IssuerDTO{
			BusinessName: doc.Issuer.BusinessName,
			Phone:        doc.Issuer.Phone,
			Address:      doc.Issuer.Address,
			Email:        doc.Issuer.Email,
		},
		Recipient:  doc.Recipient,
		Project:    doc.Project,
		Financials: doc.Financials,
		Payment:    doc.Payment,
		Notes:      doc.Notes,
		Terms:      doc.Terms,
	}
	if len(doc.Issuer.Logo) > 0 {
		r.Issuer.LogoBase64 = base64.StdEncoding.EncodeToString(doc.Issuer.Logo)
	}
	r.LineItems = make([]LineItemDTO, len(doc.LineItems))
	for i, item := range doc.LineItems {
		lineTotal := item.LineTotal
		r.LineItems[i] = LineItemDTO{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitRate:    item.UnitRate,
			LineTotal:   &lineTotal,
		}
	}
}

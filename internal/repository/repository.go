package repository

import (
	"context"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

// InvoiceRepository defines the interface for invoice data storage operations
type InvoiceRepository interface {
	// GetInvoiceDocument assembles the printable record of an invoice owned by userID
	GetInvoiceDocument(ctx context.Context, invoiceID, userID string) (*domain.InvoiceDocument, error)

	// ListPaidInvoices returns every paid invoice of userID
	ListPaidInvoices(ctx context.Context, userID string) ([]domain.PaidInvoice, error)
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/calculator"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

type storedInvoice struct {
	userID string
	doc    domain.InvoiceDocument
	paidAt *time.Time
}

// MemoryRepository implements InvoiceRepository in memory, for development and tests
type MemoryRepository struct {
	mutex    sync.RWMutex
	invoices map[string]storedInvoice
}

// NewMemoryRepository creates an empty in-memory invoice repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		invoices: make(map[string]storedInvoice),
	}
}

// Put stores doc under invoiceID for userID. paidAt marks the invoice as paid.
func (r *MemoryRepository) Put(invoiceID, userID string, doc domain.InvoiceDocument, paidAt *time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc.LineItems = append([]domain.LineItem(nil), doc.LineItems...)
	r.invoices[invoiceID] = storedInvoice{userID: userID, doc: doc, paidAt: paidAt}
}

// GetInvoiceDocument returns a copy of the stored document
func (r *MemoryRepository) GetInvoiceDocument(ctx context.Context, invoiceID, userID string) (*domain.InvoiceDocument, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{
			Op:  "get_invoice_document",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored, ok := r.invoices[invoiceID]
	if !ok || stored.userID != userID {
		return nil, &RepositoryError{
			Op:  "get_invoice_document",
			Err: ErrInvoiceNotFound,
		}
	}

	doc := stored.doc
	doc.LineItems = append([]domain.LineItem(nil), stored.doc.LineItems...)
	return &doc, nil
}

// ListPaidInvoices returns the paid invoices of userID ordered by payment time
func (r *MemoryRepository) ListPaidInvoices(ctx context.Context, userID string) ([]domain.PaidInvoice, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{
			Op:  "list_paid_invoices",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var paid []domain.PaidInvoice
	for id, stored := range r.invoices {
		if stored.userID != userID || stored.paidAt == nil {
			continue
		}
		paid = append(paid, domain.PaidInvoice{
			InvoiceID: id,
			Amount:    documentTotal(&stored.doc),
			PaidAt:    *stored.paidAt,
		})
	}

	sort.Slice(paid, func(i, j int) bool {
		if paid[i].PaidAt.Equal(paid[j].PaidAt) {
			return paid[i].InvoiceID < paid[j].InvoiceID
		}
		return paid[i].PaidAt.Before(paid[j].PaidAt)
	})
	return paid, nil
}

// documentTotal is the invoice total as the composer would print it
func documentTotal(doc *domain.InvoiceDocument) float64 {
	totals, err := calculator.ComputeTotals(doc.LineItems, doc.Project, doc.Financials)
	if err != nil {
		return 0
	}
	return totals.Total
}

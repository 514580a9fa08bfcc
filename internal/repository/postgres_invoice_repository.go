package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL
type PostgresInvoiceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db *pgxpool.Pool) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

const invoiceDocumentQuery = `
	SELECT
		i.invoice_number,
		to_char(i.invoice_date, 'YYYY-MM-DD'),
		to_char(i.due_date, 'YYYY-MM-DD'),
		i.status,
		COALESCE(u.business_name, u.name, ''),
		COALESCE(u.phone, ''),
		COALESCE(u.address, ''),
		COALESCE(u.email, ''),
		u.logo,
		COALESCE(c.name, ''),
		COALESCE(c.email, ''),
		COALESCE(c.company, ''),
		COALESCE(c.address, ''),
		COALESCE(c.shipping_address, ''),
		COALESCE(p.name, ''),
		p.amount,
		COALESCE(i.tax_rate, 0),
		i.tax_amount,
		i.total,
		i.balance_due,
		COALESCE(u.bank_name, ''),
		COALESCE(u.account_number, ''),
		COALESCE(u.account_holder, ''),
		COALESCE(u.routing_code, ''),
		COALESCE(u.upi_id, ''),
		COALESCE(i.notes, ''),
		COALESCE(i.terms, '')
	FROM invoices i
	JOIN users u ON u.id = i.user_id
	LEFT JOIN clients c ON c.id = i.client_id
	LEFT JOIN projects p ON p.id = i.project_id
	WHERE i.id = $1 AND i.user_id = $2
`

// GetInvoiceDocument joins the invoice with its issuer, client, project and items
func (r *PostgresInvoiceRepository) GetInvoiceDocument(ctx context.Context, invoiceID, userID string) (*domain.InvoiceDocument, error) {
	// ids are UUID columns; anything else cannot match a row
	if !isUUID(invoiceID) || !isUUID(userID) {
		return nil, &RepositoryError{Op: "get_invoice_document", Err: ErrInvoiceNotFound}
	}

	var doc domain.InvoiceDocument
	var status string
	err := r.db.QueryRow(ctx, invoiceDocumentQuery, invoiceID, userID).Scan(
		&doc.InvoiceNumber, &doc.InvoiceDate, &doc.DueDate, &status,
		&doc.Issuer.BusinessName, &doc.Issuer.Phone, &doc.Issuer.Address, &doc.Issuer.Email, &doc.Issuer.Logo,
		&doc.Recipient.Name, &doc.Recipient.Email, &doc.Recipient.Company, &doc.Recipient.Address, &doc.Recipient.ShippingAddress,
		&doc.Project.Name, &doc.Project.Amount,
		&doc.Financials.TaxRatePercent, &doc.Financials.TaxAmount, &doc.Financials.Total, &doc.Financials.BalanceDue,
		&doc.Payment.BankName, &doc.Payment.AccountNumber, &doc.Payment.AccountHolder, &doc.Payment.RoutingCode, &doc.Payment.UPIID,
		&doc.Notes, &doc.Terms,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &RepositoryError{Op: "get_invoice_document", Err: ErrInvoiceNotFound}
		}
		return nil, &RepositoryError{Op: "get_invoice_document", Err: fmt.Errorf("failed to get invoice: %w", err)}
	}
	doc.Status = domain.InvoiceStatus(status)

	rows, err := r.db.Query(ctx, `
		SELECT description, quantity, unit_rate, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position, id
	`, invoiceID)
	if err != nil {
		return nil, &RepositoryError{Op: "get_invoice_document", Err: fmt.Errorf("failed to query invoice items: %w", err)}
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.Description, &item.Quantity, &item.UnitRate, &item.LineTotal); err != nil {
			return nil, &RepositoryError{Op: "get_invoice_document", Err: fmt.Errorf("failed to scan invoice item: %w", err)}
		}
		doc.LineItems = append(doc.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &RepositoryError{Op: "get_invoice_document", Err: fmt.Errorf("error iterating invoice items: %w", err)}
	}

	return &doc, nil
}

// ListPaidInvoices returns paid invoices with their effective totals. Totals
// that were not stored explicitly are derived the same way the composer derives them.
func (r *PostgresInvoiceRepository) ListPaidInvoices(ctx context.Context, userID string) ([]domain.PaidInvoice, error) {
	if !isUUID(userID) {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		WITH sums AS (
			SELECT invoice_id, SUM(line_total) AS subtotal
			FROM invoice_items
			GROUP BY invoice_id
		), base AS (
			SELECT
				i.id,
				i.paid_at,
				i.total,
				i.tax_amount,
				COALESCE(i.tax_rate, 0) AS tax_rate,
				COALESCE(s.subtotal, p.amount, 0) AS subtotal
			FROM invoices i
			LEFT JOIN sums s ON s.invoice_id = i.id
			LEFT JOIN projects p ON p.id = i.project_id
			WHERE i.user_id = $1 AND i.status = 'PAID' AND i.paid_at IS NOT NULL
		)
		SELECT
			id::text,
			COALESCE(total, ROUND(subtotal, 2) + COALESCE(tax_amount, ROUND(subtotal * tax_rate / 100, 2)))::float8,
			paid_at
		FROM base
		ORDER BY paid_at, id
	`, userID)
	if err != nil {
		return nil, &RepositoryError{Op: "list_paid_invoices", Err: fmt.Errorf("failed to query paid invoices: %w", err)}
	}
	defer rows.Close()

	var paid []domain.PaidInvoice
	for rows.Next() {
		var inv domain.PaidInvoice
		if err := rows.Scan(&inv.InvoiceID, &inv.Amount, &inv.PaidAt); err != nil {
			return nil, &RepositoryError{Op: "list_paid_invoices", Err: fmt.Errorf("failed to scan paid invoice: %w", err)}
		}
		paid = append(paid, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, &RepositoryError{Op: "list_paid_invoices", Err: fmt.Errorf("error iterating paid invoices: %w", err)}
	}

	return paid, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

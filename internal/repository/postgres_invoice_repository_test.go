package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-composer-service/internal/calculator"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

func TestPostgresRepositoryMalformedIDs(t *testing.T) {
	// malformed ids never reach the pool
	repo := NewPostgresInvoiceRepository(nil)
	ctx := context.Background()
	valid := "0b6f1c2e-4a4b-4d8e-9f3a-2f6a5b7c8d9e"

	for _, ids := range [][2]string{{"not-a-uuid", valid}, {valid, "user-1"}, {"", ""}} {
		doc, err := repo.GetInvoiceDocument(ctx, ids[0], ids[1])
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, ErrInvoiceNotFound), "ids %v", ids)

		var repoErr *RepositoryError
		require.True(t, errors.As(err, &repoErr))
		assert.Equal(t, "get_invoice_document", repoErr.Op)
	}

	paid, err := repo.ListPaidInvoices(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, paid)
}

// newPostgresTestRepository migrates a throwaway schema on POSTGRES_DB_URL
func newPostgresTestRepository(t *testing.T) (*PostgresInvoiceRepository, *pgxpool.Pool) {
	t.Helper()
	dbURL := os.Getenv("POSTGRES_DB_URL")
	if dbURL == "" {
		t.Skip("POSTGRES_DB_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("invoice_repo_test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(admin.Close)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	config, err := pgxpool.ParseConfig(dbURL)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migration, err := os.ReadFile("../../scripts/migrations/001_create_initial_schema.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err)

	return NewPostgresInvoiceRepository(pool), pool
}

func insertID(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) string {
	t.Helper()
	var id string
	require.NoError(t, pool.QueryRow(context.Background(), sql+" RETURNING id::text", args...).Scan(&id))
	return id
}

func TestPostgresRepositoryIntegration(t *testing.T) {
	repo, pool := newPostgresTestRepository(t)
	ctx := context.Background()

	userID := insertID(t, pool, `
		INSERT INTO users (email, name, business_name, phone, address, bank_name, account_number, upi_id)
		VALUES ('owner@acme.test', 'Owner', 'Acme Studio', '+1 555 0100', '1 Market Street', 'First Bank', '123456789', 'acme@upi')`)
	strangerID := insertID(t, pool, `INSERT INTO users (email, name) VALUES ('other@acme.test', 'Other')`)
	clientID := insertID(t, pool, `
		INSERT INTO clients (user_id, name, email, company, address, shipping_address)
		VALUES ($1, 'Jane Client', 'jane@client.test', 'Client Co', '22 Side Road', '9 Dock Lane')`, userID)
	projectID := insertID(t, pool, `
		INSERT INTO projects (user_id, client_id, name, amount) VALUES ($1, $2, 'Website', 900)`, userID, clientID)

	itemized := insertID(t, pool, `
		INSERT INTO invoices (user_id, client_id, invoice_number, invoice_date, due_date, status, tax_rate, notes, paid_at)
		VALUES ($1, $2, 'INV-1', '2024-03-01', '2024-03-31', 'PAID', 10, 'Thanks', '2024-03-10T12:00:00Z')`, userID, clientID)
	_, err := pool.Exec(ctx, `
		INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_rate, line_total)
		VALUES ($1, 2, 'Build', 4, 125, 500), ($1, 1, 'Design', 10, 50, 500)`, itemized)
	require.NoError(t, err)

	fromProject := insertID(t, pool, `
		INSERT INTO invoices (user_id, client_id, project_id, invoice_number, invoice_date, due_date, status, tax_rate, paid_at)
		VALUES ($1, $2, $3, 'INV-2', '2024-01-15', '2024-02-15', 'PAID', 5, '2024-02-01T09:00:00Z')`, userID, clientID, projectID)

	stored := insertID(t, pool, `
		INSERT INTO invoices (user_id, invoice_number, invoice_date, due_date, status, total, paid_at)
		VALUES ($1, 'INV-3', '2024-03-20', '2024-04-20', 'PAID', 333.33, '2024-04-01T08:00:00Z')`, userID)
	_, err = pool.Exec(ctx, `
		INSERT INTO invoice_items (invoice_id, description, quantity, unit_rate, line_total)
		VALUES ($1, 'Retainer', 1, 300, 300)`, stored)
	require.NoError(t, err)

	insertID(t, pool, `
		INSERT INTO invoices (user_id, invoice_number, invoice_date, due_date, total)
		VALUES ($1, 'INV-4', '2024-04-01', '2024-04-30', 50)`, userID)

	t.Run("document join", func(t *testing.T) {
		doc, err := repo.GetInvoiceDocument(ctx, itemized, userID)
		require.NoError(t, err)

		assert.Equal(t, "INV-1", doc.InvoiceNumber)
		assert.Equal(t, "2024-03-01", doc.InvoiceDate)
		assert.Equal(t, "2024-03-31", doc.DueDate)
		assert.Equal(t, domain.StatusPaid, doc.Status)
		assert.Equal(t, "Acme Studio", doc.Issuer.BusinessName)
		assert.Equal(t, "owner@acme.test", doc.Issuer.Email)
		assert.Nil(t, doc.Issuer.Logo)
		assert.Equal(t, "Jane Client", doc.Recipient.Name)
		assert.Equal(t, "9 Dock Lane", doc.Recipient.ShippingAddress)
		assert.Equal(t, "acme@upi", doc.Payment.UPIID)
		assert.Empty(t, doc.Payment.AccountHolder)
		assert.Equal(t, 10.0, doc.Financials.TaxRatePercent)
		assert.Nil(t, doc.Financials.Total)
		assert.Nil(t, doc.Project.Amount)
		assert.Equal(t, "Thanks", doc.Notes)

		require.Len(t, doc.LineItems, 2)
		assert.Equal(t, "Design", doc.LineItems[0].Description)
		assert.Equal(t, domain.LineItem{Description: "Build", Quantity: 4, UnitRate: 125, LineTotal: 500}, doc.LineItems[1])
	})

	t.Run("project without items", func(t *testing.T) {
		doc, err := repo.GetInvoiceDocument(ctx, fromProject, userID)
		require.NoError(t, err)
		assert.Empty(t, doc.LineItems)
		assert.Equal(t, "Website", doc.Project.Name)
		require.NotNil(t, doc.Project.Amount)
		assert.Equal(t, 900.0, *doc.Project.Amount)
	})

	t.Run("other owner", func(t *testing.T) {
		_, err := repo.GetInvoiceDocument(ctx, itemized, strangerID)
		assert.True(t, errors.Is(err, ErrInvoiceNotFound))
	})

	t.Run("paid totals match the calculator", func(t *testing.T) {
		paid, err := repo.ListPaidInvoices(ctx, userID)
		require.NoError(t, err)
		require.Len(t, paid, 3)

		assert.Equal(t, []string{fromProject, itemized, stored}, []string{paid[0].InvoiceID, paid[1].InvoiceID, paid[2].InvoiceID})
		assert.True(t, paid[0].PaidAt.Equal(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)))

		want := map[string]float64{fromProject: 945, itemized: 1100, stored: 333.33}
		for _, p := range paid {
			doc, err := repo.GetInvoiceDocument(ctx, p.InvoiceID, userID)
			require.NoError(t, err)
			totals, err := calculator.ComputeTotals(doc.LineItems, doc.Project, doc.Financials)
			require.NoError(t, err)

			assert.InDelta(t, totals.Total, p.Amount, 0.001, doc.InvoiceNumber)
			assert.InDelta(t, want[p.InvoiceID], p.Amount, 0.001, doc.InvoiceNumber)
		}

		none, err := repo.ListPaidInvoices(ctx, strangerID)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

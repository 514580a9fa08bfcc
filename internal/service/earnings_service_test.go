package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/earnings"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
)

type failingRepository struct {
	repository.InvoiceRepository
}

func (failingRepository) ListPaidInvoices(context.Context, string) ([]domain.PaidInvoice, error) {
	return nil, &repository.RepositoryError{Op: "list_paid_invoices", Err: errors.New("connection refused")}
}

func TestEarningsSummary(t *testing.T) {
	repo := repository.NewMemoryRepository()
	paidAt := fixedNow.Add(-time.Hour)
	repo.Put("inv-1", "user-1", testDocument(), &paidAt)

	svc := NewEarningsService(repo, func() time.Time { return fixedNow })
	summary, err := svc.Summary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Today.Current)
	assert.Equal(t, 100.0, summary.Today.GrowthPercent)
	assert.Equal(t, 1, summary.PaidCount)
}

func TestEarningsTrends(t *testing.T) {
	repo := repository.NewMemoryRepository()
	paidAt := fixedNow.AddDate(0, -1, 0)
	repo.Put("inv-1", "user-1", testDocument(), &paidAt)

	svc := NewEarningsService(repo, func() time.Time { return fixedNow })
	trend, err := svc.Trends(context.Background(), "user-1", "", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, domain.PeriodMonthly, trend.Period)
	require.Len(t, trend.Buckets, 12)
	assert.Equal(t, "2024-03", trend.Buckets[10].Label)
	assert.Equal(t, 100.0, trend.Buckets[10].Amount)
	assert.Equal(t, "2024-04", trend.Buckets[11].Label)
}

func TestEarningsErrors(t *testing.T) {
	svc := NewEarningsService(repository.NewMemoryRepository(), nil)
	_, err := svc.Trends(context.Background(), "user-1", "hourly", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, earnings.ErrInvalidPeriod)

	failing := NewEarningsService(failingRepository{}, nil)
	_, err = failing.Summary(context.Background(), "user-1")
	var repoErr *repository.RepositoryError
	assert.True(t, errors.As(err, &repoErr))
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/earnings"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
)

// EarningsService defines the interface for earnings reporting
type EarningsService interface {
	Summary(ctx context.Context, userID string) (*domain.EarningsSummary, error)
	Trends(ctx context.Context, userID string, period domain.Period, from, to time.Time) (*domain.EarningsTrend, error)
}

// EarningsServiceImpl implements the EarningsService interface
type EarningsServiceImpl struct {
	repository repository.InvoiceRepository
	clock      func() time.Time
}

// NewEarningsService creates a new EarningsService
func NewEarningsService(repo repository.InvoiceRepository, clock func() time.Time) *EarningsServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &EarningsServiceImpl{repository: repo, clock: clock}
}

// Summary compares the current day, week, month and year with the previous ones
func (s *EarningsServiceImpl) Summary(ctx context.Context, userID string) (*domain.EarningsSummary, error) {
	paid, err := s.repository.ListPaidInvoices(ctx, userID)
	if err != nil {
		return nil, &ServiceError{
			Op:  "list_paid_invoices",
			Err: err,
		}
	}

	summary := earnings.Summarize(paid, s.clock().UTC())
	return &summary, nil
}

// Trends buckets earnings by period. A zero from or to defaults to a window
// ending today sized for the period.
func (s *EarningsServiceImpl) Trends(ctx context.Context, userID string, period domain.Period, from, to time.Time) (*domain.EarningsTrend, error) {
	if period == "" {
		period = domain.PeriodMonthly
	}
	if !earnings.ValidPeriod(period) {
		return nil, &ServiceError{
			Op:  "earnings_trend",
			Err: fmt.Errorf("%w %q", earnings.ErrInvalidPeriod, period),
		}
	}

	if to.IsZero() {
		to = s.clock().UTC()
	}
	if from.IsZero() {
		from = defaultTrendStart(to, period)
	}

	paid, err := s.repository.ListPaidInvoices(ctx, userID)
	if err != nil {
		return nil, &ServiceError{
			Op:  "list_paid_invoices",
			Err: err,
		}
	}

	buckets, err := earnings.Trend(paid, period, from, to)
	if err != nil {
		return nil, &ServiceError{
			Op:  "earnings_trend",
			Err: err,
		}
	}
	return &domain.EarningsTrend{Period: period, Buckets: buckets}, nil
}

func defaultTrendStart(to time.Time, period domain.Period) time.Time {
	switch period {
	case domain.PeriodDaily:
		return to.AddDate(0, 0, -29)
	case domain.PeriodWeekly:
		return to.AddDate(0, 0, -7*11)
	case domain.PeriodYearly:
		return to.AddDate(-4, 0, 0)
	default:
		return to.AddDate(0, -11, 0)
	}
}

package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func paid(amount float64, at time.Time) domain.PaidInvoice {
	return domain.PaidInvoice{InvoiceID: at.Format(time.RFC3339), Amount: amount, PaidAt: at}
}

func TestStartOf(t *testing.T) {
	// Wednesday
	ts := day(2024, time.March, 13, 15)
	assert.Equal(t, day(2024, time.March, 13, 0), StartOf(ts, domain.PeriodDaily))
	assert.Equal(t, day(2024, time.March, 11, 0), StartOf(ts, domain.PeriodWeekly))
	assert.Equal(t, day(2024, time.March, 1, 0), StartOf(ts, domain.PeriodMonthly))
	assert.Equal(t, day(2024, time.January, 1, 0), StartOf(ts, domain.PeriodYearly))

	// Sunday belongs to the week that started on Monday
	assert.Equal(t, day(2024, time.March, 11, 0), StartOf(day(2024, time.March, 17, 9), domain.PeriodWeekly))
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"increase", 150, 100, 50},
		{"decrease", 50, 200, -75},
		{"from zero", 10, 0, 100},
		{"nothing", 0, 0, 0},
		{"rounded", 100, 300, -66.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Growth(tt.current, tt.previous))
		})
	}
}

func TestSummarize(t *testing.T) {
	now := day(2024, time.March, 13, 12)
	invoices := []domain.PaidInvoice{
		paid(100, day(2024, time.March, 13, 9)),    // today
		paid(50, day(2024, time.March, 12, 9)),     // yesterday, same week
		paid(200, day(2024, time.March, 5, 9)),     // last week
		paid(300, day(2024, time.February, 20, 9)), // last month
		paid(1000, day(2023, time.June, 1, 9)),     // last year
		{InvoiceID: "unpaid", Amount: 999},
	}

	s := Summarize(invoices, now)
	assert.Equal(t, domain.PeriodComparison{Current: 100, Previous: 50, GrowthPercent: 100}, s.Today)
	assert.Equal(t, 150.0, s.ThisWeek.Current)
	assert.Equal(t, 200.0, s.ThisWeek.Previous)
	assert.Equal(t, -25.0, s.ThisWeek.GrowthPercent)
	assert.Equal(t, 350.0, s.ThisMonth.Current)
	assert.Equal(t, 300.0, s.ThisMonth.Previous)
	assert.Equal(t, 650.0, s.ThisYear.Current)
	assert.Equal(t, 1000.0, s.ThisYear.Previous)
	assert.Equal(t, 1650.0, s.TotalEarned)
	assert.Equal(t, 5, s.PaidCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, day(2024, time.January, 1, 0))
	assert.Equal(t, domain.EarningsSummary{}, s)
}

func TestTrendMonthlyIncludesEmptyBuckets(t *testing.T) {
	invoices := []domain.PaidInvoice{
		paid(100, day(2024, time.January, 10, 9)),
		paid(25.5, day(2024, time.January, 31, 23)),
		paid(40, day(2024, time.March, 1, 0)),
		paid(70, day(2024, time.May, 1, 0)), // outside range
	}

	buckets, err := Trend(invoices, domain.PeriodMonthly, day(2024, time.January, 15, 0), day(2024, time.March, 2, 0))
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, "2024-01", buckets[0].Label)
	assert.Equal(t, 125.5, buckets[0].Amount)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, "2024-02", buckets[1].Label)
	assert.Zero(t, buckets[1].Amount)
	assert.Equal(t, 40.0, buckets[2].Amount)
}

func TestTrendWeeklyLabels(t *testing.T) {
	buckets, err := Trend(nil, domain.PeriodWeekly, day(2024, time.December, 30, 0), day(2025, time.January, 8, 0))
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-W01", buckets[0].Label)
	assert.Equal(t, "2025-W02", buckets[1].Label)
}

func TestTrendErrors(t *testing.T) {
	_, err := Trend(nil, domain.Period("hourly"), day(2024, time.January, 1, 0), day(2024, time.January, 2, 0))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Trend(nil, domain.PeriodDaily, day(2024, time.January, 2, 0), day(2024, time.January, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Trend(nil, domain.PeriodDaily, day(2000, time.January, 1, 0), day(2024, time.January, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// Package earnings aggregates paid invoices into dashboard figures and trends.
package earnings

import (
	"errors"
	"fmt"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/money"
)

// MaxBuckets bounds the length of a trend
const MaxBuckets = 1000

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidRange  = errors.New("invalid date range")
)

type window struct {
	start, end time.Time // [start, end)
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// StartOf truncates t to the beginning of its period in t's location.
// Weeks start on Monday.
func StartOf(t time.Time, p domain.Period) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch p {
	case domain.PeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case domain.PeriodMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case domain.PeriodYearly:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// advance moves a period start n periods forward (or back when n < 0)
func advance(t time.Time, p domain.Period, n int) time.Time {
	switch p {
	case domain.PeriodWeekly:
		return t.AddDate(0, 0, 7*n)
	case domain.PeriodMonthly:
		return t.AddDate(0, n, 0)
	case domain.PeriodYearly:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// ValidPeriod reports whether p is a known bucket size
func ValidPeriod(p domain.Period) bool {
	switch p {
	case domain.PeriodDaily, domain.PeriodWeekly, domain.PeriodMonthly, domain.PeriodYearly:
		return true
	}
	return false
}

// Growth returns the percentage change from previous to current.
// Growth from nothing is 100% when anything was earned, else 0.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return money.Round2((current - previous) / previous * 100)
}

func sum(invoices []domain.PaidInvoice, w window) float64 {
	var total float64
	for _, inv := range invoices {
		if !inv.PaidAt.IsZero() && w.contains(inv.PaidAt.In(w.start.Location())) {
			total += inv.Amount
		}
	}
	return money.Round2(total)
}

func compare(invoices []domain.PaidInvoice, now time.Time, p domain.Period) domain.PeriodComparison {
	start := StartOf(now, p)
	current := sum(invoices, window{start, advance(start, p, 1)})
	previous := sum(invoices, window{advance(start, p, -1), start})
	return domain.PeriodComparison{
		Current:       current,
		Previous:      previous,
		GrowthPercent: Growth(current, previous),
	}
}

// Summarize computes the earnings of the periods containing now and the periods before them
func Summarize(invoices []domain.PaidInvoice, now time.Time) domain.EarningsSummary {
	summary := domain.EarningsSummary{
		Today:     compare(invoices, now, domain.PeriodDaily),
		ThisWeek:  compare(invoices, now, domain.PeriodWeekly),
		ThisMonth: compare(invoices, now, domain.PeriodMonthly),
		ThisYear:  compare(invoices, now, domain.PeriodYearly),
	}

	var total float64
	for _, inv := range invoices {
		if inv.PaidAt.IsZero() {
			continue
		}
		total += inv.Amount
		summary.PaidCount++
	}
	summary.TotalEarned = money.Round2(total)
	return summary
}

// Trend buckets invoices paid between from and to (both inclusive, by period)
// into contiguous periods. Periods without payments are present with zero amounts.
func Trend(invoices []domain.PaidInvoice, period domain.Period, from, to time.Time) ([]domain.EarningsBucket, error) {
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w %q: expected daily, weekly, monthly or yearly", ErrInvalidPeriod, period)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	var buckets []domain.EarningsBucket
	index := make(map[int64]int)
	last := StartOf(to, period)
	for start := StartOf(from, period); !start.After(last); start = advance(start, period, 1) {
		if len(buckets) == MaxBuckets {
			return nil, fmt.Errorf("%w: range spans more than %d %s buckets", ErrInvalidRange, MaxBuckets, period)
		}
		index[start.Unix()] = len(buckets)
		buckets = append(buckets, domain.EarningsBucket{Label: label(start, period), Start: start})
	}

	loc := from.Location()
	for _, inv := range invoices {
		if inv.PaidAt.IsZero() {
			continue
		}
		i, ok := index[StartOf(inv.PaidAt.In(loc), period).Unix()]
		if !ok {
			continue
		}
		buckets[i].Amount += inv.Amount
		buckets[i].Count++
	}
	for i := range buckets {
		buckets[i].Amount = money.Round2(buckets[i].Amount)
	}
	return buckets, nil
}

func label(start time.Time, p domain.Period) string {
	switch p {
	case domain.PeriodWeekly:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case domain.PeriodMonthly:
		return start.Format("2006-01")
	case domain.PeriodYearly:
		return start.Format("2006")
	default:
		return start.Format(time.DateOnly)
	}
}

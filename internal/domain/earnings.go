package domain

import "time"

// PaidInvoice is the slice of a stored invoice that earnings aggregation needs
type PaidInvoice struct {
	InvoiceID string    `json:"invoiceId"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paidAt"`
}

// Period is the bucket size used for earnings trends
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// PeriodComparison compares the current period with the one before it
type PeriodComparison struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	GrowthPercent float64 `json:"growthPercent"`
}

// EarningsSummary represents the earnings dashboard figures
type EarningsSummary struct {
	Today       PeriodComparison `json:"today"`
	ThisWeek    PeriodComparison `json:"thisWeek"`
	ThisMonth   PeriodComparison `json:"thisMonth"`
	ThisYear    PeriodComparison `json:"thisYear"`
	TotalEarned float64          `json:"totalEarned"`
	PaidCount   int              `json:"paidCount"`
}

// EarningsBucket is one data point in an earnings trend
type EarningsBucket struct {
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	Amount float64   `json:"amount"`
	Count  int       `json:"count"`
}

// EarningsTrend represents earnings over time
type EarningsTrend struct {
	Period  Period           `json:"period"`
	Buckets []EarningsBucket `json:"buckets"`
}

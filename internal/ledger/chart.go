package ledger

import (
	"fmt"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

// Period selects the report window granularity.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

// Bucket is one aggregated column of a period chart.
type Bucket struct {
	Label   string
	Income  int64
	Expense int64
}

// Chart is an aggregated income/expense breakdown over one calendar
// period. Start is inclusive, End exclusive.
type Chart struct {
	Period  Period
	Title   string
	Start   time.Time
	End     time.Time
	Buckets []Bucket
	Income  int64
	Expense int64
}

// Net returns the chart's income minus expense.
func (c *Chart) Net() int64 {
	return c.Income - c.Expense
}

// weekdayLabels are the Vietnamese weekday names for a Monday-start week.
var weekdayLabels = []string{"T2", "T3", "T4", "T5", "T6", "T7", "CN"}

// dayLabels split a day into six four-hour columns.
var dayLabels = []string{"0-4h", "4-8h", "8-12h", "12-16h", "16-20h", "20-24h"}

// PeriodRange resolves the [start, end) window for a period. offset shifts
// whole periods relative to now: 0 is the current period, -1 the previous
// one. Weeks start on Monday.
func PeriodRange(p Period, offset int, now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
		start := monday.AddDate(0, 0, 7*offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := first.AddDate(0, offset, 0)
		return start, start.AddDate(0, 1, 0)
	default:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start := day.AddDate(0, 0, offset)
		return start, start.AddDate(0, 0, 1)
	}
}

// BuildChart aggregates the entries that fall inside the period window
// into labeled income/expense buckets:
//
//	day:   six 4-hour columns
//	week:  seven weekday columns, Monday first
//	month: five week-of-month columns, days 1-7 in the first
//
// Transfers move money between wallets without changing the total held,
// so they are excluded from income/expense aggregation.
func BuildChart(entries []Entry, p Period, offset int, now time.Time) *Chart {
	start, end := PeriodRange(p, offset, now)
	c := &Chart{Period: p, Start: start, End: end}

	switch p {
	case PeriodWeek:
		c.Title = fmt.Sprintf("Tuần %s - %s", start.Format("02/01"), end.AddDate(0, 0, -1).Format("02/01"))
		c.Buckets = makeBuckets(weekdayLabels)
	case PeriodMonth:
		c.Title = fmt.Sprintf("Tháng %d/%d", start.Month(), start.Year())
		c.Buckets = makeBuckets([]string{"W1", "W2", "W3", "W4", "W5"})
	default:
		c.Title = fmt.Sprintf("Ngày %s", start.Format("02/01/2006"))
		c.Buckets = makeBuckets(dayLabels)
	}

	for _, e := range Filter(entries, start, end) {
		tx := e.Tx
		if tx.Type == models.TxTransfer {
			continue
		}
		i := bucketIndex(p, e.EffectiveAt)
		if i < 0 || i >= len(c.Buckets) {
			continue
		}
		switch tx.Type {
		case models.TxIncome:
			c.Buckets[i].Income += tx.Amount
			c.Income += tx.Amount
		case models.TxExpense:
			c.Buckets[i].Expense += tx.Amount
			c.Expense += tx.Amount
		}
	}
	return c
}

func makeBuckets(labels []string) []Bucket {
	buckets := make([]Bucket, len(labels))
	for i, l := range labels {
		buckets[i].Label = l
	}
	return buckets
}

func bucketIndex(p Period, at time.Time) int {
	switch p {
	case PeriodWeek:
		weekday := int(at.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return weekday - 1
	case PeriodMonth:
		return (at.Day() - 1) / 7
	default:
		return at.Hour() / 4
	}
}

package domain

import (
	"fmt"
	"time"
)

// Period is a calendar year-month.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Compare(o Period) int {
	switch {
	case p.Before(o):
		return -1
	case o.Before(p):
		return 1
	default:
		return 0
	}
}

// MonthlyBucket is an aggregation unit. Responsible is empty for flat buckets.
type MonthlyBucket struct {
	Period      Period
	Responsible string
	Count       int
}

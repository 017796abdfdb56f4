package domain

import "time"

type SummaryMode string

const (
	SummaryByPerson SummaryMode = "by_person"
	SummaryFlat     SummaryMode = "flat"
)

// PersonCount is one slice of the distribution-by-person view.
type PersonCount struct {
	Name  string
	Count int
}

// PersonSeries holds one count per period of MonthlySeries.Periods.
type PersonSeries struct {
	Name   string
	Counts []int
}

// MonthlySeries is the densified cross-tabulation aligned on a shared period axis.
type MonthlySeries struct {
	Periods []Period
	Series  []PersonSeries
}

// Reconciliation explains the gap between Total and the time-bucketed shapes.
type Reconciliation struct {
	Untimed    int // filtered entries without published_at
	Unresolved int // filtered entries without a resolvable responsible
}

type DiagnosticKind string

const (
	DiagnosticMissingTimeField DiagnosticKind = "missing_time_field"
	DiagnosticMissingDimension DiagnosticKind = "missing_dimension"
)

// Diagnostic aggregates every occurrence of one per-row anomaly in a render.
type Diagnostic struct {
	Kind    DiagnosticKind
	Count   int
	Message string
	Refs    []string // entry ids or responsible ids involved
}

// ActivityReport carries every view shape for one category.
type ActivityReport struct {
	Category       Category
	Total          int
	Distribution   []PersonCount
	MonthlyTotals  []MonthlyBucket
	MonthlySeries  MonthlySeries
	Summary        []MonthlyBucket
	SummaryMode    SummaryMode
	Reconciliation Reconciliation
	Diagnostics    []Diagnostic
	// Entries is only filled when the detail listing is requested.
	Entries []EntryRow
}

// EntryRow is one filtered entry of the detail listing. Period is nil for untimed entries.
type EntryRow struct {
	ID          string
	Responsible string
	Period      *Period
}

// OfficeReport is one render of every requested category of an office.
type OfficeReport struct {
	RenderID    string
	Office      Office
	Period      TimePeriod
	GeneratedAt time.Time
	Categories  []ActivityReport
}

// TimePeriod represents the date range the report was filtered on
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

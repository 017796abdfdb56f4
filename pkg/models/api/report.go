package api

import "time"

// Office.AllowList is null when the office reports on everyone.
type Office struct {
	Code       string   `json:"code"`
	Title      string   `json:"title"`
	AllowList  []string `json:"allow_list"`
	Categories []string `json:"categories"`
}

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

type PersonCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthlyBucket struct {
	Period      string `json:"period"`
	Responsible string `json:"responsible,omitempty"`
	Count       int    `json:"count"`
}

type PersonSeries struct {
	Name   string `json:"name"`
	Counts []int  `json:"counts"`
}

type MonthlySeries struct {
	Periods []string       `json:"periods"`
	Series  []PersonSeries `json:"series"`
}

type Reconciliation struct {
	Untimed    int `json:"untimed"`
	Unresolved int `json:"unresolved"`
}

type Diagnostic struct {
	Kind    string   `json:"kind"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
	Refs    []string `json:"refs,omitempty"`
}

type ActivityReport struct {
	Category       string          `json:"category"`
	Total          int             `json:"total"`
	Distribution   []PersonCount   `json:"distribution"`
	MonthlyTotals  []MonthlyBucket `json:"monthly_totals"`
	MonthlySeries  MonthlySeries   `json:"monthly_series"`
	Summary        []MonthlyBucket `json:"summary"`
	SummaryMode    string          `json:"summary_mode"`
	Reconciliation Reconciliation  `json:"reconciliation"`
	Diagnostics    []Diagnostic    `json:"diagnostics,omitempty"`
	Entries        []EntryRow      `json:"entries,omitempty"`
}

// EntryRow.Period is empty for entries without a publication date.
type EntryRow struct {
	ID          string `json:"id"`
	Responsible string `json:"responsible"`
	Period      string `json:"period"`
}

type OfficeReport struct {
	RenderID    string           `json:"render_id"`
	Office      Office           `json:"office"`
	Period      TimePeriod       `json:"period"`
	GeneratedAt time.Time        `json:"generated_at"`
	Categories  []ActivityReport `json:"categories"`
}

type Error struct {
	Error string `json:"error"`
}

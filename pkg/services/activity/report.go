package activity

import (
	"fmt"
	"sort"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

type Options struct {
	SummaryMode domain.SummaryMode
	// ContinuousAxis aligns the series on every month between the first and last observed
	// period instead of only the observed ones.
	ContinuousAxis bool
	// IncludeEntries adds the per-entry (responsible, period) listing.
	IncludeEntries bool
}

// Render runs the filter pipeline and assembles every view for one category.
// It is the single code path shared by all categories.
func Render(category domain.Category, entries []domain.Entry, filters Filters, opts Options) domain.ActivityReport {
	filtered := ApplyFilters(entries, filters)
	report := Assemble(category, filtered.Entries, opts)
	report.Diagnostics = append(filtered.Diagnostics, report.Diagnostics...)
	return report
}

// Assemble derives all view shapes from an already filtered Record Set.
func Assemble(category domain.Category, entries []domain.Entry, opts Options) domain.ActivityReport {
	if opts.SummaryMode == "" {
		opts.SummaryMode = domain.SummaryByPerson
	}

	periodized := Periodize(entries)
	crossTab := periodized.CrossTab()

	report := domain.ActivityReport{
		Category:      category,
		Total:         TotalCount(entries),
		Distribution:  DistributionByPerson(entries),
		MonthlyTotals: periodized.Monthly(),
		MonthlySeries: monthlySeries(periodized, crossTab, opts.ContinuousAxis),
		SummaryMode:   opts.SummaryMode,
	}

	if opts.IncludeEntries {
		report.Entries = periodized.Rows()
	}

	if opts.SummaryMode == domain.SummaryFlat {
		report.Summary = report.MonthlyTotals
	} else {
		report.Summary = crossTab
	}

	report.Reconciliation.Untimed = len(periodized.Untimed())
	flagged := 0
	for _, e := range entries {
		if !e.HasResponsible() {
			report.Reconciliation.Unresolved++
		}
		if e.Unresolved {
			flagged++
		}
	}

	if untimed := periodized.Untimed(); len(untimed) > 0 {
		report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
			Kind:    domain.DiagnosticMissingTimeField,
			Count:   len(untimed),
			Message: fmt.Sprintf("%d entries without published_at left out of monthly views", len(untimed)),
			Refs:    untimed,
		})
	}
	if flagged > 0 {
		report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
			Kind:    domain.DiagnosticMissingDimension,
			Count:   flagged,
			Message: fmt.Sprintf("%d entries without a known responsible", flagged),
			Refs:    unresolvedRefs(entries),
		})
	}

	return report
}

// TotalCount is the headline metric: every filtered entry, timed or not.
func TotalCount(entries []domain.Entry) int {
	return len(entries)
}

// DistributionByPerson counts entries per resolved responsible, largest first, ties by name.
func DistributionByPerson(entries []domain.Entry) []domain.PersonCount {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.HasResponsible() {
			counts[e.Responsible]++
		}
	}

	dist := make([]domain.PersonCount, 0, len(counts))
	for name, count := range counts {
		dist = append(dist, domain.PersonCount{Name: name, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Name < dist[j].Name
	})
	return dist
}

func monthlySeries(p Periodized, crossTab []domain.MonthlyBucket, continuous bool) domain.MonthlySeries {
	periods := p.Periods()
	if continuous && len(periods) > 1 {
		periods = PeriodsBetween(periods[0], periods[len(periods)-1])
	}
	names := p.Names()
	return SeriesFromBuckets(Densify(crossTab, periods, names), periods, names)
}

// unresolvedRefs lists the distinct non-empty responsible ids of flagged entries, in first-seen order.
func unresolvedRefs(entries []domain.Entry) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, e := range entries {
		if !e.Unresolved || e.ResponsibleID == "" {
			continue
		}
		if _, ok := seen[e.ResponsibleID]; ok {
			continue
		}
		seen[e.ResponsibleID] = struct{}{}
		refs = append(refs, e.ResponsibleID)
	}
	return refs
}

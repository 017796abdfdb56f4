package activity

import (
	"slices"
	"sort"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

type periodEntry struct {
	entry  domain.Entry
	period domain.Period
}

// Periodized is a filtered Record Set with the period of every timed entry computed once.
type Periodized struct {
	timed   []periodEntry
	untimed []string
	rows    []domain.EntryRow
}

func Periodize(entries []domain.Entry) Periodized {
	p := Periodized{
		timed: make([]periodEntry, 0, len(entries)),
		rows:  make([]domain.EntryRow, 0, len(entries)),
	}
	for _, e := range entries {
		row := domain.EntryRow{ID: e.ID, Responsible: e.Responsible}
		if e.PublishedAt == nil {
			p.untimed = append(p.untimed, e.ID)
			p.rows = append(p.rows, row)
			continue
		}
		period := domain.PeriodOf(*e.PublishedAt)
		p.timed = append(p.timed, periodEntry{entry: e, period: period})
		row.Period = &period
		p.rows = append(p.rows, row)
	}
	return p
}

// Rows lists every entry with its period, in input order.
func (p Periodized) Rows() []domain.EntryRow {
	return p.rows
}

// Untimed returns the ids of entries left out of every time-bucketed shape.
func (p Periodized) Untimed() []string {
	return p.untimed
}

// Monthly counts every timed entry per period, chronologically.
func (p Periodized) Monthly() []domain.MonthlyBucket {
	counts := make(map[domain.Period]int)
	for _, pe := range p.timed {
		counts[pe.period]++
	}

	buckets := make([]domain.MonthlyBucket, 0, len(counts))
	for period, count := range counts {
		buckets = append(buckets, domain.MonthlyBucket{Period: period, Count: count})
	}
	sortBuckets(buckets)
	return buckets
}

// CrossTab counts timed entries with a resolved responsible per (period, responsible).
// Rows are chronological, then alphabetical by name. Zero combinations are omitted.
func (p Periodized) CrossTab() []domain.MonthlyBucket {
	type key struct {
		period domain.Period
		name   string
	}
	counts := make(map[key]int)
	for _, pe := range p.timed {
		if !pe.entry.HasResponsible() {
			continue
		}
		counts[key{pe.period, pe.entry.Responsible}]++
	}

	buckets := make([]domain.MonthlyBucket, 0, len(counts))
	for k, count := range counts {
		buckets = append(buckets, domain.MonthlyBucket{Period: k.period, Responsible: k.name, Count: count})
	}
	sortBuckets(buckets)
	return buckets
}

// Periods returns the distinct periods of timed entries in chronological order.
func (p Periodized) Periods() []domain.Period {
	seen := make(map[domain.Period]struct{})
	periods := make([]domain.Period, 0)
	for _, pe := range p.timed {
		if _, ok := seen[pe.period]; ok {
			continue
		}
		seen[pe.period] = struct{}{}
		periods = append(periods, pe.period)
	}
	slices.SortFunc(periods, domain.Period.Compare)
	return periods
}

// Names returns the distinct resolved names of timed entries, alphabetically.
func (p Periodized) Names() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, pe := range p.timed {
		if !pe.entry.HasResponsible() {
			continue
		}
		if _, ok := seen[pe.entry.Responsible]; ok {
			continue
		}
		seen[pe.entry.Responsible] = struct{}{}
		names = append(names, pe.entry.Responsible)
	}
	sort.Strings(names)
	return names
}

// Densify returns one bucket for every (period, name) pair of the axes, in axis order,
// filling absent combinations with 0. Buckets outside the axes are dropped.
func Densify(buckets []domain.MonthlyBucket, periods []domain.Period, names []string) []domain.MonthlyBucket {
	type key struct {
		period domain.Period
		name   string
	}
	counts := make(map[key]int, len(buckets))
	for _, b := range buckets {
		counts[key{b.Period, b.Responsible}] += b.Count
	}

	dense := make([]domain.MonthlyBucket, 0, len(periods)*len(names))
	for _, period := range periods {
		for _, name := range names {
			dense = append(dense, domain.MonthlyBucket{
				Period:      period,
				Responsible: name,
				Count:       counts[key{period, name}],
			})
		}
	}
	return dense
}

// PeriodsBetween returns every month from 'from' to 'to' inclusive.
func PeriodsBetween(from, to domain.Period) []domain.Period {
	var periods []domain.Period
	for p := from; !to.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}

// SeriesFromBuckets pivots densified buckets into one series per name.
func SeriesFromBuckets(dense []domain.MonthlyBucket, periods []domain.Period, names []string) domain.MonthlySeries {
	periodIdx := make(map[domain.Period]int, len(periods))
	for i, p := range periods {
		periodIdx[p] = i
	}
	nameIdx := make(map[string]int, len(names))
	series := make([]domain.PersonSeries, len(names))
	for i, n := range names {
		nameIdx[n] = i
		series[i] = domain.PersonSeries{Name: n, Counts: make([]int, len(periods))}
	}

	for _, b := range dense {
		pi, okP := periodIdx[b.Period]
		ni, okN := nameIdx[b.Responsible]
		if okP && okN {
			series[ni].Counts[pi] += b.Count
		}
	}

	return domain.MonthlySeries{Periods: append([]domain.Period(nil), periods...), Series: series}
}

func sortBuckets(buckets []domain.MonthlyBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Period != buckets[j].Period {
			return buckets[i].Period.Before(buckets[j].Period)
		}
		return buckets[i].Responsible < buckets[j].Responsible
	})
}

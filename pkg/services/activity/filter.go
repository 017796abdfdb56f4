package activity

import (
	"fmt"
	"strings"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

// SubjectAll selects every subject.
const SubjectAll = "all"

// Filters restricts a Record Set. Every supplied component must hold (AND);
// a nil or zero component applies no restriction.
type Filters struct {
	AllowList *domain.AllowList
	DateRange *domain.DateRange
	Subject   string
}

func (f Filters) IsEmpty() bool {
	return f.AllowList == nil && f.DateRange == nil && !f.hasSubject()
}

func (f Filters) hasSubject() bool {
	return f.Subject != "" && f.Subject != SubjectAll
}

type FilterResult struct {
	Entries     []domain.Entry
	Diagnostics []domain.Diagnostic
}

type predicate func(domain.Entry) bool

func (f Filters) predicates() []predicate {
	var preds []predicate
	if f.AllowList != nil {
		preds = append(preds, allowListPredicate(f.AllowList))
	}
	if f.DateRange != nil {
		preds = append(preds, dateRangePredicate(*f.DateRange))
	}
	if f.hasSubject() {
		preds = append(preds, subjectPredicate(f.Subject))
	}
	return preds
}

func allowListPredicate(al *domain.AllowList) predicate {
	return func(e domain.Entry) bool {
		return e.HasResponsible() && al.Contains(e.Responsible)
	}
}

func dateRangePredicate(r domain.DateRange) predicate {
	return func(e domain.Entry) bool {
		return e.PublishedAt != nil && r.Contains(*e.PublishedAt)
	}
}

func subjectPredicate(subject string) predicate {
	return func(e domain.Entry) bool {
		return strings.Contains(e.Subject, subject)
	}
}

// ApplyFilters returns the entries matching all filters. With no filters the input slice
// is returned as is. Entries dropped only because they lack published_at while a date
// range is active are reported in a single MissingTimeField diagnostic.
func ApplyFilters(entries []domain.Entry, filters Filters) FilterResult {
	if filters.IsEmpty() {
		return FilterResult{Entries: entries}
	}

	preds := filters.predicates()
	otherPreds := filters.withoutDateRange().predicates()
	kept := make([]domain.Entry, 0, len(entries))
	var untimed []string

	for _, e := range entries {
		if matchAll(e, preds) {
			kept = append(kept, e)
			continue
		}
		if filters.DateRange != nil && e.PublishedAt == nil && matchAll(e, otherPreds) {
			untimed = append(untimed, e.ID)
		}
	}

	res := FilterResult{Entries: kept}
	if len(untimed) > 0 {
		res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
			Kind:    domain.DiagnosticMissingTimeField,
			Count:   len(untimed),
			Message: fmt.Sprintf("%d entries without published_at excluded by the date filter", len(untimed)),
			Refs:    untimed,
		})
	}
	return res
}

func (f Filters) withoutDateRange() Filters {
	f.DateRange = nil
	return f
}

func matchAll(e domain.Entry, preds []predicate) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}

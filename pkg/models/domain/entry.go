package domain

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryCitation Category = "citation"
	CategorySummons  Category = "summons"
	CategoryOther    Category = "other"
)

// ReportCategories are the categories rendered as report tabs, in display order.
var ReportCategories = []Category{CategoryCitation, CategorySummons}

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryCitation, CategorySummons, CategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Entry is one progress entry ("andamento") of a legal case.
type Entry struct {
	ID            string
	ResponsibleID string     // raw users.id, empty when the source already carries names
	Responsible   string     // display name; empty while unresolved
	Unresolved    bool       // ResponsibleID has no matching DimensionRow
	Nature        string     // natureza, e.g. "Citação", "Intimação"
	Category      Category
	PublishedAt   *time.Time // datapub
	Subject       string
}

// HasResponsible reports whether the entry carries a usable display name.
func (e Entry) HasResponsible() bool {
	return !e.Unresolved && e.Responsible != ""
}

// DimensionRow maps a responsible id to its display name.
type DimensionRow struct {
	ID          string
	DisplayName string
}

// AllowList is a set of responsible display names. A nil *AllowList means no restriction,
// an empty one excludes everything.
type AllowList struct {
	names map[string]struct{}
	order []string
}

func NewAllowList(names ...string) *AllowList {
	al := &AllowList{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, ok := al.names[n]; ok {
			continue
		}
		al.names[n] = struct{}{}
		al.order = append(al.order, n)
	}
	return al
}

func (a *AllowList) Contains(name string) bool {
	if a == nil {
		return true
	}
	_, ok := a.names[name]
	return ok
}

func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Names returns the members in insertion order.
func (a *AllowList) Names() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.order...)
}

// Intersect keeps the members of a that are also in other. Either side being nil means
// "unrestricted", so the other side is returned.
func (a *AllowList) Intersect(other *AllowList) *AllowList {
	if a == nil {
		return other
	}
	if other == nil {
		return a
	}
	res := NewAllowList()
	for _, n := range a.order {
		if other.Contains(n) {
			res.names[n] = struct{}{}
			res.order = append(res.order, n)
		}
	}
	return res
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains compares calendar dates: the time-of-day and location of t, Start and End are ignored,
// each value contributing the date it reads in its own location.
func (r DateRange) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(Day(r.Start)) && !day.After(Day(r.End))
}

// Day returns the calendar date of t, as read in t's location, at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

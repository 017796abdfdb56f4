package activity

import (
	"testing"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestApplyFilters_NoFiltersIsIdentity(t *testing.T) {
	entries := aliceBobEntries()

	res := ApplyFilters(entries, Filters{})

	assert.Equal(t, entries, res.Entries)
	assert.Empty(t, res.Diagnostics)

	res = ApplyFilters(entries, Filters{Subject: SubjectAll})
	assert.Equal(t, entries, res.Entries)
}

func TestApplyFilters_AllowList(t *testing.T) {
	entries := aliceBobEntries()

	tests := []struct {
		name      string
		allowList *domain.AllowList
		expected  []string
	}{
		{
			name:      "not configured keeps everything",
			allowList: nil,
			expected:  []string{"e1", "e2", "e3", "e4", "e5", "e6"},
		},
		{
			name:      "explicit empty selection excludes everything",
			allowList: domain.NewAllowList(),
			expected:  []string{},
		},
		{
			name:      "single member",
			allowList: domain.NewAllowList("Bob"),
			expected:  []string{"e3", "e5"},
		},
		{
			name:      "names are matched exactly",
			allowList: domain.NewAllowList("alice"),
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ApplyFilters(entries, Filters{AllowList: tt.allowList})
			assert.Equal(t, tt.expected, ids(res.Entries))
		})
	}
}

func TestApplyFilters_AllowListDropsUnresolved(t *testing.T) {
	entries := []domain.Entry{
		{ID: "1", ResponsibleID: "7", Unresolved: true},
		{ID: "2", Responsible: "Alice"},
	}

	res := ApplyFilters(entries, Filters{AllowList: domain.NewAllowList("Alice", "")})

	assert.Equal(t, []string{"2"}, ids(res.Entries))
}

func TestApplyFilters_DateRangeIsInclusiveAtDayGranularity(t *testing.T) {
	b := &entryBuilder{}
	entries := []domain.Entry{
		b.add("Alice", at(time.Date(2024, 5, 14, 23, 59, 59, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)), ""),
	}
	// End carries a time of day earlier than the last retained entry.
	r := domain.DateRange{
		Start: time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC),
	}

	res := ApplyFilters(entries, Filters{DateRange: &r})

	assert.Equal(t, []string{"e2", "e3", "e4"}, ids(res.Entries))
	assert.Empty(t, res.Diagnostics)
}

func TestApplyFilters_DateRangeMixedLocations(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*60*60)
	b := &entryBuilder{}
	entries := []domain.Entry{
		b.add("Alice", at(time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)), ""),
		b.add("Alice", at(time.Date(2024, 7, 2, 1, 0, 0, 0, time.UTC)), ""),
	}
	// Bounds built from a clock running east of UTC.
	r := domain.DateRange{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, east),
		End:   time.Date(2024, 7, 1, 15, 0, 0, 0, east),
	}

	res := ApplyFilters(entries, Filters{DateRange: &r})

	assert.Equal(t, []string{"e2"}, ids(res.Entries))
}

func TestApplyFilters_DateRangeReportsMissingTimeOnce(t *testing.T) {
	b := &entryBuilder{}
	entries := []domain.Entry{
		b.add("Alice", at(day(2024, 1, 3)), ""),
		b.add("Alice", nil, ""),
		b.add("Bob", nil, ""),
		b.add("Carol", nil, ""),
	}
	r := domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 12, 31)}

	res := ApplyFilters(entries, Filters{
		DateRange: &r,
		AllowList: domain.NewAllowList("Alice", "Bob"),
	})

	assert.Equal(t, []string{"e1"}, ids(res.Entries))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticMissingTimeField, res.Diagnostics[0].Kind)
	// Carol is dropped by the allow-list, not by the missing date.
	assert.Equal(t, 2, res.Diagnostics[0].Count)
	assert.Equal(t, []string{"e2", "e3"}, res.Diagnostics[0].Refs)
}

func TestApplyFilters_Subject(t *testing.T) {
	entries := aliceBobEntries()

	tests := []struct {
		name     string
		subject  string
		expected []string
	}{
		{name: "sentinel", subject: SubjectAll, expected: []string{"e1", "e2", "e3", "e4", "e5", "e6"}},
		{name: "substring", subject: "Licita", expected: []string{"e1", "e3", "e4"}},
		{name: "case sensitive", subject: "contrato", expected: []string{}},
		{name: "exact", subject: "Contrato", expected: []string{"e2", "e5", "e6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ApplyFilters(entries, Filters{Subject: tt.subject})
			assert.Equal(t, tt.expected, ids(res.Entries))
		})
	}
}

func TestApplyFilters_OrderIndependent(t *testing.T) {
	entries := aliceBobEntries()
	r := domain.DateRange{Start: day(2024, 1, 4), End: day(2024, 1, 31)}
	parts := []Filters{
		{AllowList: domain.NewAllowList("Alice", "Bob")},
		{DateRange: &r},
		{Subject: "Licitação"},
	}
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {1, 2, 0}}

	combined := ApplyFilters(entries, Filters{
		AllowList: parts[0].AllowList,
		DateRange: parts[1].DateRange,
		Subject:   parts[2].Subject,
	})

	for _, order := range orders {
		current := entries
		for _, i := range order {
			current = ApplyFilters(current, parts[i]).Entries
		}
		assert.ElementsMatch(t, ids(combined.Entries), ids(current), "order %v", order)
	}
	assert.Equal(t, []string{"e3", "e4"}, ids(combined.Entries))
}

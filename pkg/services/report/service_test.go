package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/de-tools/activity-atlas/pkg/services/activity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error) {
	args := m.Called(ctx, office)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.EntryRecord), args.Error(1)
}

func (m *mockSource) ListUsers(ctx context.Context) ([]store.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.UserRecord), args.Error(1)
}

var now = time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func str(s string) *string { return &s }
func id(i int64) *int64    { return &i }

func plcOffice() domain.Office {
	return domain.Office{
		Code:              "PLC",
		Title:             "Licitações e Contratos",
		AllowList:         domain.NewAllowList("Alice", "Bob"),
		Categories:        domain.ReportCategories,
		ResponsibleSource: domain.ResponsibleByName,
	}
}

func proconOffice() domain.Office {
	return domain.Office{
		Code:              "PROCON",
		DefaultStart:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories:        []domain.Category{domain.CategoryCitation},
		ResponsibleSource: domain.ResponsibleByUser,
	}
}

func plcRecords() []store.EntryRecord {
	return []store.EntryRecord{
		{ID: 1, Name: str("Alice"), Nature: "Citação", PublishedAt: day(2024, 6, 3), Subject: str("Licitação")},
		{ID: 2, Name: str("Bob"), Nature: "Intimação", PublishedAt: day(2024, 6, 10), Subject: str("Contrato")},
		{ID: 3, Name: str("Carol"), Nature: "citação", PublishedAt: day(2024, 6, 11)},
		{ID: 4, Name: str("Alice"), Nature: "CITAÇÃO"},
		{ID: 5, Name: str("Bob"), Nature: "Citação", PublishedAt: day(2024, 4, 1)},
		{ID: 6, Name: str("Alice"), Nature: "Despacho", PublishedAt: day(2024, 6, 12)},
	}
}

func proconRecords() []store.EntryRecord {
	return []store.EntryRecord{
		{ID: 10, UserID: id(1), Nature: "Citação", PublishedAt: day(2024, 2, 1)},
		{ID: 11, UserID: id(2), Nature: "Citação", PublishedAt: day(2024, 2, 2)},
		{ID: 12, UserID: id(99), Nature: "Citação", PublishedAt: day(2024, 3, 5)},
	}
}

func proconUsers() []store.UserRecord {
	return []store.UserRecord{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
}

func newTestService(src Source, policy activity.UnresolvedPolicy) Service {
	return NewService(src, Settings{
		Offices:          []domain.Office{plcOffice(), proconOffice()},
		UnresolvedPolicy: policy,
		Now:              func() time.Time { return now },
	})
}

func TestService_Render_DefaultsToOfficeSettings(t *testing.T) {
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return(plcRecords(), nil)
	svc := newTestService(src, activity.UnresolvedKeep)

	rep, err := svc.Render(context.Background(), Request{Office: "plc"})
	require.NoError(t, err)

	_, err = uuid.Parse(rep.RenderID)
	assert.NoError(t, err)
	assert.Equal(t, "PLC", rep.Office.Code)
	assert.Equal(t, now, rep.GeneratedAt)
	assert.Equal(t, domain.TimePeriod{
		Start:    DefaultStart,
		End:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Duration: 48,
	}, rep.Period)

	require.Len(t, rep.Categories, 2)
	citations, summons := rep.Categories[0], rep.Categories[1]

	assert.Equal(t, domain.CategoryCitation, citations.Category)
	assert.Equal(t, 1, citations.Total)
	assert.Equal(t, []domain.PersonCount{{Name: "Alice", Count: 1}}, citations.Distribution)
	require.Len(t, citations.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticMissingTimeField, citations.Diagnostics[0].Kind)
	assert.Equal(t, []string{"4"}, citations.Diagnostics[0].Refs)

	assert.Equal(t, domain.CategorySummons, summons.Category)
	assert.Equal(t, 1, summons.Total)
	assert.Empty(t, summons.Diagnostics)

	src.AssertExpectations(t)
	src.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestService_Render_DefaultRangeIncludesTodayEastOfUTC(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*60*60)
	published := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return([]store.EntryRecord{
		{ID: 1, Name: str("Alice"), Nature: "Citação", PublishedAt: &published},
	}, nil)
	svc := NewService(src, Settings{
		Offices: []domain.Office{plcOffice()},
		Now:     func() time.Time { return time.Date(2024, 7, 1, 15, 0, 0, 0, east) },
	})

	rep, err := svc.Render(context.Background(), Request{Office: "PLC", Categories: []domain.Category{domain.CategoryCitation}})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), rep.Period.End)
	require.Len(t, rep.Categories, 1)
	assert.Equal(t, 1, rep.Categories[0].Total)
}

func TestService_Render_SelectionNarrowsAllowList(t *testing.T) {
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return(plcRecords(), nil)
	svc := newTestService(src, activity.UnresolvedKeep)

	rep, err := svc.Render(context.Background(), Request{
		Office:     "PLC",
		Categories: []domain.Category{domain.CategoryCitation},
		Selection:  domain.NewAllowList("Bob", "Carol"),
		DateRange: &domain.DateRange{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	require.Len(t, rep.Categories, 1)
	// Carol is selected but not on the office list
	assert.Equal(t, []domain.PersonCount{{Name: "Bob", Count: 1}}, rep.Categories[0].Distribution)
	assert.Equal(t, 366, rep.Period.Duration)
}

func TestService_Render_EmptySelectionExcludesEverything(t *testing.T) {
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return(plcRecords(), nil)
	svc := newTestService(src, activity.UnresolvedKeep)

	rep, err := svc.Render(context.Background(), Request{Office: "PLC", Selection: domain.NewAllowList()})
	require.NoError(t, err)

	for _, cat := range rep.Categories {
		assert.Zero(t, cat.Total)
		assert.Empty(t, cat.Summary)
		assert.Empty(t, cat.Diagnostics)
	}
}

func TestService_Render_Subject(t *testing.T) {
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return(plcRecords(), nil)
	svc := newTestService(src, activity.UnresolvedKeep)

	rep, err := svc.Render(context.Background(), Request{Office: "PLC", Subject: "Contrato"})
	require.NoError(t, err)

	assert.Zero(t, rep.Categories[0].Total)
	assert.Equal(t, 1, rep.Categories[1].Total)
}

func TestService_Render_ResolvesUsers(t *testing.T) {
	tests := []struct {
		name         string
		policy       activity.UnresolvedPolicy
		total        int
		distribution []domain.PersonCount
		diagnostics  []domain.DiagnosticKind
	}{
		{
			name:         "keep",
			policy:       activity.UnresolvedKeep,
			total:        3,
			distribution: []domain.PersonCount{{Name: "Alice", Count: 1}, {Name: "Bob", Count: 1}},
			diagnostics:  []domain.DiagnosticKind{domain.DiagnosticMissingDimension},
		},
		{
			name:         "exclude",
			policy:       activity.UnresolvedExclude,
			total:        2,
			distribution: []domain.PersonCount{{Name: "Alice", Count: 1}, {Name: "Bob", Count: 1}},
		},
		{
			name:   "label",
			policy: activity.UnresolvedLabel,
			total:  3,
			distribution: []domain.PersonCount{
				{Name: "Alice", Count: 1}, {Name: "Bob", Count: 1}, {Name: "unknown", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mockSource)
			src.On("ListEntries", mock.Anything, "PROCON").Return(proconRecords(), nil)
			src.On("ListUsers", mock.Anything).Return(proconUsers(), nil)
			svc := newTestService(src, tt.policy)

			rep, err := svc.Render(context.Background(), Request{Office: "PROCON"})
			require.NoError(t, err)

			require.Len(t, rep.Categories, 1)
			cat := rep.Categories[0]
			assert.Equal(t, tt.total, cat.Total)
			assert.Equal(t, tt.distribution, cat.Distribution)

			var kinds []domain.DiagnosticKind
			for _, d := range cat.Diagnostics {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.diagnostics, kinds)
			src.AssertExpectations(t)
		})
	}
}

func TestService_Render_UpstreamFailure(t *testing.T) {
	errDown := errors.New("connection refused")

	t.Run("entries", func(t *testing.T) {
		src := new(mockSource)
		src.On("ListEntries", mock.Anything, "PLC").Return(nil, errDown)
		svc := newTestService(src, activity.UnresolvedKeep)

		_, err := svc.Render(context.Background(), Request{Office: "PLC"})
		assert.ErrorIs(t, err, ErrUpstreamFetch)
		assert.ErrorIs(t, err, errDown)
	})

	t.Run("users", func(t *testing.T) {
		src := new(mockSource)
		src.On("ListEntries", mock.Anything, "PROCON").Return(proconRecords(), nil).Maybe()
		src.On("ListUsers", mock.Anything).Return(nil, errDown)
		svc := newTestService(src, activity.UnresolvedKeep)

		_, err := svc.Render(context.Background(), Request{Office: "PROCON"})
		assert.ErrorIs(t, err, ErrUpstreamFetch)
		assert.ErrorIs(t, err, errDown)
	})

	t.Run("duplicate users", func(t *testing.T) {
		src := new(mockSource)
		src.On("ListEntries", mock.Anything, "PROCON").Return(proconRecords(), nil)
		src.On("ListUsers", mock.Anything).Return([]store.UserRecord{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}, nil)
		svc := newTestService(src, activity.UnresolvedKeep)

		_, err := svc.Render(context.Background(), Request{Office: "PROCON"})
		assert.ErrorIs(t, err, ErrUpstreamFetch)
		assert.ErrorIs(t, err, activity.ErrDuplicateDimension)
	})
}

func TestService_Office(t *testing.T) {
	svc := newTestService(new(mockSource), activity.UnresolvedKeep)

	office, err := svc.Office("procon")
	require.NoError(t, err)
	assert.Equal(t, "PROCON", office.Code)

	_, err = svc.Office("MP")
	assert.ErrorIs(t, err, ErrUnknownOffice)

	_, err = svc.Render(context.Background(), Request{Office: "MP"})
	assert.ErrorIs(t, err, ErrUnknownOffice)

	assert.Len(t, svc.Offices(), 2)
}

func TestService_Render_DistinctRenderIDs(t *testing.T) {
	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return(plcRecords(), nil)
	svc := newTestService(src, activity.UnresolvedKeep)

	first, err := svc.Render(context.Background(), Request{Office: "PLC"})
	require.NoError(t, err)
	second, err := svc.Render(context.Background(), Request{Office: "PLC"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RenderID, second.RenderID)
}

package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/activity-atlas/pkg/adapters"
	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/de-tools/activity-atlas/pkg/services/activity"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrUnknownOffice = errors.New("unknown office")
)

// DefaultStart is the first day reported on when neither the request nor the office sets one.
var DefaultStart = time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

// Source yields raw entries and the users dimension. Both the MySQL store and the
// SQLite snapshot satisfy it.
type Source interface {
	ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error)
	ListUsers(ctx context.Context) ([]store.UserRecord, error)
}

type Request struct {
	Office string
	// Categories defaults to the office categories.
	Categories []domain.Category
	// Selection narrows the office allow-list. Nil keeps it as is.
	Selection *domain.AllowList
	// DateRange defaults to the office start through today. A zero bound keeps its default.
	DateRange *domain.DateRange
	Subject   string
	Options   activity.Options
}

type Settings struct {
	Offices          []domain.Office
	UnresolvedPolicy activity.UnresolvedPolicy
	UnresolvedLabel  string
	Now              func() time.Time
}

type Service interface {
	Offices() []domain.Office
	Office(code string) (domain.Office, error)
	Render(ctx context.Context, req Request) (domain.OfficeReport, error)
}

type defaultService struct {
	source  Source
	offices []domain.Office
	byCode  map[string]domain.Office
	policy  activity.UnresolvedPolicy
	label   string
	now     func() time.Time
}

func NewService(source Source, settings Settings) Service {
	svc := &defaultService{
		source:  source,
		offices: settings.Offices,
		byCode:  make(map[string]domain.Office, len(settings.Offices)),
		policy:  settings.UnresolvedPolicy,
		label:   settings.UnresolvedLabel,
		now:     settings.Now,
	}
	if svc.label == "" {
		svc.label = "unknown"
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	for _, o := range settings.Offices {
		svc.byCode[strings.ToUpper(o.Code)] = o
	}
	return svc
}

func (s *defaultService) Offices() []domain.Office {
	return append([]domain.Office(nil), s.offices...)
}

func (s *defaultService) Office(code string) (domain.Office, error) {
	office, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return domain.Office{}, fmt.Errorf("%w: %s", ErrUnknownOffice, code)
	}
	return office, nil
}

func (s *defaultService) Render(ctx context.Context, req Request) (domain.OfficeReport, error) {
	office, err := s.Office(req.Office)
	if err != nil {
		return domain.OfficeReport{}, err
	}

	renderID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("render_id", renderID).
		Str("office", office.Code).
		Logger()

	entries, missing, err := s.load(ctx, office)
	if err != nil {
		return domain.OfficeReport{}, err
	}

	dateRange := s.dateRange(office, req.DateRange)
	filters := activity.Filters{
		AllowList: office.AllowList.Intersect(req.Selection),
		DateRange: &dateRange,
		Subject:   req.Subject,
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = office.Categories
	}

	byCategory := groupByCategory(entries)
	result := domain.OfficeReport{
		RenderID:    renderID,
		Office:      office,
		Period:      newTimePeriod(dateRange),
		GeneratedAt: s.now().UTC(),
		Categories:  make([]domain.ActivityReport, 0, len(categories)),
	}
	for _, category := range categories {
		result.Categories = append(result.Categories,
			activity.Render(category, byCategory[category], filters, req.Options))
	}

	logDiagnostics(logger, result, len(missing))
	return result, nil
}

// load fetches entries and, for user_id offices, the users dimension concurrently,
// then resolves responsible names and applies the unresolved policy.
func (s *defaultService) load(ctx context.Context, office domain.Office) ([]domain.Entry, []activity.MissingDimension, error) {
	var (
		records []store.EntryRecord
		users   []store.UserRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.source.ListEntries(gctx, office.Code)
		if err != nil {
			return fmt.Errorf("%w: entries of %s: %w", ErrUpstreamFetch, office.Code, err)
		}
		return nil
	})
	if office.ResponsibleSource == domain.ResponsibleByUser {
		g.Go(func() error {
			var err error
			users, err = s.source.ListUsers(gctx)
			if err != nil {
				return fmt.Errorf("%w: users: %w", ErrUpstreamFetch, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	entries := adapters.MapStoreEntriesToDomain(records, office.ResponsibleSource)
	if office.ResponsibleSource != domain.ResponsibleByUser {
		return entries, nil, nil
	}

	resolver, err := activity.NewResolver(adapters.MapUserRecordsToDimensions(users))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: users: %w", ErrUpstreamFetch, err)
	}
	resolved, missing := resolver.Resolve(entries)
	return activity.ApplyUnresolvedPolicy(resolved, s.policy, s.label), missing, nil
}

func (s *defaultService) dateRange(office domain.Office, requested *domain.DateRange) domain.DateRange {
	r := domain.DateRange{Start: office.DefaultStart, End: domain.Day(s.now())}
	if r.Start.IsZero() {
		r.Start = DefaultStart
	}
	if requested != nil && !requested.Start.IsZero() {
		r.Start = requested.Start
	}
	if requested != nil && !requested.End.IsZero() {
		r.End = requested.End
	}
	return r
}

func groupByCategory(entries []domain.Entry) map[domain.Category][]domain.Entry {
	grouped := make(map[domain.Category][]domain.Entry)
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e)
	}
	return grouped
}

func newTimePeriod(r domain.DateRange) domain.TimePeriod {
	start, end := domain.Day(r.Start), domain.Day(r.End)
	days := 0
	if !end.Before(start) {
		days = int(end.Sub(start).Hours()/24) + 1
	}
	return domain.TimePeriod{Start: start, End: end, Duration: days}
}

func logDiagnostics(logger zerolog.Logger, report domain.OfficeReport, missingDimensions int) {
	arr := zerolog.Arr()
	count := 0
	for _, cat := range report.Categories {
		for _, d := range cat.Diagnostics {
			arr.Str(fmt.Sprintf("%s:%s=%d", cat.Category, d.Kind, d.Count))
			count++
		}
	}
	if count == 0 && missingDimensions == 0 {
		logger.Debug().Int("categories", len(report.Categories)).Msg("report rendered")
		return
	}
	logger.Warn().
		Array("diagnostics", arr).
		Int("missing_dimensions", missingDimensions).
		Msg("report rendered with diagnostics")
}

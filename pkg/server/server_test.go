package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/api"
	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/de-tools/activity-atlas/pkg/services/report"
	"github.com/rs/zerolog"
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

func ptr[T any](v T) *T { return &v }

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	src := new(mockSource)
	src.On("ListEntries", mock.Anything, "PLC").Return([]store.EntryRecord{
		{ID: 1, Name: ptr("Alice"), Nature: "Citação", PublishedAt: ptr(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))},
		{ID: 2, Name: ptr("Alice"), Nature: "Citação", PublishedAt: ptr(time.Date(2024, 7, 8, 10, 0, 0, 0, time.UTC))},
		{ID: 3, Name: ptr("Bob"), Nature: "Citação", PublishedAt: ptr(time.Date(2024, 7, 9, 10, 0, 0, 0, time.UTC))},
		{ID: 4, Name: ptr("Bob"), Nature: "Intimação", PublishedAt: ptr(time.Date(2024, 7, 9, 10, 0, 0, 0, time.UTC))},
	}, nil)
	src.On("ListEntries", mock.Anything, "PTB").Return(nil, assert.AnError)

	reports := report.NewService(src, report.Settings{
		Offices: []domain.Office{
			{Code: "PLC", Title: "PLC", AllowList: domain.NewAllowList("Alice", "Bob"), Categories: domain.ReportCategories},
			{Code: "PTB", Title: "PTB", Categories: domain.ReportCategories},
		},
	})

	router := ConfigureRouter(Config{
		Dependencies: Dependencies{Reports: reports, Logger: logger},
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:           "ListOffices",
			path:           "/api/v1/offices",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var offices []api.Office
				require.NoError(t, json.Unmarshal(body, &offices))
				require.Len(t, offices, 2)
				assert.Equal(t, "PLC", offices[0].Code)
				assert.Equal(t, []string{"Alice", "Bob"}, offices[0].AllowList)
				assert.Nil(t, offices[1].AllowList)
			},
		},
		{
			name:           "GetReport",
			path:           "/api/v1/offices/plc/report?from=2024-06-01&to=2024-07-31&category=citation",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var rep api.OfficeReport
				require.NoError(t, json.Unmarshal(body, &rep))
				assert.Equal(t, 61, rep.Period.Duration)
				require.Len(t, rep.Categories, 1)

				cat := rep.Categories[0]
				assert.Equal(t, "citation", cat.Category)
				assert.Equal(t, 3, cat.Total)
				assert.Equal(t, []api.MonthlyBucket{
					{Period: "2024-06", Responsible: "Alice", Count: 1},
					{Period: "2024-07", Responsible: "Alice", Count: 1},
					{Period: "2024-07", Responsible: "Bob", Count: 1},
				}, cat.Summary)
				assert.Equal(t, api.MonthlySeries{
					Periods: []string{"2024-06", "2024-07"},
					Series: []api.PersonSeries{
						{Name: "Alice", Counts: []int{1, 1}},
						{Name: "Bob", Counts: []int{0, 1}},
					},
				}, cat.MonthlySeries)
			},
		},
		{
			name:           "GetReport_UnknownOffice",
			path:           "/api/v1/offices/MP/report",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "GetReport_UpstreamFailure",
			path:           "/api/v1/offices/PTB/report",
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "GetReport_InvalidFromDate",
			path:           "/api/v1/offices/PLC/report?from=invalid-date",
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var e api.Error
				require.NoError(t, json.Unmarshal(body, &e))
				assert.Equal(t, "invalid 'from' date format. Expected format: YYYY-MM-DD", e.Error)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/activity-atlas/pkg/adapters"
	"github.com/de-tools/activity-atlas/pkg/models/api"
	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	dateLayout     = "2006-01-02"
	defaultTimeout = 30 * time.Second
)

type Handler struct {
	reports report.Service
	timeout time.Duration
}

func NewHandler(reports report.Service, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{reports: reports, timeout: timeout}
}

func (h *Handler) ListOffices(w http.ResponseWriter, r *http.Request) {
	offices := h.reports.Offices()
	response := make([]api.Office, 0, len(offices))
	for _, o := range offices {
		response = append(response, adapters.MapOfficeDomainToApi(o))
	}
	writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	office := chi.URLParam(r, "office")

	req, err := parseRequest(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	req.Office = office

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, err := h.reports.Render(ctx, req)
	switch {
	case errors.Is(err, report.ErrUnknownOffice):
		writeError(ctx, w, http.StatusNotFound, err)
		return
	case errors.Is(err, report.ErrUpstreamFetch):
		logger.Error().Err(err).Str("office", office).Msg("failed to fetch report data")
		writeError(ctx, w, http.StatusBadGateway, err)
		return
	case err != nil:
		logger.Error().Err(err).Str("office", office).Msg("failed to render report")
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapOfficeReportDomainToApi(result))
}

func parseRequest(r *http.Request) (report.Request, error) {
	query := r.URL.Query()
	var req report.Request

	var dateRange domain.DateRange
	if from := query.Get("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return req, errors.New("invalid 'from' date format. Expected format: YYYY-MM-DD")
		}
		dateRange.Start = t
	}
	if to := query.Get("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return req, errors.New("invalid 'to' date format. Expected format: YYYY-MM-DD")
		}
		dateRange.End = t
	}
	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() && dateRange.End.Before(dateRange.Start) {
		return req, errors.New("'to' date must not be before 'from' date")
	}
	if !dateRange.Start.IsZero() || !dateRange.End.IsZero() {
		req.DateRange = &dateRange
	}

	if names, ok := query["name"]; ok {
		req.Selection = domain.NewAllowList(names...)
	}

	for _, raw := range query["category"] {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			return req, err
		}
		req.Categories = append(req.Categories, cat)
	}

	req.Subject = query.Get("subject")

	switch mode := domain.SummaryMode(query.Get("summary")); mode {
	case "", domain.SummaryByPerson, domain.SummaryFlat:
		req.Options.SummaryMode = mode
	default:
		return req, fmt.Errorf("invalid 'summary' %q. Expected by_person or flat", mode)
	}

	if raw := query.Get("continuous"); raw != "" {
		continuous, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("invalid 'continuous' %q", raw)
		}
		req.Options.ContinuousAxis = continuous
	}

	if raw := query.Get("entries"); raw != "" {
		entries, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("invalid 'entries' %q", raw)
		}
		req.Options.IncludeEntries = entries
	}

	return req, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	writeJSON(ctx, w, status, api.Error{Error: err.Error()})
}

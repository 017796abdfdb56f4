package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/activity-atlas/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type ReportCmd struct {
	globals    *Globals
	open       OpenFunc
	reporter   *export.Reporter
	office     string
	from       string
	to         string
	names      []string
	subject    string
	categories []string
	summary    string
	continuous bool
	entries    bool
	timeout    time.Duration
}

func NewReportCmd(globals *Globals, open OpenFunc, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{globals: globals, open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the activity report of an office",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.office, "office", "", "Office code (e.g., PLC)")
	cmd.Flags().StringVar(&rc.from, "from", "", "First day, YYYY-MM-DD (default is the office start)")
	cmd.Flags().StringVar(&rc.to, "to", "", "Last day, YYYY-MM-DD (default is today)")
	cmd.Flags().StringArrayVar(&rc.names, "name", nil, "Responsible to include, repeatable (default is the office list)")
	cmd.Flags().StringVar(&rc.subject, "subject", "", "Subject substring, or \"all\"")
	cmd.Flags().StringArrayVar(&rc.categories, "category", nil, "Category to render, repeatable: citation, summons or other")
	cmd.Flags().StringVar(&rc.summary, "summary", string(domain.SummaryByPerson), "Summary table layout: by_person or flat")
	cmd.Flags().BoolVar(&rc.continuous, "continuous", false, "Show months without activity as zero columns")
	cmd.Flags().BoolVar(&rc.entries, "entries", false, "List every filtered entry with its month")
	cmd.Flags().DurationVar(&rc.timeout, "timeout", 60*time.Second, "Upper bound for fetching entries")

	_ = cmd.MarkFlagRequired("office")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	req, err := rc.request(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	a, err := rc.open(ctx, rc.globals.Settings())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close stores")
		}
	}()

	result, err := a.Reports.Render(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return rc.reporter.Handle(&result)
}

func (rc *ReportCmd) request(cmd *cobra.Command) (report.Request, error) {
	req := report.Request{Office: rc.office, Subject: rc.subject}

	var dateRange domain.DateRange
	if rc.from != "" {
		t, err := time.Parse(dateLayout, rc.from)
		if err != nil {
			return req, fmt.Errorf("invalid --from %q. Expected format: YYYY-MM-DD", rc.from)
		}
		dateRange.Start = t
	}
	if rc.to != "" {
		t, err := time.Parse(dateLayout, rc.to)
		if err != nil {
			return req, fmt.Errorf("invalid --to %q. Expected format: YYYY-MM-DD", rc.to)
		}
		dateRange.End = t
	}
	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() && dateRange.End.Before(dateRange.Start) {
		return req, fmt.Errorf("--to must not be before --from")
	}
	if !dateRange.Start.IsZero() || !dateRange.End.IsZero() {
		req.DateRange = &dateRange
	}

	if cmd.Flags().Changed("name") {
		req.Selection = domain.NewAllowList(rc.names...)
	}

	for _, raw := range rc.categories {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			return req, err
		}
		req.Categories = append(req.Categories, cat)
	}

	switch mode := domain.SummaryMode(rc.summary); mode {
	case domain.SummaryByPerson, domain.SummaryFlat:
		req.Options.SummaryMode = mode
	default:
		return req, fmt.Errorf("unsupported summary %q. Expected by_person or flat", rc.summary)
	}
	req.Options.ContinuousAxis = rc.continuous
	req.Options.IncludeEntries = rc.entries

	return req, nil
}

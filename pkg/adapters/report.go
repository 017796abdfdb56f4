package adapters

import (
	"github.com/de-tools/activity-atlas/pkg/models/api"
	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

func MapOfficeDomainToApi(o domain.Office) api.Office {
	res := api.Office{
		Code:       o.Code,
		Title:      o.Title,
		AllowList:  o.AllowList.Names(),
		Categories: make([]string, 0, len(o.Categories)),
	}
	if o.AllowList != nil && res.AllowList == nil {
		res.AllowList = []string{}
	}
	for _, c := range o.Categories {
		res.Categories = append(res.Categories, string(c))
	}
	return res
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Start:    p.Start,
		End:      p.End,
		Duration: p.Duration,
	}
}

func MapBucketsDomainToApi(buckets []domain.MonthlyBucket) []api.MonthlyBucket {
	res := make([]api.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		res = append(res, api.MonthlyBucket{
			Period:      b.Period.String(),
			Responsible: b.Responsible,
			Count:       b.Count,
		})
	}
	return res
}

func MapMonthlySeriesDomainToApi(s domain.MonthlySeries) api.MonthlySeries {
	res := api.MonthlySeries{
		Periods: make([]string, 0, len(s.Periods)),
		Series:  make([]api.PersonSeries, 0, len(s.Series)),
	}
	for _, p := range s.Periods {
		res.Periods = append(res.Periods, p.String())
	}
	for _, ps := range s.Series {
		res.Series = append(res.Series, api.PersonSeries{Name: ps.Name, Counts: ps.Counts})
	}
	return res
}

func MapActivityReportDomainToApi(r domain.ActivityReport) api.ActivityReport {
	res := api.ActivityReport{
		Category:      string(r.Category),
		Total:         r.Total,
		Distribution:  make([]api.PersonCount, 0, len(r.Distribution)),
		MonthlyTotals: MapBucketsDomainToApi(r.MonthlyTotals),
		MonthlySeries: MapMonthlySeriesDomainToApi(r.MonthlySeries),
		Summary:       MapBucketsDomainToApi(r.Summary),
		SummaryMode:   string(r.SummaryMode),
		Reconciliation: api.Reconciliation{
			Untimed:    r.Reconciliation.Untimed,
			Unresolved: r.Reconciliation.Unresolved,
		},
	}
	for _, p := range r.Distribution {
		res.Distribution = append(res.Distribution, api.PersonCount{Name: p.Name, Count: p.Count})
	}
	for _, e := range r.Entries {
		row := api.EntryRow{ID: e.ID, Responsible: e.Responsible}
		if e.Period != nil {
			row.Period = e.Period.String()
		}
		res.Entries = append(res.Entries, row)
	}
	for _, d := range r.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, api.Diagnostic{
			Kind:    string(d.Kind),
			Count:   d.Count,
			Message: d.Message,
			Refs:    d.Refs,
		})
	}
	return res
}

func MapOfficeReportDomainToApi(r domain.OfficeReport) api.OfficeReport {
	res := api.OfficeReport{
		RenderID:    r.RenderID,
		Office:      MapOfficeDomainToApi(r.Office),
		Period:      MapTimePeriodDomainToApi(r.Period),
		GeneratedAt: r.GeneratedAt,
		Categories:  make([]api.ActivityReport, 0, len(r.Categories)),
	}
	for _, c := range r.Categories {
		res.Categories = append(res.Categories, MapActivityReportDomainToApi(c))
	}
	return res
}

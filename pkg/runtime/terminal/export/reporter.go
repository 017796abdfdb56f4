package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

type TableConfig struct {
	PeriodWidth int
	NameWidth   int
	CountWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PeriodWidth: 9,
		NameWidth:   40,
		CountWidth:  8,
	}
}

// Reporter renders office reports as text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
{{.Office.Title}} ({{.Office.Code}})
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} ({{.Period.Duration}} days)
Render: {{.RenderID}}
{{range .Categories}}
=== {{.Category}} ===
Total: {{.Total}}
Without date: {{.Reconciliation.Untimed}}
Without responsible: {{.Reconciliation.Unresolved}}

{{personSeparator}}
{{personRow "Name" "Count"}}
{{personSeparator}}
{{range .Distribution}}{{personRow .Name .Count}}
{{end}}{{personSeparator}}

{{summarySeparator}}
{{summaryRow "Period" "Responsible" "Count"}}
{{summarySeparator}}
{{range .Summary}}{{summaryRow .Period.String .Responsible .Count}}
{{end}}{{summarySeparator}}
{{if .Entries}}
{{personSeparator}}
{{personRow "Name" "Month"}}
{{personSeparator}}
{{range .Entries}}{{personRow .Responsible (periodLabel .Period)}}
{{end}}{{personSeparator}}
{{end}}{{range .Diagnostics}}
! {{.Kind}}: {{.Message}}{{end}}
{{end}}`

func (c *Reporter) Handle(report *domain.OfficeReport) error {
	funcMap := template.FuncMap{
		"personRow": func(name string, count any) string {
			return fmt.Sprintf("| %-*s | %*v |", c.config.NameWidth, name, c.config.CountWidth, count)
		},
		"personSeparator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.CountWidth+2))
		},
		"summaryRow": func(period, name string, count any) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v |",
				c.config.PeriodWidth, period,
				c.config.NameWidth, name,
				c.config.CountWidth, count)
		},
		"periodLabel": func(p *domain.Period) string {
			if p == nil {
				return "-"
			}
			return p.String()
		},
		"summarySeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.PeriodWidth+2),
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.CountWidth+2))
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/models/store"
)

// Reporter outputs office listings and sync results to the console in plain text
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

const officesTemplate = `{{range .}}{{.Code}}	{{.Title}}
  categories: {{range $i, $c := .Categories}}{{if $i}}, {{end}}{{$c}}{{end}}
  responsible: {{.ResponsibleSource}}
  allow-list: {{if not .AllowList}}everyone{{else}}{{range $i, $n := .AllowList.Names}}{{if $i}}, {{end}}{{$n}}{{else}}nobody{{end}}{{end}}
{{end}}`

const syncTemplate = `Snapshot of {{.Office}} updated{{if .SyncedAt}} at {{.SyncedAt.Format "2006-01-02 15:04:05"}}{{end}}
Entries: {{.EntriesCount}}
Users: {{.UsersCount}}
`

func (c *Reporter) Offices(offices []domain.Office) error {
	return c.execute("offices", officesTemplate, offices)
}

func (c *Reporter) Synced(stats store.SnapshotStats) error {
	return c.execute("sync", syncTemplate, stats)
}

func (c *Reporter) execute(name, tmpl string, data any) error {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

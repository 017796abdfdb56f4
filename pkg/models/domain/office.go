package domain

import "time"

type ResponsibleSource string

const (
	ResponsibleByName ResponsibleSource = "name"    // ANDAMENTOS.name carries the display name
	ResponsibleByUser ResponsibleSource = "user_id" // ANDAMENTOS.user_id joins users.id
)

// Office is a "procuradoria" whose entries are reported on.
type Office struct {
	Code              string
	Title             string
	AllowList         *AllowList
	DefaultStart      time.Time
	Categories        []Category
	ResponsibleSource ResponsibleSource
}

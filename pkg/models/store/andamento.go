package store

import "time"

// EntryRecord is one ANDAMENTOS row as read from the storage collaborator.
type EntryRecord struct {
	ID          int64
	Office      string // nome_procuradoria
	Name        *string
	UserID      *int64
	Nature      string
	PublishedAt *time.Time
	Subject     *string
}

// UserRecord is one row of the users dimension table.
type UserRecord struct {
	ID   int64
	Name string
}

type SnapshotStats struct {
	Office       string
	EntriesCount int64
	UsersCount   int64
	SyncedAt     *time.Time
}

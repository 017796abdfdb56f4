package adapters

import (
	"strconv"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/models/store"
)

func MapStoreEntryToDomain(rec store.EntryRecord, source domain.ResponsibleSource) domain.Entry {
	e := domain.Entry{
		ID:          strconv.FormatInt(rec.ID, 10),
		Nature:      rec.Nature,
		Category:    ClassifyNature(rec.Nature),
		PublishedAt: rec.PublishedAt,
	}
	if rec.Subject != nil {
		e.Subject = *rec.Subject
	}

	switch source {
	case domain.ResponsibleByUser:
		if rec.UserID != nil {
			e.ResponsibleID = strconv.FormatInt(*rec.UserID, 10)
		} else {
			e.Unresolved = true
		}
	default:
		if rec.Name != nil && *rec.Name != "" {
			e.Responsible = *rec.Name
		}
	}
	return e
}

func MapStoreEntriesToDomain(records []store.EntryRecord, source domain.ResponsibleSource) []domain.Entry {
	entries := make([]domain.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, MapStoreEntryToDomain(rec, source))
	}
	return entries
}

func MapUserRecordsToDimensions(users []store.UserRecord) []domain.DimensionRow {
	rows := make([]domain.DimensionRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, domain.DimensionRow{
			ID:          strconv.FormatInt(u.ID, 10),
			DisplayName: u.Name,
		})
	}
	return rows
}

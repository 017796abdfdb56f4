package andamentos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

const listEntriesQuery = `
		SELECT id, name, user_id, natureza, datapub, assunto
		FROM ANDAMENTOS
		WHERE nome_procuradoria = ?
		ORDER BY datapub, id
	`

const listUsersQuery = `
		SELECT id, name
		FROM users
		ORDER BY id
	`

// Store reads progress entries and the users dimension from the system of record.
type Store interface {
	ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error)
	ListUsers(ctx context.Context) ([]store.UserRecord, error)
}

type andamentosStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &andamentosStore{db: db}, nil
}

func (s *andamentosStore) ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error) {
	rows, err := s.db.QueryContext(ctx, listEntriesQuery, office)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.EntryRecord, 0)
	for rows.Next() {
		var (
			id        int64
			name      sql.NullString
			userID    sql.NullInt64
			nature    sql.NullString
			published sql.NullTime
			subject   sql.NullString
		)
		if err := rows.Scan(&id, &name, &userID, &nature, &published, &subject); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		rec := store.EntryRecord{
			ID:     id,
			Office: office,
			Nature: nature.String,
		}
		if name.Valid {
			rec.Name = &name.String
		}
		if userID.Valid {
			rec.UserID = &userID.Int64
		}
		if published.Valid {
			t := published.Time
			rec.PublishedAt = &t
		}
		if subject.Valid {
			rec.Subject = &subject.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return records, nil
}

func (s *andamentosStore) ListUsers(ctx context.Context) ([]store.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer closeRows(ctx, rows)

	users := make([]store.UserRecord, 0)
	for rows.Next() {
		var u store.UserRecord
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close rows")
	}
}

package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/de-tools/activity-atlas/pkg/store/sqlite"
	"github.com/rs/zerolog"
)

const timeLayout = time.RFC3339Nano

// Store keeps a local copy of raw entries and users. Both replace methods honour
// a transaction carried by ctx (see sqlite.WithTransaction).
type Store interface {
	ReplaceEntries(ctx context.Context, office string, records []store.EntryRecord) error
	ReplaceUsers(ctx context.Context, users []store.UserRecord) error
	MarkSynced(ctx context.Context, office string, at time.Time) error
	ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error)
	ListUsers(ctx context.Context) ([]store.UserRecord, error)
	GetStats(ctx context.Context, office string) (store.SnapshotStats, error)
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{db: db}, nil
}

func (s *snapshotStore) ReplaceEntries(ctx context.Context, office string, records []store.EntryRecord) error {
	conn := sqlite.ConnFromContext(ctx, s.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM entries WHERE office = ?`, office); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := conn.PrepareContext(ctx, `
		INSERT INTO entries (office, id, name, user_id, nature, published_at, subject)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var published any
		if rec.PublishedAt != nil {
			published = rec.PublishedAt.UTC().Format(timeLayout)
		}
		if _, err := stmt.ExecContext(ctx,
			office, rec.ID, nullString(rec.Name), nullInt(rec.UserID), rec.Nature, published, nullString(rec.Subject),
		); err != nil {
			return fmt.Errorf("insert entry %d: %w", rec.ID, err)
		}
	}

	return nil
}

func (s *snapshotStore) ReplaceUsers(ctx context.Context, users []store.UserRecord) error {
	conn := sqlite.ConnFromContext(ctx, s.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	stmt, err := conn.PrepareContext(ctx, `INSERT INTO users (id, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare user insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.ID, u.Name); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}

	return nil
}

func (s *snapshotStore) MarkSynced(ctx context.Context, office string, at time.Time) error {
	conn := sqlite.ConnFromContext(ctx, s.db)
	_, err := conn.ExecContext(ctx, `
		INSERT INTO snapshots (office, synced_at) VALUES (?, ?)
		ON CONFLICT(office) DO UPDATE SET synced_at = excluded.synced_at
	`, office, at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("mark snapshot synced: %w", err)
	}
	return nil
}

func (s *snapshotStore) ListEntries(ctx context.Context, office string) ([]store.EntryRecord, error) {
	conn := sqlite.ConnFromContext(ctx, s.db)
	rows, err := conn.QueryContext(ctx, `
		SELECT id, name, user_id, nature, published_at, subject
		FROM entries
		WHERE office = ?
		ORDER BY published_at, id
	`, office)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.EntryRecord, 0)
	for rows.Next() {
		var (
			rec       = store.EntryRecord{Office: office}
			name      sql.NullString
			userID    sql.NullInt64
			published sql.NullString
			subject   sql.NullString
		)
		if err := rows.Scan(&rec.ID, &name, &userID, &rec.Nature, &published, &subject); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if name.Valid {
			rec.Name = &name.String
		}
		if userID.Valid {
			rec.UserID = &userID.Int64
		}
		if subject.Valid {
			rec.Subject = &subject.String
		}
		if published.Valid {
			t, err := time.Parse(timeLayout, published.String)
			if err != nil {
				return nil, fmt.Errorf("parse published_at of entry %d: %w", rec.ID, err)
			}
			rec.PublishedAt = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return records, nil
}

func (s *snapshotStore) ListUsers(ctx context.Context) ([]store.UserRecord, error) {
	conn := sqlite.ConnFromContext(ctx, s.db)
	rows, err := conn.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
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

func (s *snapshotStore) GetStats(ctx context.Context, office string) (store.SnapshotStats, error) {
	conn := sqlite.ConnFromContext(ctx, s.db)
	stats := store.SnapshotStats{Office: office}

	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE office = ?`, office).
		Scan(&stats.EntriesCount); err != nil {
		return stats, fmt.Errorf("count entries: %w", err)
	}
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.UsersCount); err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}

	var syncedAt string
	err := conn.QueryRowContext(ctx, `SELECT synced_at FROM snapshots WHERE office = ?`, office).Scan(&syncedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return stats, nil
	case err != nil:
		return stats, fmt.Errorf("read sync time: %w", err)
	}

	t, err := time.Parse(timeLayout, syncedAt)
	if err != nil {
		return stats, fmt.Errorf("parse sync time: %w", err)
	}
	stats.SyncedAt = &t

	return stats, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close rows")
	}
}

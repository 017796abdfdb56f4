package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/de-tools/activity-atlas/pkg/services/report"
	"github.com/de-tools/activity-atlas/pkg/store/sqlite"
	snapshotstore "github.com/de-tools/activity-atlas/pkg/store/sqlite/snapshot"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Syncer copies the raw entries of an office and the users table into the local snapshot.
type Syncer struct {
	source report.Source
	db     *sql.DB
	target snapshotstore.Store
	now    func() time.Time
}

func NewSyncer(source report.Source, db *sql.DB, target snapshotstore.Store) *Syncer {
	return &Syncer{
		source: source,
		db:     db,
		target: target,
		now:    time.Now,
	}
}

// Sync replaces the snapshot of office atomically. On any failure the previous
// snapshot is left untouched.
func (s *Syncer) Sync(ctx context.Context, office string) (store.SnapshotStats, error) {
	logger := zerolog.Ctx(ctx).With().Str("office", office).Logger()

	var (
		records []store.EntryRecord
		users   []store.UserRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.source.ListEntries(gctx, office)
		if err != nil {
			return fmt.Errorf("%w: entries of %s: %w", report.ErrUpstreamFetch, office, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.source.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("%w: users: %w", report.ErrUpstreamFetch, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return store.SnapshotStats{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.SnapshotStats{}, fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Warn().Err(err).Msg("failed to roll back snapshot transaction")
		}
	}()

	txCtx := sqlite.WithTransaction(ctx, tx)
	if err := s.target.ReplaceEntries(txCtx, office, records); err != nil {
		return store.SnapshotStats{}, err
	}
	if err := s.target.ReplaceUsers(txCtx, users); err != nil {
		return store.SnapshotStats{}, err
	}
	if err := s.target.MarkSynced(txCtx, office, s.now()); err != nil {
		return store.SnapshotStats{}, err
	}
	if err := tx.Commit(); err != nil {
		return store.SnapshotStats{}, fmt.Errorf("commit snapshot: %w", err)
	}

	stats, err := s.target.GetStats(ctx, office)
	if err != nil {
		return store.SnapshotStats{}, err
	}
	logger.Info().
		Int64("entries", stats.EntriesCount).
		Int64("users", stats.UsersCount).
		Msg("snapshot synced")
	return stats, nil
}

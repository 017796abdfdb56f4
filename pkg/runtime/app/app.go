package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/services/activity"
	"github.com/de-tools/activity-atlas/pkg/services/config"
	"github.com/de-tools/activity-atlas/pkg/services/report"
	"github.com/de-tools/activity-atlas/pkg/services/snapshot"
	"github.com/de-tools/activity-atlas/pkg/store/mysql"
	"github.com/de-tools/activity-atlas/pkg/store/mysql/andamentos"
	"github.com/de-tools/activity-atlas/pkg/store/sqlite"
	snapshotstore "github.com/de-tools/activity-atlas/pkg/store/sqlite/snapshot"
	"github.com/rs/zerolog"
)

type Source string

const (
	SourceMySQL    Source = "mysql"
	SourceSnapshot Source = "snapshot"
)

type Settings struct {
	ConfigPath string
	Source     Source
	// SnapshotPath overrides snapshot.path of the config file.
	SnapshotPath string
	// ProfilesPath and Profile select a named database profile instead of the database section.
	ProfilesPath string
	Profile      string
	// WithSync opens both stores so the snapshot can be refreshed from MySQL.
	WithSync bool
}

// App holds the wired services of one process.
type App struct {
	Config  *config.Config
	Offices []domain.Office
	Reports report.Service
	Syncer  *snapshot.Syncer

	dbs []*sql.DB
}

func Open(ctx context.Context, settings Settings) (*App, error) {
	logger := zerolog.Ctx(ctx)

	if settings.Source == "" {
		settings.Source = SourceMySQL
	}
	if settings.Source != SourceMySQL && settings.Source != SourceSnapshot {
		return nil, fmt.Errorf("unknown source %q. Expected mysql or snapshot", settings.Source)
	}

	cfg, err := config.Load(settings.ConfigPath)
	if err != nil {
		return nil, err
	}
	if settings.SnapshotPath != "" {
		cfg.Snapshot.Path = settings.SnapshotPath
	}
	if settings.Profile != "" {
		db, err := loadProfile(ctx, settings.ProfilesPath, settings.Profile)
		if err != nil {
			return nil, err
		}
		cfg.Database = db
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	offices, err := cfg.OfficeList()
	if err != nil {
		return nil, err
	}
	policy, err := activity.ParseUnresolvedPolicy(cfg.Report.UnresolvedPolicy)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Offices: offices}

	var (
		upstream  andamentos.Store
		snapStore snapshotstore.Store
		snapDB    *sql.DB
	)
	if settings.Source == SourceMySQL || settings.WithSync {
		upstream, err = a.openMySQL(cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("using MySQL source")
	}
	if settings.Source == SourceSnapshot || settings.WithSync {
		snapDB, snapStore, err = a.openSnapshot(cfg.Snapshot.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info().Str("path", cfg.Snapshot.Path).Msg("using snapshot store")
	}

	var source report.Source = snapStore
	if settings.Source == SourceMySQL {
		source = upstream
	}
	a.Reports = report.NewService(source, report.Settings{
		Offices:          offices,
		UnresolvedPolicy: policy,
		UnresolvedLabel:  cfg.Report.UnresolvedLabel,
	})
	if settings.WithSync {
		a.Syncer = snapshot.NewSyncer(upstream, snapDB, snapStore)
	}

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for _, db := range a.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.dbs = nil
	return errors.Join(errs...)
}

func (a *App) openMySQL(dbCfg config.DatabaseConfig) (andamentos.Store, error) {
	if err := dbCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	db, err := mysql.NewDB(mysql.Settings{
		Host:     dbCfg.Host,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		Database: dbCfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL instance: %w", err)
	}
	a.dbs = append(a.dbs, db)

	store, err := andamentos.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create andamentos store: %w", err)
	}
	return store, nil
}

func (a *App) openSnapshot(path string) (*sql.DB, snapshotstore.Store, error) {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create snapshot instance: %w", err)
	}
	a.dbs = append(a.dbs, db)

	store, err := snapshotstore.NewStore(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}
	return db, store, nil
}

func loadProfile(ctx context.Context, path, profile string) (config.DatabaseConfig, error) {
	if path == "" {
		return config.DatabaseConfig{}, fmt.Errorf("profile %s requested without a profiles file", profile)
	}
	registry, err := config.NewProfileRegistry(path)
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	return registry.GetDatabase(ctx, profile)
}

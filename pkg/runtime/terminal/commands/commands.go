package commands

import (
	"context"

	"github.com/de-tools/activity-atlas/pkg/runtime/app"
	"github.com/spf13/cobra"
)

// OpenFunc builds the application for one command run.
type OpenFunc func(ctx context.Context, settings app.Settings) (*app.App, error)

// Globals are the persistent flags shared by every command.
type Globals struct {
	ConfigPath   string
	Source       string
	SnapshotPath string
	ProfilesPath string
	Profile      string
}

func (g *Globals) Bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.ConfigPath, "config", "c", "", "Path to atlas.yaml (default searches ./ and $HOME/.config/atlas)")
	flags.StringVar(&g.Source, "source", string(app.SourceMySQL), "Where entries are read from: mysql or snapshot")
	flags.StringVar(&g.SnapshotPath, "snapshot", "", "Path to the SQLite snapshot (overrides snapshot.path)")
	flags.StringVar(&g.ProfilesPath, "profiles", "", "Path to an ini file with database profiles")
	flags.StringVar(&g.Profile, "profile", "", "Database profile to use from --profiles")
}

func (g *Globals) Settings() app.Settings {
	return app.Settings{
		ConfigPath:   g.ConfigPath,
		Source:       app.Source(g.Source),
		SnapshotPath: g.SnapshotPath,
		ProfilesPath: g.ProfilesPath,
		Profile:      g.Profile,
	}
}

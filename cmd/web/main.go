package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/activity-atlas/pkg/runtime/app"
	"github.com/de-tools/activity-atlas/pkg/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var settings app.Settings

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Activity Atlas",
		RunE:  runServer,
	}

	var source string
	rootCmd.Flags().StringVarP(&settings.ConfigPath, "config", "c", "",
		"Path to atlas.yaml (default searches ./ and $HOME/.config/atlas)")
	rootCmd.Flags().StringVar(&source, "source", string(app.SourceMySQL), "Where entries are read from: mysql or snapshot")
	rootCmd.Flags().StringVar(&settings.SnapshotPath, "snapshot", "", "Path to the SQLite snapshot (overrides snapshot.path)")
	rootCmd.Flags().StringVar(&settings.ProfilesPath, "profiles", "", "Path to an ini file with database profiles")
	rootCmd.Flags().StringVar(&settings.Profile, "profile", "", "Database profile to use from --profiles")
	rootCmd.PreRun = func(*cobra.Command, []string) {
		settings.Source = app.Source(source)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	a, err := app.Open(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	logger.Info().Msgf("Configuration loaded, serving %d offices:", len(a.Offices))
	for _, office := range a.Offices {
		logger.Info().Msgf("Code: `%s`, Title: `%s`", office.Code, office.Title)
	}

	addr := net.JoinHostPort(a.Config.Server.Host, a.Config.Server.Port)
	api := server.NewWebAPI(server.Config{
		Addr:           addr,
		RequestTimeout: a.Config.Report.RequestTimeout,
		Dependencies: server.Dependencies{
			Reports: a.Reports,
			Logger:  logger,
		},
	})

	return api.Start()
}

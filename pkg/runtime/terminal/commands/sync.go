package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SyncPrinter interface {
	Synced(stats store.SnapshotStats) error
}

type SyncCmd struct {
	globals *Globals
	open    OpenFunc
	printer SyncPrinter
	office  string
	timeout time.Duration
}

func NewSyncCmd(globals *Globals, open OpenFunc, printer SyncPrinter) *cobra.Command {
	sc := &SyncCmd{globals: globals, open: open, printer: printer}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the entries of an office from MySQL into the local snapshot",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.office, "office", "", "Office code (e.g., PLC)")
	cmd.Flags().DurationVar(&sc.timeout, "timeout", 5*time.Minute, "Upper bound for the whole sync")

	_ = cmd.MarkFlagRequired("office")

	return cmd
}

func (sc *SyncCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	settings := sc.globals.Settings()
	settings.WithSync = true

	a, err := sc.open(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close stores")
		}
	}()

	office, err := a.Reports.Office(sc.office)
	if err != nil {
		return err
	}

	stats, err := a.Syncer.Sync(ctx, office.Code)
	if err != nil {
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	return sc.printer.Synced(stats)
}

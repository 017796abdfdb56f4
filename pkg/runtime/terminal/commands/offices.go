package commands

import (
	"fmt"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
	"github.com/de-tools/activity-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type OfficesPrinter interface {
	Offices(offices []domain.Office) error
}

type OfficesCmd struct {
	globals *Globals
	printer OfficesPrinter
}

// NewOfficesCmd lists the configured offices. It reads the config file only and
// never connects to a database.
func NewOfficesCmd(globals *Globals, printer OfficesPrinter) *cobra.Command {
	oc := &OfficesCmd{globals: globals, printer: printer}
	return &cobra.Command{
		Use:   "offices",
		Short: "List the configured offices",
		RunE:  oc.run,
	}
}

func (oc *OfficesCmd) run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(oc.globals.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	offices, err := cfg.OfficeList()
	if err != nil {
		return err
	}
	return oc.printer.Offices(offices)
}

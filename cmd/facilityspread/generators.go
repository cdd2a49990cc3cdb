package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// create_cells, create_persons, and create_schedules are owned by the
// external population generator (genpop), not this engine (§1's
// Non-goals). These subcommands exist only so `facilityspread --help`
// documents where that functionality lives.
var createCellsCmd = &cobra.Command{
	Use:   "create_cells",
	Short: "Not implemented here — generate cells with the genpop tool",
	RunE:  generatorStub,
}

var createPersonsCmd = &cobra.Command{
	Use:   "create_persons",
	Short: "Not implemented here — generate persons with the genpop tool",
	RunE:  generatorStub,
}

var createSchedulesCmd = &cobra.Command{
	Use:   "create_schedules",
	Short: "Not implemented here — generate schedules with the genpop tool",
	RunE:  generatorStub,
}

func generatorStub(cmd *cobra.Command, args []string) error {
	return fmt.Errorf("%s is provided by the population generator, not facilityspread run", cmd.Name())
}

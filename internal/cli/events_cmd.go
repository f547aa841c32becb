package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/eventlog"
)

var eventsFlagOutput string

// eventsCmd groups the event log commands.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the interaction event log",
	Long: `The event log records calculator changes and survey progress as JSON
lines in events.file (default .bacc/events.jsonl). It stays on this machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var eventsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the event log as CSV",
	Long: `Write every logged event as CSV with the columns
timestamp, source, action, field, value. Writes to stdout unless --output
is given.`,
	Args: cobra.NoArgs,
	RunE: runEventsExport,
}

var eventsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the event log",
	Args:  cobra.NoArgs,
	RunE:  runEventsClear,
}

func init() {
	eventsExportCmd.Flags().StringVarP(&eventsFlagOutput, "output", "o", "", "Write the CSV to this file")
	eventsCmd.AddCommand(eventsExportCmd)
	eventsCmd.AddCommand(eventsClearCmd)
	rootCmd.AddCommand(eventsCmd)
}

// eventStoreForCommand resolves the event log location. Export and clear
// work on the configured file even when recording is disabled.
func eventStoreForCommand() (*eventlog.Store, error) {
	resolved, _, err := loadAndResolveConfig(nil)
	if err != nil {
		return nil, err
	}
	file := resolved.Config.Events.File
	if file == "" {
		file = config.DefaultEventsFile
	}
	return eventlog.NewStore(file), nil
}

func runEventsExport(cmd *cobra.Command, args []string) error {
	store, err := eventStoreForCommand()
	if err != nil {
		return err
	}

	if eventsFlagOutput == "" || eventsFlagOutput == "-" {
		_, err := store.ExportCSV(cmd.OutOrStdout())
		return err
	}

	if dir := filepath.Dir(eventsFlagOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(eventsFlagOutput)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	n, err := store.ExportCSV(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("exporting events: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d event(s) to %s\n", n, eventsFlagOutput)
	return nil
}

func runEventsClear(cmd *cobra.Command, args []string) error {
	store, err := eventStoreForCommand()
	if err != nil {
		return err
	}
	if flagDryRun {
		fmt.Fprintf(cmd.ErrOrStderr(), "dry run: would delete %s\n", store.Path())
		return nil
	}
	if _, statErr := os.Stat(store.Path()); errors.Is(statErr, os.ErrNotExist) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Event log is already empty.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", store.Path())
	return nil
}

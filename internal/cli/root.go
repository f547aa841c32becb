package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose  bool
	flagQuiet    bool
	flagConfig   string
	flagDir      string
	flagDryRun   bool
	flagNoColor  bool
	flagNoEvents bool
)

// rootCmd is the base command for bacc.
var rootCmd = &cobra.Command{
	Use:   "bacc",
	Short: "Childcare allowance calculator and advocacy survey",
	Long: `bacc estimates the monthly Basic Allowance for Child Care (BACC) for a
military family from pay grade, duty location, family cost share and the
ages of the children, then invites the family to take a short advocacy
survey whose answers are sent to the survey endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// With no subcommand, run the interactive calculator followed by the
	// survey. Help is still available via `bacc --help`.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGuided(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupGlobals(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) output (env: BACC_VERBOSE)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all output except errors (env: BACC_QUIET)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to bacc.toml config file")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Override working directory")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Show planned actions without executing")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output (env: BACC_NO_COLOR, NO_COLOR)")
	rootCmd.PersistentFlags().BoolVar(&flagNoEvents, "no-events", false, "Do not write the interaction event log")
}

// setupGlobals applies environment fallbacks for the global flags, then
// configures logging, color and the working directory.
func setupGlobals(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("verbose") && os.Getenv("BACC_VERBOSE") != "" {
		flagVerbose = true
	}
	if !flags.Changed("quiet") && os.Getenv("BACC_QUIET") != "" {
		flagQuiet = true
	}
	if !flags.Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("BACC_NO_COLOR") != "") {
		flagNoColor = true
	}

	format := logging.ParseFormat(os.Getenv("BACC_LOG_FORMAT"))
	logging.Setup(flagVerbose, flagQuiet, format == logging.FormatJSON)

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if flagDir != "" {
		if err := os.Chdir(flagDir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagDir, err)
		}
	}

	return nil
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// NewRootCmd returns a fresh root command carrying the same persistent flags
// and subcommands as the global tree, for the completion and man page
// generators.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               rootCmd.Use,
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose (debug) output (env: BACC_VERBOSE)")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors (env: BACC_QUIET)")
	cmd.PersistentFlags().String("config", "", "Path to bacc.toml config file")
	cmd.PersistentFlags().String("dir", "", "Override working directory")
	cmd.PersistentFlags().Bool("dry-run", false, "Show planned actions without executing")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output (env: BACC_NO_COLOR, NO_COLOR)")
	cmd.PersistentFlags().Bool("no-events", false, "Do not write the interaction event log")

	for _, child := range rootCmd.Commands() {
		cmd.AddCommand(child)
	}
	return cmd
}

// =============================================================================
// Contractor Bill Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (billgen)
//   ├── processCmd (billgen process)
//   ├── validateCmd (billgen validate)
//   └── versionCmd (billgen version)
//
// CONFIGURATION:
//   Before any command that needs it runs, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads the main configuration (with BILLGEN_ environment overrides)
//   3. Builds the structured logger from the configuration and --verbose
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/config"
	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig and logger are set up by the root command before a
// subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     *slog.Logger
)

// skipConfig marks commands that run without a configuration file.
const skipConfig = "skip-config"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "billgen",
	Short: "Contractor Bill Generator - Produce contractor bills from measurement workbooks",
	Long: `Contractor Bill Generator turns the measurement workbook of a works
contract into the documents of a contractor bill: the first page, the payment
certificate, the deviation statement, the extra items list and the note sheet.

Each workbook holds three sheets (Work Order, Bill Quantity, Extra Items).
The tender premium, bill stage and contract details come from a job file
matched to the workbook by name.

Example Usage:
  billgen process                    # Bill every workbook in the input directory
  billgen process --config ./my.yaml # Use a custom configuration file
  billgen validate --file wall.xlsx  # Check a workbook without writing anything`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}

		// A missing .env file is normal.
		_ = godotenv.Load()

		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load main config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		mainConfig = cfg
		logger = logging.New(level, cfg.LogFormat, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.Annotations = map[string]string{skipConfig: "true"}

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

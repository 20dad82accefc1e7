// carmerge is a drag-and-merge car puzzle played with the mouse in the
// terminal.
//
// Usage:
//
//	carmerge list                - List available variants
//	carmerge play [variant]      - Play locally (picker if no variant)
//	carmerge serve               - Start SSH server for remote play
//	carmerge history [variant]   - Show best rounds
//	carmerge config              - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible layouts
//	--db <path>         - Set database path (default: ~/.carmerge/rounds.db)
//	--config <path>     - Use a custom carmerge.yaml
//	--log-file <path>   - Write logs to a file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import variants to register them
	_ "github.com/vovakirdan/carmerge/internal/game"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carmerge",
	Short: "Car Merge - drag matching cars together in your terminal",
	Long: `Car Merge is a mouse-driven puzzle: drag a car onto another car of the
same color to merge them. Keep merging until only the escort is left.

Available commands:
  list     - Show all variants
  play     - Play a variant
  serve    - Start SSH server for remote play
  history  - View best rounds
  config   - Print the effective configuration

Examples:
  carmerge list
  carmerge play classic
  carmerge play --watch :8080
  carmerge serve --ssh :2222
  carmerge history rush`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.carmerge/rounds.db", "Path to round history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom carmerge.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

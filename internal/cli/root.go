// Package cli wires the salah-watch commands: the window table, the live
// watch loop, notification mode control, and configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aalrahma/salah-watch/internal/config"
)

// Global flags shared across all subcommands.
var (
	flagLatitude   float64
	flagLongitude  float64
	flagCity       string
	flagCountry    string
	flagMethod     int
	flagSchool     int
	flagTimeFormat string
	flagStatePath  string
	flagJSON       bool
)

// loadedConfig holds the config loaded during PersistentPreRunE, available
// to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command. The version parameter is set by the
// calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salah-watch",
		Short:   "Prayer-time windows, countdowns, and reminders",
		Long:    "Track the day's prayer and worship windows from the Al Adhan API,\nwith a live countdown and start/end reminders.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's window table.
		RunE:          runWindows,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&flagLatitude, "latitude", 0, "Override latitude (takes precedence over config)")
	pf.Float64Var(&flagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&flagCity, "city", "", "City name (alternative to coordinates)")
	pf.StringVar(&flagCountry, "country", "", "Country (used with --city)")
	pf.IntVar(&flagMethod, "method", -1, "Calculation method ID (0-23). -1 for API default.")
	pf.IntVar(&flagSchool, "school", -1, "Juristic school: 0=Shafi, 1=Hanafi. -1 for API default.")
	pf.StringVar(&flagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&flagStatePath, "state-path", "", "State database path (default: ~/.local/state/salah-watch/state.db)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON (where supported)")

	rootCmd.AddCommand(newWindowsCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newModeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// effectiveConfig merges CLI flags over the loaded config file values.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := *loadedConfig

	flags := cmd.Flags()
	apply := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	apply("latitude", func() { cfg.Latitude = flagLatitude })
	apply("longitude", func() { cfg.Longitude = flagLongitude })
	apply("city", func() { cfg.City = flagCity })
	apply("country", func() { cfg.Country = flagCountry })
	apply("method", func() { cfg.Method = flagMethod })
	apply("school", func() { cfg.School = flagSchool })
	apply("time-format", func() { cfg.TimeFormat = flagTimeFormat })
	apply("state-path", func() { cfg.StatePath = flagStatePath })

	return &cfg
}

// lookupFlag exists so tests can assert flag registration without executing
// network-bound commands.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	return cmd.PersistentFlags().Lookup(name)
}

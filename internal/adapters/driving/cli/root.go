// Package cli implements the changegear command line interface with cobra.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands run against. Set by main before Execute.
var (
	calculatorService driving.CalculatorService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService
	metricsHandler    http.Handler
	configWatcher     ConfigWatcher
)

// Global flags.
var (
	verbose bool
	homeDir string
)

// ConfigWatcher blocks until ctx ends, calling onChange whenever the
// settings file changes on disk.
type ConfigWatcher func(ctx context.Context, onChange func()) error

// Initializer builds the services for the resolved home directory and
// registers them with SetServices. The returned cleanup runs after the
// command finishes.
type Initializer func(home string) (cleanup func(), err error)

var (
	initializer Initializer
	teardown    func()
)

// Services groups everything the commands depend on.
type Services struct {
	Calculator  driving.CalculatorService
	History     driving.HistoryService
	Settings    driving.SettingsService
	Metrics     http.Handler
	WatchConfig ConfigWatcher
}

var rootCmd = &cobra.Command{
	Use:   "changegear",
	Short: "Find lathe change-gear trains for a target ratio",
	Long: `changegear searches every arrangement of a set of change gears across a
chain of shafts, rejects trains whose gears would collide, and ranks the rest
by how closely they reach the target ratio and how evenly they share load.

Run "changegear calc" for a one-off search or "changegear tui" to work
interactively. Completed searches are kept in the history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if initializer == nil || teardown != nil {
			return nil
		}
		c, err := initializer(homeDir)
		if err != nil {
			return err
		}
		teardown = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "config and data directory (default ~/.changegear)")
}

// SetVersion sets the version reported by "changegear version".
func SetVersion(v string) {
	version = v
}

// SetServices registers the services used by every command.
func SetServices(s Services) {
	calculatorService = s.Calculator
	historyService = s.History
	settingsService = s.Settings
	metricsHandler = s.Metrics
	configWatcher = s.WatchConfig
}

// SetInitializer registers the function that wires services once the
// global flags are parsed.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if teardown != nil {
			teardown()
			teardown = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// watchConfig reloads settings in the background for long-running commands.
// onChange, when set, runs after each reload.
func watchConfig(ctx context.Context, onChange func()) {
	if configWatcher == nil {
		return
	}
	go func() {
		err := configWatcher(ctx, func() {
			logger.Info("settings file changed, reloaded")
			if onChange != nil {
				onChange()
			}
		})
		if err != nil {
			logger.Warn("settings watcher stopped: %v", err)
		}
	}()
}

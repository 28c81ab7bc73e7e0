// Command changegear searches lathe change-gear trains for a target ratio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/changegear/internal/adapters/driven/config/file"
	"github.com/custodia-labs/changegear/internal/adapters/driven/metrics"
	"github.com/custodia-labs/changegear/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/changegear/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/changegear/internal/adapters/driving/cli"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
	"github.com/custodia-labs/changegear/internal/core/services"
	"github.com/custodia-labs/changegear/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetInitializer(wire)

	if err := cli.Execute(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// wire builds the services rooted at home and registers them with the CLI.
func wire(home string) (func(), error) {
	if home == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		home = dir
	}
	logger.Debug("home directory: %s", home)

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	settings := services.NewSettingsService(configStore)

	var store driven.CalculationStore
	closeStore := func() {}
	db, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		logger.Warn("history database unavailable, keeping history in memory: %v", err)
		store = memory.NewCalculationStore()
	} else {
		store = db.CalculationStore()
		closeStore = func() {
			if cerr := db.Close(); cerr != nil {
				logger.Warn("closing history database: %v", cerr)
			}
		}
	}

	recorder := metrics.NewRecorder()
	history := services.NewHistoryService(store, settings)
	calculator := services.NewCalculatorService(settings, history, recorder)

	cli.SetServices(cli.Services{
		Calculator:  calculator,
		History:     history,
		Settings:    settings,
		Metrics:     recorder.Handler(),
		WatchConfig: configStore.Watch,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		CalculatorService: calculator,
		HistoryService:    history,
		SettingsService:   settings,
	})

	return closeStore, nil
}

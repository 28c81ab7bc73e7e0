package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	CalculatorService driving.CalculatorService
	HistoryService    driving.HistoryService
	SettingsService   driving.SettingsService
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for changegear.

Fill in the calculation form, watch the search progress and browse the
ranked trains and saved calculations with the keyboard.

Controls:
  ↑/k, ↓/j   - Navigate
  Tab        - Next field
  Enter      - Select / Calculate
  Esc        - Back / Stop search
  q          - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	// Build ports from configuration, falling back to the command services
	ports := &tui.Ports{
		Calculator: calculatorService,
		History:    historyService,
		Settings:   settingsService,
	}
	if tuiConfig != nil {
		ports.Calculator = tuiConfig.CalculatorService
		ports.History = tuiConfig.HistoryService
		ports.Settings = tuiConfig.SettingsService
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Settings edits made elsewhere show up in the next form
	watchConfig(cmd.Context(), func() {
		p.Send(app.ReloadSettings())
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

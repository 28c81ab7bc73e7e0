package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the calculator defaults and other options.

Settings are stored in config.toml in the changegear home directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Gear lists are comma or space separated.

Examples:
  changegear settings set calculator.change_gears 20,25,30,40,50,127
  changegear settings set calculator.shared_input false
  changegear settings set search.step_budget_ms 25`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Calculator]")
	printParams(cmd, settings.Calculator.Params)
	cmd.Printf("  Bookmark: %s\n", bookmark.Encode(settings.Calculator.Params))
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Result limit: %d\n", settings.Display.ResultLimit)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Step budget: %s\n", settings.Search.StepBudget)
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %t\n", settings.History.Enabled)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrUnknownSetting) {
			return fmt.Errorf("unknown setting %q, valid keys are:\n  %s",
				key, strings.Join(settingsService.Keys(), "\n  "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// printParams lists calculation parameters one per line.
func printParams(cmd *cobra.Command, p domain.CalculationParams) {
	cmd.Printf("  Shafts: %d\n", p.ShaftCount)
	cmd.Printf("  Change gears: %s\n", gearList(p.ChangeGears))
	if p.SharedInputGears {
		cmd.Println("  Input gears: shared with change gears")
	} else {
		cmd.Printf("  Input gears: %s\n", gearList(p.InputGears))
	}
	cmd.Printf("  Target multiplier: %g\n", p.TargetMultiplier)
	cmd.Printf("  Module: %g\n", p.Module)
	cmd.Printf("  Addendum: %g\n", p.Addendum)
	cmd.Printf("  Spacer: %d (input %d)\n", p.SpacerSize, p.InputSpacerSize)
	cmd.Printf("  Distance: %s\n", distanceBounds(p))
}

func gearList(gears []int) string {
	if len(gears) == 0 {
		return "(none)"
	}
	parts := make([]string, len(gears))
	for i, g := range gears {
		parts[i] = fmt.Sprint(g)
	}
	return strings.Join(parts, ", ")
}

func distanceBounds(p domain.CalculationParams) string {
	switch {
	case p.MinDistance > 0 && p.MaxDistance > 0:
		return fmt.Sprintf("%g to %g", p.MinDistance, p.MaxDistance)
	case p.MinDistance > 0:
		return fmt.Sprintf("at least %g", p.MinDistance)
	case p.MaxDistance > 0:
		return fmt.Sprintf("at most %g", p.MaxDistance)
	default:
		return "unbounded"
	}
}

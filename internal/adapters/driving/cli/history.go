package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved calculations",
	Long: `List, show and delete calculations saved by "changegear calc", the TUI and
the MCP server. Saved calculations keep the leading trains up to the
display.result_limit setting.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of calculations")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	calcs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		out := make([]calculationJSON, len(calcs))
		for i := range calcs {
			out[i] = toCalculationJSON(&calcs[i], 0)
		}
		return outputJSON(cmd, out)
	}

	if len(calcs) == 0 {
		cmd.Println("No saved calculations.")
		return nil
	}

	rows := make([][]string, len(calcs))
	for i := range calcs {
		c := &calcs[i]
		best := "-"
		if t := c.Best(); t != nil {
			best = fmt.Sprintf("%s (%.6f)", t.String(), t.OutputMultiplier)
		}
		rows[i] = []string{
			c.ID,
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(c.Params.ShaftCount),
			strconv.FormatFloat(c.Params.TargetMultiplier, 'g', -1, 64),
			strconv.FormatUint(c.Progress.Found, 10),
			best,
		}
	}

	cmd.Println(table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Created", "Shafts", "Target", "Found", "Best").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	calc, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("calculation %s not found", args[0])
		}
		return fmt.Errorf("failed to get calculation: %w", err)
	}

	if historyJSON {
		return outputJSON(cmd, toCalculationJSON(calc, 0))
	}

	cmd.Printf("Calculation %s\n", calc.ID)
	cmd.Printf("Created: %s\n", calc.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printParams(cmd, calc.Params)
	cmd.Println()
	printCalculation(cmd, calc, 0)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("calculation %s not found", args[0])
		}
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	cmd.Printf("Deleted calculation %s\n", args[0])
	return nil
}

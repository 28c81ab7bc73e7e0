package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/core/services"
)

// progressRedraw is the minimum gap between progress line redraws.
const progressRedraw = 100 * time.Millisecond

var (
	calcShafts      int
	calcGears       string
	calcInputGears  string
	calcShared      bool
	calcTarget      float64
	calcModule      float64
	calcAddendum    float64
	calcSpacer      int
	calcInputSpacer int
	calcMinDistance float64
	calcMaxDistance float64
	calcBookmark    string
	calcLimit       int
	calcJSON        bool
	calcNoSave      bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Search for gear trains",
	Long: `Searches every arrangement of the change gears over the given number of
shafts and prints the trains closest to the target multiplier.

Flags that are not given fall back to a bookmark (--bookmark) and then to
the calculator defaults in settings. Gear lists are comma or space separated.

Examples:
  changegear calc --shafts 3 --gears 20,30,40,50 --shared --target 1.5
  changegear calc --bookmark "shafts=4&gears=20,25,30,127&shared=1&target=0.5"`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	flags := calcCmd.Flags()
	flags.IntVarP(&calcShafts, "shafts", "s", 0, "number of shafts in the train")
	flags.StringVarP(&calcGears, "gears", "g", "", "change gear tooth counts")
	flags.StringVar(&calcInputGears, "input-gears", "", "tooth counts available on the input shaft")
	flags.BoolVar(&calcShared, "shared", false, "draw the input gear from the change gears")
	flags.Float64VarP(&calcTarget, "target", "t", 0, "target output multiplier")
	flags.Float64VarP(&calcModule, "module", "m", 0, "gear module")
	flags.Float64Var(&calcAddendum, "addendum", 0, "tooth clearance margin per gear")
	flags.IntVar(&calcSpacer, "spacer", 0, "spacer size of single-gear shafts")
	flags.IntVar(&calcInputSpacer, "input-spacer", 0, "spacer size of the input shaft")
	flags.Float64Var(&calcMinDistance, "min-distance", 0, "minimum first-to-last shaft distance (0 = none)")
	flags.Float64Var(&calcMaxDistance, "max-distance", 0, "maximum first-to-last shaft distance (0 = none)")
	flags.StringVarP(&calcBookmark, "bookmark", "b", "", "parameters from a saved bookmark")
	flags.IntVarP(&calcLimit, "limit", "n", 0, "number of trains to show (default from settings)")
	flags.BoolVar(&calcJSON, "json", false, "output results as JSON")
	flags.BoolVar(&calcNoSave, "no-save", false, "do not add this calculation to the history")
	calcCmd.MarkFlagsMutuallyExclusive("input-gears", "shared")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, _ []string) error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}

	cfg := currentSettings()
	params, err := calcParams(cmd, cfg.Calculator.Params)
	if err != nil {
		return err
	}

	run, err := calculatorService.NewRun(params)
	if err != nil {
		return err
	}

	calc, complete, err := driveRun(cmd.Context(), run, cfg.Search.StepBudget, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !complete {
		cmd.PrintErrln("Interrupted: showing partial results.")
	}

	if complete && !calcNoSave && cfg.History.Enabled && historyService != nil {
		if err := historyService.Save(cmd.Context(), calc); err != nil {
			cmd.PrintErrf("Warning: failed to save calculation: %v\n", err)
		}
	}

	limit := calcLimit
	if limit <= 0 {
		limit = cfg.Display.ResultLimit
	}
	if calcJSON {
		return outputJSON(cmd, toCalculationJSON(calc, limit))
	}
	printCalculation(cmd, calc, limit)
	return nil
}

// calcParams layers the bookmark and then explicitly set flags over base.
func calcParams(cmd *cobra.Command, base domain.CalculationParams) (domain.CalculationParams, error) {
	params := base
	if calcBookmark != "" {
		p, err := bookmark.Apply(calcBookmark, params)
		if err != nil {
			return domain.CalculationParams{}, fmt.Errorf("invalid bookmark: %w", err)
		}
		params = p
	}

	flags := cmd.Flags()
	if flags.Changed("shafts") {
		params.ShaftCount = calcShafts
	}
	if flags.Changed("gears") {
		gears, err := services.ParseGearList(calcGears)
		if err != nil {
			return domain.CalculationParams{}, fmt.Errorf("--gears: %w", err)
		}
		params.ChangeGears = gears
	}
	if flags.Changed("input-gears") {
		gears, err := services.ParseGearList(calcInputGears)
		if err != nil {
			return domain.CalculationParams{}, fmt.Errorf("--input-gears: %w", err)
		}
		params.InputGears = gears
		params.SharedInputGears = false
	}
	if flags.Changed("shared") {
		params.SharedInputGears = calcShared
	}
	if flags.Changed("target") {
		params.TargetMultiplier = calcTarget
	}
	if flags.Changed("module") {
		params.Module = calcModule
	}
	if flags.Changed("addendum") {
		params.Addendum = calcAddendum
	}
	if flags.Changed("spacer") {
		params.SpacerSize = calcSpacer
	}
	if flags.Changed("input-spacer") {
		params.InputSpacerSize = calcInputSpacer
	}
	if flags.Changed("min-distance") {
		params.MinDistance = calcMinDistance
	}
	if flags.Changed("max-distance") {
		params.MaxDistance = calcMaxDistance
	}
	return params, nil
}

// driveRun steps run until it completes or ctx ends, redrawing a progress
// line on w when w is a terminal. An interrupted run is finished with the
// trains found so far and complete set to false.
func driveRun(
	ctx context.Context,
	run driving.CalculationRun,
	budget time.Duration,
	w io.Writer,
) (calc *domain.Calculation, complete bool, err error) {
	live := isTerminal(w)
	limiter := rate.NewLimiter(rate.Every(progressRedraw), 1)

	complete = true
	for !run.Step(budget) {
		if ctx.Err() != nil {
			complete = false
			break
		}
		if live && limiter.Allow() {
			drawProgress(w, run.Progress())
		}
	}
	if live {
		fmt.Fprint(w, "\r\033[K")
	}

	calc, err = run.Finish()
	if err != nil {
		return nil, false, err
	}
	return calc, complete, nil
}

func drawProgress(w io.Writer, p domain.Progress) {
	fmt.Fprintf(w, "\r\033[KSearching %5.1f%%  found %d  skipped %d  discarded %d",
		p.Fraction()*100, p.Found, p.Skipped, p.Discarded)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// currentSettings returns the stored settings, or defaults when none are
// available.
func currentSettings() domain.AppSettings {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}

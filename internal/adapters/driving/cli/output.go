package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = cellStyle.Foreground(lipgloss.Color("#22C55E"))
)

// trainTable renders ranked trains, best first.
func trainTable(trains []domain.GearTrain, params domain.CalculationParams) string {
	rows := make([][]string, len(trains))
	for i := range trains {
		t := trains[i]
		rows[i] = []string{
			strconv.Itoa(i + 1),
			t.String(),
			t.RatioString(),
			fmt.Sprintf("%.6f", t.OutputMultiplier),
			fmt.Sprintf("%.6f", t.Deviation(params.TargetMultiplier)),
			fmt.Sprintf("%.4f", t.MaxForce),
			fmt.Sprintf("%.1f", t.TotalDistance(params.Module)),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Train", "Ratio", "Multiplier", "Deviation", "Max force", "Distance").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return headerStyle
			case 0:
				return bestStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

// printCalculation writes the counters, the ranked table and the bookmark.
func printCalculation(cmd *cobra.Command, calc *domain.Calculation, limit int) {
	p := calc.Progress
	cmd.Printf("Searched %d candidates in %s: %d found, %d skipped, %d discarded\n",
		p.Total, calc.Duration.Round(time.Millisecond), p.Found, p.Skipped, p.Discarded)
	cmd.Println()

	trains := limitTrains(calc.Trains, limit)
	if len(trains) == 0 {
		cmd.Println("No gear trains found.")
	} else {
		cmd.Println(trainTable(trains, calc.Params))
		if len(trains) < len(calc.Trains) {
			cmd.Printf("Showing %d of %d trains.\n", len(trains), len(calc.Trains))
		}
	}
	cmd.Println()
	cmd.Printf("Bookmark: %s\n", bookmark.Encode(calc.Params))
}

func limitTrains(trains []domain.GearTrain, limit int) []domain.GearTrain {
	if limit > 0 && len(trains) > limit {
		return trains[:limit]
	}
	return trains
}

// trainJSON is the machine-readable form of a ranked train.
type trainJSON struct {
	Rank       int            `json:"rank"`
	Train      string         `json:"train"`
	Shafts     []domain.Shaft `json:"shafts"`
	Ratio      string         `json:"ratio"`
	Multiplier float64        `json:"multiplier"`
	Deviation  float64        `json:"deviation"`
	MaxForce   float64        `json:"max_force"`
	Distance   float64        `json:"distance"`
}

// calculationJSON is the machine-readable form of a calculation.
type calculationJSON struct {
	ID         string                   `json:"id"`
	CreatedAt  time.Time                `json:"created_at"`
	DurationMS int64                    `json:"duration_ms"`
	Params     domain.CalculationParams `json:"params"`
	Found      uint64                   `json:"found"`
	Skipped    uint64                   `json:"skipped"`
	Discarded  uint64                   `json:"discarded"`
	Total      uint64                   `json:"total"`
	Bookmark   string                   `json:"bookmark"`
	Trains     []trainJSON              `json:"trains"`
}

func toCalculationJSON(calc *domain.Calculation, limit int) calculationJSON {
	trains := limitTrains(calc.Trains, limit)
	out := calculationJSON{
		ID:         calc.ID,
		CreatedAt:  calc.CreatedAt,
		DurationMS: calc.Duration.Milliseconds(),
		Params:     calc.Params,
		Found:      calc.Progress.Found,
		Skipped:    calc.Progress.Skipped,
		Discarded:  calc.Progress.Discarded,
		Total:      calc.Progress.Total,
		Bookmark:   bookmark.Encode(calc.Params),
		Trains:     make([]trainJSON, len(trains)),
	}
	for i := range trains {
		t := trains[i]
		out.Trains[i] = trainJSON{
			Rank:       i + 1,
			Train:      t.String(),
			Shafts:     t.Shafts,
			Ratio:      t.RatioString(),
			Multiplier: t.OutputMultiplier,
			Deviation:  t.Deviation(calc.Params.TargetMultiplier),
			MaxForce:   t.MaxForce,
			Distance:   t.TotalDistance(calc.Params.Module),
		}
	}
	return out
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

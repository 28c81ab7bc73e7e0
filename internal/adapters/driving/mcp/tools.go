package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

// defaultLimit is the number of trains returned when the caller gives no limit
// and no settings are available.
const defaultLimit = 10

// CalculateInput is the input schema for the calculate tool.
// Omitted fields fall back to the bookmark, then to the calculator defaults.
type CalculateInput struct {
	Bookmark    string   `json:"bookmark,omitempty" jsonschema:"query string from a previous result to start from"`
	Shafts      int      `json:"shafts,omitempty" jsonschema:"number of shafts in the train (2 to 8)"`
	Gears       []int    `json:"gears,omitempty" jsonschema:"available change gear tooth counts"`
	InputGears  []int    `json:"input_gears,omitempty" jsonschema:"tooth counts for the input shaft; implies shared=false"`
	Shared      *bool    `json:"shared,omitempty" jsonschema:"draw the input gear from the change gears"`
	Target      float64  `json:"target,omitempty" jsonschema:"target output multiplier"`
	Module      float64  `json:"module,omitempty" jsonschema:"gear module"`
	Addendum    *float64 `json:"addendum,omitempty" jsonschema:"tooth clearance margin per gear"`
	Spacer      *int     `json:"spacer,omitempty" jsonschema:"spacer size of single-gear shafts"`
	InputSpacer *int     `json:"input_spacer,omitempty" jsonschema:"spacer size of the input shaft"`
	MinDistance *float64 `json:"min_distance,omitempty" jsonschema:"minimum first-to-last shaft distance (0 = none)"`
	MaxDistance *float64 `json:"max_distance,omitempty" jsonschema:"maximum first-to-last shaft distance (0 = none)"`
	Limit       int      `json:"limit,omitempty" jsonschema:"maximum number of trains to return"`
}

// CalculateOutput is the output schema for the calculate tool.
type CalculateOutput struct {
	ID         string        `json:"id"`
	Found      uint64        `json:"found"`
	Skipped    uint64        `json:"skipped"`
	Discarded  uint64        `json:"discarded"`
	Total      uint64        `json:"total"`
	DurationMS int64         `json:"duration_ms"`
	Bookmark   string        `json:"bookmark"`
	Trains     []TrainOutput `json:"trains"`
	Count      int           `json:"count"`
}

// TrainOutput represents a single ranked gear train.
type TrainOutput struct {
	Rank       int     `json:"rank"`
	Train      string  `json:"train"`
	Ratio      string  `json:"ratio"`
	Multiplier float64 `json:"multiplier"`
	Deviation  float64 `json:"deviation"`
	MaxForce   float64 `json:"max_force"`
	Distance   float64 `json:"distance"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "calculate",
		Description: "Search lathe change-gear trains for a target multiplier. " +
			"Returns the best trains ranked by deviation from the target, then by tooth load.",
	}, s.handleCalculate)
}

// handleCalculate handles the calculate tool invocation.
func (s *Server) handleCalculate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CalculateInput,
) (*mcp.CallToolResult, CalculateOutput, error) {
	cfg := s.settings()
	params, err := input.params(cfg.Calculator.Params)
	if err != nil {
		return nil, CalculateOutput{}, err
	}

	calc, err := s.ports.Calculator.Calculate(ctx, params, nil)
	if err != nil {
		return nil, CalculateOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.Display.ResultLimit
	}

	trains := calc.Trains
	if limit > 0 && len(trains) > limit {
		trains = trains[:limit]
	}

	output := CalculateOutput{
		ID:         calc.ID,
		Found:      calc.Progress.Found,
		Skipped:    calc.Progress.Skipped,
		Discarded:  calc.Progress.Discarded,
		Total:      calc.Progress.Total,
		DurationMS: calc.Duration.Milliseconds(),
		Bookmark:   bookmark.Encode(calc.Params),
		Trains:     trainOutputs(trains, calc.Params),
		Count:      len(trains),
	}
	return nil, output, nil
}

// params overlays the bookmark and the given fields onto base.
func (in CalculateInput) params(base domain.CalculationParams) (domain.CalculationParams, error) {
	p := base
	if in.Bookmark != "" {
		var err error
		if p, err = bookmark.Apply(in.Bookmark, base); err != nil {
			return domain.CalculationParams{}, fmt.Errorf("bookmark: %w", err)
		}
	}

	if in.Shafts > 0 {
		p.ShaftCount = in.Shafts
	}
	if len(in.Gears) > 0 {
		p.ChangeGears = in.Gears
	}
	if len(in.InputGears) > 0 {
		p.InputGears = in.InputGears
		p.SharedInputGears = false
	}
	if in.Shared != nil {
		p.SharedInputGears = *in.Shared
	}
	if in.Target > 0 {
		p.TargetMultiplier = in.Target
	}
	if in.Module > 0 {
		p.Module = in.Module
	}
	if in.Addendum != nil {
		p.Addendum = *in.Addendum
	}
	if in.Spacer != nil {
		p.SpacerSize = *in.Spacer
	}
	if in.InputSpacer != nil {
		p.InputSpacerSize = *in.InputSpacer
	}
	if in.MinDistance != nil {
		p.MinDistance = *in.MinDistance
	}
	if in.MaxDistance != nil {
		p.MaxDistance = *in.MaxDistance
	}
	return p, nil
}

func trainOutputs(trains []domain.GearTrain, params domain.CalculationParams) []TrainOutput {
	out := make([]TrainOutput, len(trains))
	for i := range trains {
		t := trains[i]
		out[i] = TrainOutput{
			Rank:       i + 1,
			Train:      t.String(),
			Ratio:      t.RatioString(),
			Multiplier: t.OutputMultiplier,
			Deviation:  t.Deviation(params.TargetMultiplier),
			MaxForce:   t.MaxForce,
			Distance:   t.TotalDistance(params.Module),
		}
	}
	return out
}

// settings returns the stored settings, falling back to defaults.
func (s *Server) settings() domain.AppSettings {
	if s.ports.Settings != nil {
		if cfg, err := s.ports.Settings.Get(); err == nil {
			return *cfg
		}
	}
	cfg := domain.DefaultAppSettings()
	cfg.Display.ResultLimit = defaultLimit
	return cfg
}

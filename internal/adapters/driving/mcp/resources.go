package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/changegear/internal/adapters/driving/bookmark"
	"github.com/custodia-labs/changegear/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for changegear resources.
	uriScheme = "changegear://"

	// historyListLimit caps the calculations listed by the collection resource.
	historyListLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing saved calculations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "calculations",
		Name:        "calculations",
		Description: "Recently saved calculations, newest first",
		MIMEType:    "application/json",
	}, s.handleCalculationsResource)

	// Template for a single saved calculation.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "calculations/{id}",
		Name:        "calculation",
		Description: "Parameters, counters and ranked trains of a saved calculation",
		MIMEType:    "application/json",
	}, s.handleCalculationResource)
}

// calculationSummary is one entry of the calculations listing.
type calculationSummary struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"created_at"`
	Shafts    int       `json:"shafts"`
	Target    float64   `json:"target"`
	Found     uint64    `json:"found"`
	Best      string    `json:"best,omitempty"`
	Bookmark  string    `json:"bookmark"`
}

// calculationDetail is the full form of a saved calculation.
type calculationDetail struct {
	ID         string                   `json:"id"`
	CreatedAt  time.Time                `json:"created_at"`
	DurationMS int64                    `json:"duration_ms"`
	Params     domain.CalculationParams `json:"params"`
	Found      uint64                   `json:"found"`
	Skipped    uint64                   `json:"skipped"`
	Discarded  uint64                   `json:"discarded"`
	Total      uint64                   `json:"total"`
	Bookmark   string                   `json:"bookmark"`
	Trains     []TrainOutput            `json:"trains"`
}

// handleCalculationsResource returns a summary of saved calculations.
func (s *Server) handleCalculationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	calcs, err := s.ports.History.List(ctx, historyListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing calculations: %w", err)
	}

	infos := make([]calculationSummary, len(calcs))
	for i := range calcs {
		c := &calcs[i]
		infos[i] = calculationSummary{
			ID:        c.ID,
			URI:       uriScheme + "calculations/" + c.ID,
			CreatedAt: c.CreatedAt,
			Shafts:    c.Params.ShaftCount,
			Target:    c.Params.TargetMultiplier,
			Found:     c.Progress.Found,
			Bookmark:  bookmark.Encode(c.Params),
		}
		if best := c.Best(); best != nil {
			infos[i].Best = best.String()
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling calculations: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleCalculationResource returns one saved calculation.
func (s *Server) handleCalculationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract id from URI: changegear://calculations/{id}
	id := extractCalculationID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	calc, err := s.ports.History.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting calculation: %w", err)
	}

	detail := calculationDetail{
		ID:         calc.ID,
		CreatedAt:  calc.CreatedAt,
		DurationMS: calc.Duration.Milliseconds(),
		Params:     calc.Params,
		Found:      calc.Progress.Found,
		Skipped:    calc.Progress.Skipped,
		Discarded:  calc.Progress.Discarded,
		Total:      calc.Progress.Total,
		Bookmark:   bookmark.Encode(calc.Params),
		Trains:     trainOutputs(calc.Trains, calc.Params),
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling calculation: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractCalculationID extracts the ID from a URI like changegear://calculations/{id}.
func extractCalculationID(uri string) string {
	const prefix = uriScheme + "calculations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"genesis_architect/internal/ai/prompts"
	aiutils "genesis_architect/internal/ai/utils"
	"genesis_architect/internal/types"

	"github.com/google/uuid"
)

// rawTailLength is how much of an unparseable response ends up in the log.
const rawTailLength = 100

// GenerateArchitecture asks the configured model for a reuse-oriented project
// layout and returns the parsed result. There is no retry: one outbound call,
// one strict parse, one fence-stripped reparse.
func (g *Generator) GenerateArchitecture(ctx context.Context, req types.GenerationRequest) (*types.GeneratedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	apiKey := g.generationKey()
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	requestID := uuid.New().String()
	systemPrompt, userPrompt := prompts.GetArchitecturePrompt(req)
	log.Printf("Generating architecture %s via %s/%s (app=%s stack=%s arch=%s)",
		requestID, g.completer.Name(), g.completer.Model(), req.AppType, req.Stack, req.Architecture)

	raw, err := g.completer.Complete(ctx, apiKey, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("architecture generation failed: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}

	result, err := aiutils.ParseGeneratedResult(raw)
	if err != nil {
		log.Printf("ERROR: Could not parse model output for %s: %v", requestID, err)
		log.Printf("Raw response tail for %s: %s", requestID, aiutils.Tail(raw, rawTailLength))
		return nil, err
	}

	log.Printf("Architecture %s ready: %d top-level nodes, %d reused snippets",
		requestID, len(result.FileTree), len(result.ReusedSnippets))
	return result, nil
}

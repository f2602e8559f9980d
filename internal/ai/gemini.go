package ai

import (
	"context"
	"fmt"
	"strings"

	"genesis_architect/internal/ai/prompts"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/api/option"
)

type geminiCompleter struct {
	model string
}

func (g *geminiCompleter) Name() string  { return ProviderGemini }
func (g *geminiCompleter) Model() string { return g.model }

// Complete opens a client for this call only; the key may change between calls.
func (g *geminiCompleter) Complete(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini init: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = geminiSchema(prompts.ResultSchema())

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

var geminiTypes = map[jsonschema.DataType]genai.Type{
	jsonschema.Object:  genai.TypeObject,
	jsonschema.Array:   genai.TypeArray,
	jsonschema.String:  genai.TypeString,
	jsonschema.Number:  genai.TypeNumber,
	jsonschema.Integer: genai.TypeInteger,
	jsonschema.Boolean: genai.TypeBoolean,
}

// geminiSchema converts the shared schema definition into Gemini's form.
func geminiSchema(def jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Type:        geminiTypes[def.Type],
		Description: def.Description,
		Required:    def.Required,
		Nullable:    def.Nullable,
	}
	if len(def.Enum) > 0 {
		s.Format = "enum"
		s.Enum = def.Enum
	}
	if def.Items != nil {
		s.Items = geminiSchema(*def.Items)
	}
	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			s.Properties[name] = geminiSchema(prop)
		}
	}
	return s
}

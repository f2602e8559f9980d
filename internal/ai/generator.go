package ai

import (
	"context"
	"errors"
	"fmt"

	aiutils "genesis_architect/internal/ai/utils"
	"genesis_architect/internal/types"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-3-pro-preview"
	DefaultOpenAIModel = "gpt-4o"

	DefaultGeminiSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultOpenAISpeechModel = "tts-1"
)

var (
	// ErrMissingAPIKey is reported per call when no credential is configured.
	ErrMissingAPIKey = errors.New("API Key not found in environment variables")
	ErrEmptyResponse = errors.New("No response from AI")
	ErrNoAudio       = errors.New("No audio data returned")
	ErrNothingToRead = errors.New("no text to read")

	ErrMalformedResult = aiutils.ErrMalformedResult
)

// KeySource resolves a credential at call time, so a key added to the
// environment after startup is picked up without a restart.
type KeySource func() string

// completer sends one system + user instruction pair and returns the raw text.
type completer interface {
	Complete(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error)
	Name() string
	Model() string
}

// synthesizer reads text aloud with one of the provider's voices.
type synthesizer interface {
	Synthesize(ctx context.Context, apiKey, text string, voice types.VoiceConfig) (*Speech, error)
	Model() string
}

// Options configures a Generator. Provider picks the backend of both calls,
// so a single credential serves generation and speech.
type Options struct {
	Provider        string // "gemini" or "openai"
	GenerationModel string
	SpeechModel     string // empty picks the provider default
	OpenAIBaseURL   string // empty means the public endpoint
	GeminiBaseURL   string // speech only; empty means the public endpoint

	GenerationKey KeySource
	SpeechKey     KeySource
}

type Generator struct {
	completer     completer
	synthesizer   synthesizer
	generationKey KeySource
	speechKey     KeySource
}

func NewGenerator(opts Options) (*Generator, error) {
	var (
		c  completer
		sy synthesizer
	)
	switch opts.Provider {
	case "", ProviderGemini:
		c = &geminiCompleter{model: orDefault(opts.GenerationModel, DefaultGeminiModel)}
		sy = &geminiSynthesizer{model: orDefault(opts.SpeechModel, DefaultGeminiSpeechModel), baseURL: opts.GeminiBaseURL}
	case ProviderOpenAI:
		c = &openAICompleter{model: orDefault(opts.GenerationModel, DefaultOpenAIModel), baseURL: opts.OpenAIBaseURL}
		sy = &openAISynthesizer{model: orDefault(opts.SpeechModel, DefaultOpenAISpeechModel), baseURL: opts.OpenAIBaseURL}
	default:
		return nil, fmt.Errorf("unknown AI provider %q", opts.Provider)
	}

	return &Generator{
		completer:     c,
		synthesizer:   sy,
		generationKey: orEmpty(opts.GenerationKey),
		speechKey:     orEmpty(opts.SpeechKey),
	}, nil
}

// Provider names the backend used for architecture generation.
func (g *Generator) Provider() string { return g.completer.Name() }

// Model names the generation model.
func (g *Generator) Model() string { return g.completer.Model() }

// SpeechModel names the text-to-speech model.
func (g *Generator) SpeechModel() string { return g.synthesizer.Model() }

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orEmpty(k KeySource) KeySource {
	if k == nil {
		return func() string { return "" }
	}
	return k
}

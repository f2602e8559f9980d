package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"genesis_architect/internal/ai/prompts"
	"genesis_architect/internal/types"

	openai "github.com/sashabaranov/go-openai"
)

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

type openAICompleter struct {
	model   string
	baseURL string
}

func (o *openAICompleter) Name() string  { return ProviderOpenAI }
func (o *openAICompleter) Model() string { return o.model }

func (o *openAICompleter) Complete(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	schema := prompts.ResultSchema()
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "generated_result",
				Schema: &schema,
			},
		},
	}

	resp, err := newOpenAIClient(apiKey, o.baseURL).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

var openAIVoices = map[types.Speaker]openai.SpeechVoice{
	types.SpeakerExpertMale:       openai.VoiceOnyx,
	types.SpeakerExpressiveFemale: openai.VoiceNova,
}

type openAISynthesizer struct {
	model   string
	baseURL string
}

func (o *openAISynthesizer) Model() string { return o.model }

// Synthesize sends the speed to the endpoint, so the player keeps rate 1.
func (o *openAISynthesizer) Synthesize(ctx context.Context, apiKey, text string, voice types.VoiceConfig) (*Speech, error) {
	resp, err := newOpenAIClient(apiKey, o.baseURL).CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openAIVoices[voice.Speaker],
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          voice.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrNoAudio
	}
	return &Speech{
		Audio:        base64.StdEncoding.EncodeToString(audio),
		MIMEType:     SpeechMIMEType,
		PlaybackRate: 1,
	}, nil
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"genesis_architect/internal/types"
)

// MIME types of the clips handed to the page.
const (
	SpeechMIMEType = "audio/mpeg" // OpenAI mp3
	WAVMIMEType    = "audio/wav"  // Gemini PCM wrapped in a RIFF header
)

// Speech is a synthesized clip ready to be embedded as a data URI.
// PlaybackRate is applied by the player for backends that cannot change the
// speaking rate themselves.
type Speech struct {
	Audio        string  `json:"audio"` // base64
	MIMEType     string  `json:"mimeType"`
	PlaybackRate float64 `json:"playbackRate"`
}

// GenerateSpeech reads text aloud with the chosen voice on the configured
// provider, authenticated with the same credential as generation when only
// one is configured. The caller is responsible for trimming text to the
// length it wants spoken.
func (g *Generator) GenerateSpeech(ctx context.Context, text string, voice types.VoiceConfig) (*Speech, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNothingToRead
	}
	if err := voice.Validate(); err != nil {
		return nil, err
	}

	apiKey := g.speechKey()
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	speech, err := g.synthesizer.Synthesize(ctx, apiKey, text, voice)
	if err != nil {
		if !errors.Is(err, ErrNoAudio) {
			log.Printf("ERROR: TTS request on %s failed: %v", g.synthesizer.Model(), err)
			return nil, fmt.Errorf("speech synthesis failed: %w", err)
		}
		return nil, err
	}

	log.Printf("Synthesized %d base64 chars of %s via %s (voice=%s speed=%.2f)",
		len(speech.Audio), speech.MIMEType, g.synthesizer.Model(), voice.Speaker, voice.Speed)
	return speech, nil
}

package ai

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"genesis_architect/internal/types"

	genaisdk "google.golang.org/genai"
)

// Prebuilt Gemini voices behind the two speakers.
var geminiVoices = map[types.Speaker]string{
	types.SpeakerExpertMale:       "Kore",
	types.SpeakerExpressiveFemale: "Fenrir",
}

// Gemini TTS answers with headerless 16-bit mono PCM.
const (
	pcmSampleRate    = 24000
	pcmChannels      = 1
	pcmBitsPerSample = 16
)

type geminiSynthesizer struct {
	model   string
	baseURL string
}

func (g *geminiSynthesizer) Model() string { return g.model }

// Synthesize has no speed parameter upstream; the rate travels with the clip
// and the player applies it.
func (g *geminiSynthesizer) Synthesize(ctx context.Context, apiKey, text string, voice types.VoiceConfig) (*Speech, error) {
	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:      apiKey,
		Backend:     genaisdk.BackendGeminiAPI,
		HTTPOptions: genaisdk.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genaisdk.Text(text), &genaisdk.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genaisdk.SpeechConfig{
			VoiceConfig: &genaisdk.VoiceConfig{
				PrebuiltVoiceConfig: &genaisdk.PrebuiltVoiceConfig{VoiceName: geminiVoices[voice.Speaker]},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini speech: %w", err)
	}

	blob := inlineAudio(resp)
	if blob == nil {
		return nil, ErrNoAudio
	}
	audio, mimeType := playableAudio(blob.Data, blob.MIMEType)
	return &Speech{
		Audio:        base64.StdEncoding.EncodeToString(audio),
		MIMEType:     mimeType,
		PlaybackRate: voice.Speed,
	}, nil
}

// inlineAudio returns the first non-empty inline payload of the first candidate.
func inlineAudio(resp *genaisdk.GenerateContentResponse) *genaisdk.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

// playableAudio wraps raw PCM in a WAV header so an <audio> element can play
// it. Anything else is passed through with its own type.
func playableAudio(data []byte, mimeType string) ([]byte, string) {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return pcmToWAV(data, pcmSampleRate), WAVMIMEType
	}
	if mediaType != "audio/l16" && params["codec"] != "pcm" {
		return data, mimeType
	}
	rate := pcmSampleRate
	if r, err := strconv.Atoi(strings.TrimSpace(params["rate"])); err == nil && r > 0 {
		rate = r
	}
	return pcmToWAV(data, rate), WAVMIMEType
}

func pcmToWAV(pcm []byte, sampleRate int) []byte {
	blockAlign := pcmChannels * pcmBitsPerSample / 8
	out := make([]byte, 0, 44+len(pcm))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, "WAVEfmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16) // fmt chunk size
	out = binary.LittleEndian.AppendUint16(out, 1)  // PCM
	out = binary.LittleEndian.AppendUint16(out, pcmChannels)
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate*blockAlign))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, pcmBitsPerSample)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	return append(out, pcm...)
}

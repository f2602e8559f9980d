package ai

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"genesis_architect/internal/ai/prompts"
	"genesis_architect/internal/types"
	"genesis_architect/internal/utils"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	raw    string
	err    error
	calls  int
	system string
	user   string
	key    string
}

func (f *fakeCompleter) Name() string  { return "fake" }
func (f *fakeCompleter) Model() string { return "fake-model" }

func (f *fakeCompleter) Complete(_ context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.key, f.system, f.user = apiKey, systemPrompt, userPrompt
	return f.raw, f.err
}

func staticKey(k string) KeySource { return func() string { return k } }

func newFakeGenerator(c completer, key string) *Generator {
	return &Generator{
		completer:     c,
		synthesizer:   &openAISynthesizer{model: DefaultOpenAISpeechModel},
		generationKey: staticKey(key),
		speechKey:     staticKey(key),
	}
}

func defaultRequest() types.GenerationRequest {
	return types.NewGenerationRequest("/lib", types.DefaultAppType, types.DefaultTechStack, types.DefaultArchitecture, "Add auth module")
}

const sampleResult = `{"analysis":"x","reusedSnippets":["auth_utils"],"fileTree":[{"name":"main.ts","type":"file","content":"// entry","isReused":false}],"documentation":"y","diagramData":[{"name":"Reuse","value":70},{"name":"New","value":30}]}`

func TestNewGeneratorProviders(t *testing.T) {
	g, err := NewGenerator(Options{})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, g.Provider())
	assert.Equal(t, DefaultGeminiModel, g.Model())
	assert.Equal(t, DefaultGeminiSpeechModel, g.SpeechModel())

	g, err = NewGenerator(Options{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, g.Provider())
	assert.Equal(t, DefaultOpenAIModel, g.Model())
	assert.Equal(t, DefaultOpenAISpeechModel, g.SpeechModel())

	g, err = NewGenerator(Options{SpeechModel: "gemini-2.5-pro-preview-tts"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro-preview-tts", g.SpeechModel())

	_, err = NewGenerator(Options{Provider: "anthropic"})
	assert.Error(t, err)
}

func TestGenerateArchitectureParsesResult(t *testing.T) {
	fc := &fakeCompleter{raw: sampleResult}
	g := newFakeGenerator(fc, "secret")

	res, err := g.GenerateArchitecture(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, "x", res.Analysis)
	assert.Equal(t, []string{"auth_utils"}, res.ReusedSnippets)
	require.Len(t, res.FileTree, 1)
	assert.Equal(t, "secret", fc.key)
	assert.Contains(t, fc.system+fc.user, "Add auth module")
}

func TestGenerateArchitectureRecoversFencedOutput(t *testing.T) {
	plain, err := newFakeGenerator(&fakeCompleter{raw: sampleResult}, "k").GenerateArchitecture(context.Background(), defaultRequest())
	require.NoError(t, err)

	fenced, err := newFakeGenerator(&fakeCompleter{raw: "```json\n" + sampleResult + "\n```"}, "k").GenerateArchitecture(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, plain, fenced)
}

func TestGenerateArchitectureMalformed(t *testing.T) {
	g := newFakeGenerator(&fakeCompleter{raw: sampleResult[:60]}, "k")
	res, err := g.GenerateArchitecture(context.Background(), defaultRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestGenerateArchitectureMissingKeyMakesNoCall(t *testing.T) {
	fc := &fakeCompleter{raw: sampleResult}
	g := newFakeGenerator(fc, "")
	_, err := g.GenerateArchitecture(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, fc.calls)
}

func TestGenerateArchitectureInvalidInputMakesNoCall(t *testing.T) {
	fc := &fakeCompleter{raw: sampleResult}
	g := newFakeGenerator(fc, "k")
	req := defaultRequest()
	req.Requirements = "  "
	_, err := g.GenerateArchitecture(context.Background(), req)
	assert.ErrorIs(t, err, types.ErrMissingInput)
	assert.Zero(t, fc.calls)
}

func TestGenerateArchitectureEmptyAndTransportErrors(t *testing.T) {
	_, err := newFakeGenerator(&fakeCompleter{raw: "  "}, "k").GenerateArchitecture(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrEmptyResponse)

	upstream := errors.New("connection reset by peer")
	_, err = newFakeGenerator(&fakeCompleter{err: upstream}, "k").GenerateArchitecture(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, upstream)
}

func TestOpenAICompleterSendsSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])
		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		messages := body["messages"].([]any)
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "```json\n" + sampleResult + "\n```"},
			}},
		})
	}))
	defer server.Close()

	g, err := NewGenerator(Options{Provider: ProviderOpenAI, OpenAIBaseURL: server.URL, GenerationKey: staticKey("test-key")})
	require.NoError(t, err)

	res, err := g.GenerateArchitecture(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, "y", res.Documentation)
}

func TestOpenAICompleterPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer server.Close()

	g, err := NewGenerator(Options{Provider: ProviderOpenAI, OpenAIBaseURL: server.URL, GenerationKey: staticKey("k")})
	require.NoError(t, err)

	_, err = g.GenerateArchitecture(context.Background(), defaultRequest())
	require.Error(t, err)
	status, ok := utils.UpstreamStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestOpenAISpeech(t *testing.T) {
	audio := []byte("ID3-fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		var req openai.CreateSpeechRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.VoiceNova, req.Voice)
		assert.Equal(t, 1.5, req.Speed)
		assert.Equal(t, "Xin chào", req.Input)
		assert.Equal(t, openai.SpeechModel(DefaultOpenAISpeechModel), req.Model)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer server.Close()

	g, err := NewGenerator(Options{Provider: ProviderOpenAI, OpenAIBaseURL: server.URL, SpeechKey: staticKey("k")})
	require.NoError(t, err)

	speech, err := g.GenerateSpeech(context.Background(), "Xin chào", types.VoiceConfig{Speaker: types.SpeakerExpressiveFemale, Speed: 1.5})
	require.NoError(t, err)
	assert.Equal(t, SpeechMIMEType, speech.MIMEType)
	assert.Equal(t, 1.0, speech.PlaybackRate, "speed already applied upstream")
	decoded, err := base64.StdEncoding.DecodeString(speech.Audio)
	require.NoError(t, err)
	assert.Equal(t, audio, decoded)
}

func TestOpenAISpeechNoAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, err := NewGenerator(Options{Provider: ProviderOpenAI, OpenAIBaseURL: server.URL, SpeechKey: staticKey("k")})
	require.NoError(t, err)

	_, err = g.GenerateSpeech(context.Background(), "Xin chào", types.DefaultVoiceConfig())
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestGenerateSpeechPreconditions(t *testing.T) {
	g := newFakeGenerator(&fakeCompleter{}, "")
	_, err := g.GenerateSpeech(context.Background(), "text", types.DefaultVoiceConfig())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = g.GenerateSpeech(context.Background(), "   ", types.DefaultVoiceConfig())
	assert.ErrorIs(t, err, ErrNothingToRead)

	g = newFakeGenerator(&fakeCompleter{}, "k")
	_, err = g.GenerateSpeech(context.Background(), "text", types.VoiceConfig{Speaker: types.SpeakerExpertMale, Speed: 3})
	assert.Error(t, err)
}

func TestVoiceMapping(t *testing.T) {
	for _, sp := range types.AllSpeakers() {
		assert.NotEmpty(t, openAIVoices[sp], sp)
		assert.NotEmpty(t, geminiVoices[sp], sp)
	}
	assert.Equal(t, openai.VoiceOnyx, openAIVoices[types.SpeakerExpertMale])
	assert.Equal(t, openai.VoiceNova, openAIVoices[types.SpeakerExpressiveFemale])
	assert.Equal(t, "Kore", geminiVoices[types.SpeakerExpertMale])
	assert.Equal(t, "Fenrir", geminiVoices[types.SpeakerExpressiveFemale])
}

// geminiTTSServer answers generateContent with pcm as inline audio and
// records the key and body it was called with.
func geminiTTSServer(t *testing.T, pcm []byte, gotKey, gotBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/"+DefaultGeminiSpeechModel+":generateContent"), r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		*gotKey = r.Header.Get("x-goog-api-key")
		*gotBody = string(raw)

		parts := []map[string]any{}
		if len(pcm) > 0 {
			parts = append(parts, map[string]any{"inlineData": map[string]any{
				"mimeType": "audio/L16;codec=pcm;rate=24000",
				"data":     base64.StdEncoding.EncodeToString(pcm),
			}})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{"content": map[string]any{"role": "model", "parts": parts}}},
		})
	}))
}

func TestGeminiSpeech(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	var key, body string
	server := geminiTTSServer(t, pcm, &key, &body)
	defer server.Close()

	g, err := NewGenerator(Options{GeminiBaseURL: server.URL, SpeechKey: staticKey("gem-key")})
	require.NoError(t, err)

	speech, err := g.GenerateSpeech(context.Background(), "Xin chào", types.VoiceConfig{Speaker: types.SpeakerExpertMale, Speed: 1.25})
	require.NoError(t, err)
	assert.Equal(t, "gem-key", key)
	assert.Contains(t, body, `"AUDIO"`)
	assert.Contains(t, body, `"voiceName":"Kore"`)
	assert.Contains(t, body, "Xin chào")

	assert.Equal(t, WAVMIMEType, speech.MIMEType)
	assert.Equal(t, 1.25, speech.PlaybackRate)
	wav, err := base64.StdEncoding.DecodeString(speech.Audio)
	require.NoError(t, err)
	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, pcm, wav[44:])
}

func TestGeminiSpeechNoAudio(t *testing.T) {
	var key, body string
	server := geminiTTSServer(t, nil, &key, &body)
	defer server.Close()

	g, err := NewGenerator(Options{GeminiBaseURL: server.URL, SpeechKey: staticKey("k")})
	require.NoError(t, err)

	_, err = g.GenerateSpeech(context.Background(), "Xin chào", types.DefaultVoiceConfig())
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestOneGeminiKeyServesBothCalls(t *testing.T) {
	var key, body string
	server := geminiTTSServer(t, []byte{0, 0}, &key, &body)
	defer server.Close()

	only := staticKey("AIza-gemini-only")
	g, err := NewGenerator(Options{GeminiBaseURL: server.URL, GenerationKey: only, SpeechKey: only})
	require.NoError(t, err)
	fc := &fakeCompleter{raw: sampleResult}
	g.completer = fc

	res, err := g.GenerateArchitecture(context.Background(), defaultRequest())
	require.NoError(t, err)
	_, err = g.GenerateSpeech(context.Background(), res.Documentation, types.DefaultVoiceConfig())
	require.NoError(t, err)

	assert.Equal(t, "AIza-gemini-only", fc.key)
	assert.Equal(t, "AIza-gemini-only", key)
}

func TestPlayableAudio(t *testing.T) {
	data, mimeType := playableAudio([]byte{1, 2}, "audio/L16;codec=pcm;rate=16000")
	assert.Equal(t, WAVMIMEType, mimeType)
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(data[24:28]))

	data, mimeType = playableAudio([]byte{1, 2}, "audio/mpeg")
	assert.Equal(t, "audio/mpeg", mimeType)
	assert.Equal(t, []byte{1, 2}, data)
}

func TestGeminiSchemaConversion(t *testing.T) {
	s := geminiSchema(prompts.ResultSchema())
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Contains(t, s.Properties, "fileTree")

	node := s.Properties["fileTree"].Items
	require.NotNil(t, node)
	assert.Equal(t, genai.TypeString, node.Properties["type"].Type)
	assert.Equal(t, "enum", node.Properties["type"].Format)
	assert.Equal(t, []string{"file", "folder"}, node.Properties["type"].Enum)
	assert.Equal(t, genai.TypeBoolean, node.Properties["isReused"].Type)
	assert.Equal(t, genai.TypeArray, node.Properties["children"].Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["diagramData"].Items.Properties["value"].Type)
}

func TestGeminiResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"analysis":`), genai.Text(`"x"}`)}},
		}},
	}
	assert.Equal(t, `{"analysis":"x"}`, responseText(resp))
	assert.True(t, strings.HasPrefix(responseText(resp), "{"))
}

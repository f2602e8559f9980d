package api

import (
	"context"
	"log"
	"net/http"

	"genesis_architect/internal/ai"
	"genesis_architect/internal/session"
	"genesis_architect/internal/types"
	"genesis_architect/internal/utils"
	"genesis_architect/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Generator is the part of ai.Generator the handlers depend on.
type Generator interface {
	GenerateArchitecture(ctx context.Context, req types.GenerationRequest) (*types.GeneratedResult, error)
	GenerateSpeech(ctx context.Context, text string, voice types.VoiceConfig) (*ai.Speech, error)
}

// Options tunes the presentation limits of an APIHandler.
type Options struct {
	SpeechTextLimit  int
	ContentLineLimit int
	SecureCookie     bool // set in production where the site is served over TLS
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator Generator
	sessions  *session.Store[view.State]
	opts      Options
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(gen Generator, sessions *session.Store[view.State], opts Options) *APIHandler {
	return &APIHandler{
		generator: gen,
		sessions:  sessions,
		opts:      opts,
	}
}

// SessionCookie carries the visitor id.
const SessionCookie = "genesis_session"

// --- Structs for API Requests/Responses ---

// ArchitectureRequest is accepted both as JSON and as the page's form post.
// Empty enum keys fall back to the defaults.
type ArchitectureRequest struct {
	LibraryPath  string `json:"libraryPath" form:"libraryPath"`
	AppType      string `json:"appType" form:"appType" binding:"omitempty,apptype"`
	Stack        string `json:"stack" form:"stack" binding:"omitempty,techstack"`
	Architecture string `json:"architecture" form:"architecture" binding:"omitempty,architecture"`
	Requirements string `json:"requirements" form:"requirements"`
}

func (r ArchitectureRequest) editForm() view.EditForm {
	appType, _ := types.ParseAppType(r.AppType)
	stack, _ := types.ParseTechStack(r.Stack)
	arch, _ := types.ParseArchitecture(r.Architecture)
	return view.EditForm{
		LibraryPath:  r.LibraryPath,
		AppType:      appType,
		Stack:        stack,
		Architecture: arch,
		Requirements: r.Requirements,
	}
}

// VoiceRequest selects the voice. Omitted fields keep the current value.
type VoiceRequest struct {
	Text    string  `json:"text" form:"-"`
	Speaker string  `json:"speaker" form:"speaker" binding:"omitempty,voice"`
	Speed   float64 `json:"speed" form:"speed" binding:"omitempty,gte=0.5,lte=2"`
}

func (r VoiceRequest) voice(current types.VoiceConfig) types.VoiceConfig {
	if r.Speaker != "" {
		current.Speaker = types.Speaker(r.Speaker)
	}
	if r.Speed != 0 {
		current.Speed = r.Speed
	}
	return current
}

type SpeechResponse struct {
	Audio        string  `json:"audio"`
	MIMEType     string  `json:"mimeType"`
	PlaybackRate float64 `json:"playbackRate"`
}

// PlaybackReport is what the page's player posts when it starts, pauses or
// is left mid-clip.
type PlaybackReport struct {
	Playing  bool    `form:"playing"`
	Position float64 `form:"position" binding:"gte=0"`
}

type OptionsResponse struct {
	AppTypes      []types.Option `json:"appTypes"`
	Stacks        []types.Option `json:"stacks"`
	Architectures []types.Option `json:"architectures"`
	Speakers      []types.Option `json:"speakers"`
	Speed         SpeedRange     `json:"speed"`
}

type SpeedRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// --- Page Handlers ---

// visitor returns the caller's session entry, issuing a cookie for new visitors.
func (h *APIHandler) visitor(c *gin.Context) *session.Entry[view.State] {
	id, _ := c.Cookie(SessionCookie)
	newID, entry := h.sessions.Acquire(id)
	if newID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, newID, 0, "/", "", h.opts.SecureCookie, true)
	}
	return entry
}

func (h *APIHandler) render(c *gin.Context, status int, s view.State, notice string) {
	page := view.NewPage(s, h.opts.ContentLineLimit)
	page.Notice = notice
	c.HTML(status, view.PageTemplate, page)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// apply reduces one action under the visitor lock and returns the new state.
func apply(entry *session.Entry[view.State], actions ...view.Action) view.State {
	entry.Lock()
	defer entry.Unlock()
	for _, a := range actions {
		entry.Value = view.Reduce(entry.Value, a)
	}
	return entry.Value
}

// GET /
func (h *APIHandler) Index(c *gin.Context) {
	entry := h.visitor(c)
	entry.Lock()
	s := entry.Value
	entry.Unlock()
	h.render(c, http.StatusOK, s, "")
}

// POST /generate
func (h *APIHandler) Generate(c *gin.Context) {
	entry := h.visitor(c)
	var form ArchitectureRequest
	if err := c.ShouldBind(&form); err != nil {
		s := apply(entry)
		h.render(c, http.StatusBadRequest, s, "Dữ liệu biểu mẫu không hợp lệ: "+err.Error())
		return
	}

	entry.Lock()
	if entry.Value.Generating {
		s := entry.Value
		entry.Unlock()
		h.render(c, http.StatusConflict, s, BusyMessage)
		return
	}
	entry.Value = view.Reduce(entry.Value, form.editForm())
	req := entry.Value.Request()
	if err := req.Validate(); err != nil {
		entry.Value = view.Reduce(entry.Value, view.GenerateFailed{Message: UserMessage(err)})
		entry.Unlock()
		redirectHome(c)
		return
	}
	entry.Value = view.Reduce(entry.Value, view.GenerateStarted{})
	entry.Unlock()

	// A panicking backend must not leave the visitor stuck as busy.
	settled := false
	defer func() {
		if !settled {
			apply(entry, view.GenerateFailed{Message: GenericFailureMessage})
		}
	}()
	result, err := h.generator.GenerateArchitecture(c.Request.Context(), req)
	settled = true
	if err != nil {
		log.Printf("ERROR: generation for %s failed: %v", req.LibraryPath, err)
		apply(entry, view.GenerateFailed{Message: UserMessage(err)})
	} else {
		apply(entry, view.GenerateSucceeded{Result: result})
	}
	redirectHome(c)
}

// POST /select
func (h *APIHandler) Select(c *gin.Context) {
	entry := h.visitor(c)
	path, err := view.ParseNodePath(c.PostForm("path"))
	if err != nil {
		s := apply(entry)
		h.render(c, http.StatusBadRequest, s, err.Error())
		return
	}
	apply(entry, view.SelectNode{Path: path})
	redirectHome(c)
}

// POST /tab/:tab
func (h *APIHandler) SwitchTab(c *gin.Context) {
	entry := h.visitor(c)
	tab := view.Tab(c.Param("tab"))
	if !tab.Valid() {
		s := apply(entry)
		h.render(c, http.StatusNotFound, s, "")
		return
	}
	apply(entry, view.SwitchTab{Tab: tab})
	redirectHome(c)
}

// POST /voice/settings
func (h *APIHandler) VoiceSettings(c *gin.Context) {
	entry := h.visitor(c)
	var form VoiceRequest
	if err := c.ShouldBind(&form); err != nil {
		s := apply(entry)
		h.render(c, http.StatusBadRequest, s, "Cấu hình giọng đọc không hợp lệ: "+err.Error())
		return
	}
	entry.Lock()
	entry.Value = view.Reduce(entry.Value, view.SetVoice{Voice: form.voice(entry.Value.Voice)})
	entry.Unlock()
	redirectHome(c)
}

// POST /voice
// Pauses a playing session, resumes a paused one recorded with the current
// voice, and otherwise synthesizes the documentation anew.
func (h *APIHandler) Voice(c *gin.Context) {
	entry := h.visitor(c)
	var form VoiceRequest
	if err := c.ShouldBind(&form); err != nil {
		s := apply(entry)
		h.render(c, http.StatusBadRequest, s, "Cấu hình giọng đọc không hợp lệ: "+err.Error())
		return
	}

	entry.Lock()
	if entry.Value.Speaking {
		s := entry.Value
		entry.Unlock()
		h.render(c, http.StatusConflict, s, BusyMessage)
		return
	}
	entry.Value = view.Reduce(entry.Value, view.SetVoice{Voice: form.voice(entry.Value.Voice)})
	s := entry.Value
	if s.Result == nil {
		entry.Unlock()
		redirectHome(c)
		return
	}
	if s.CanTogglePlayback() {
		entry.Value = view.Reduce(s, view.TogglePlayback{})
		entry.Unlock()
		redirectHome(c)
		return
	}
	owner := s.Result
	text := utils.TruncateRunes(s.Result.Documentation, h.opts.SpeechTextLimit)
	voice := s.Voice
	entry.Value = view.Reduce(s, view.SpeechStarted{})
	entry.Unlock()

	settled := false
	defer func() {
		if settled {
			return
		}
		entry.Lock()
		defer entry.Unlock()
		if entry.Value.Result == owner {
			entry.Value = view.Reduce(entry.Value, view.SpeechFailed{Message: SpeechFailureMessage})
		}
	}()
	speech, err := h.generator.GenerateSpeech(c.Request.Context(), text, voice)
	settled = true

	entry.Lock()
	defer redirectHome(c)
	defer entry.Unlock()
	if entry.Value.Result != owner {
		log.Println("Info: result replaced during synthesis, discarding audio.")
		return
	}
	if err != nil {
		log.Printf("ERROR: speech synthesis failed: %v", err)
		entry.Value = view.Reduce(entry.Value, view.SpeechFailed{Message: SpeechFailureMessage})
		return
	}
	entry.Value = view.Reduce(entry.Value, view.SpeechSucceeded{Session: view.AudioSession{
		ID:           uuid.New().String(),
		Audio:        speech.Audio,
		MIMEType:     speech.MIMEType,
		Voice:        voice,
		PlaybackRate: speech.PlaybackRate,
	}})
}

// POST /voice/playback
func (h *APIHandler) VoicePlayback(c *gin.Context) {
	entry := h.visitor(c)
	var report PlaybackReport
	if err := c.ShouldBind(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid playback report: " + err.Error()})
		return
	}
	apply(entry, view.PlaybackReported{Playing: report.Playing, Position: report.Position})
	c.Status(http.StatusNoContent)
}

// POST /voice/ended
func (h *APIHandler) VoiceEnded(c *gin.Context) {
	apply(h.visitor(c), view.PlaybackEnded{})
	c.Status(http.StatusNoContent)
}

// --- JSON Handlers ---

// GET /api/options
func (h *APIHandler) Options(c *gin.Context) {
	speakers := make([]types.Option, 0, len(types.AllSpeakers()))
	for _, s := range types.AllSpeakers() {
		speakers = append(speakers, types.Option{Key: string(s), Label: s.Label()})
	}
	c.JSON(http.StatusOK, OptionsResponse{
		AppTypes:      types.AppTypeOptions(),
		Stacks:        types.TechStackOptions(),
		Architectures: types.ArchitectureOptions(),
		Speakers:      speakers,
		Speed: SpeedRange{
			Min:     types.MinSpeechSpeed,
			Max:     types.MaxSpeechSpeed,
			Step:    types.SpeechSpeedStep,
			Default: types.DefaultSpeechSpeed,
		},
	})
}

// POST /api/architecture
func (h *APIHandler) GenerateArchitecture(c *gin.Context) {
	var body ArchitectureRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	form := body.editForm()
	req := types.NewGenerationRequest(form.LibraryPath, form.AppType, form.Stack, form.Architecture, form.Requirements)

	result, err := h.generator.GenerateArchitecture(c.Request.Context(), req)
	if err != nil {
		status := StatusFor(err)
		log.Printf("ERROR: architecture request failed with %d: %v", status, err)
		c.JSON(status, gin.H{"error": UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/speech
func (h *APIHandler) Speech(c *gin.Context) {
	var body VoiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	text := utils.TruncateRunes(body.Text, h.opts.SpeechTextLimit)

	speech, err := h.generator.GenerateSpeech(c.Request.Context(), text, body.voice(types.DefaultVoiceConfig()))
	if err != nil {
		status := StatusFor(err)
		log.Printf("ERROR: speech request failed with %d: %v", status, err)
		msg := SpeechFailureMessage
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, SpeechResponse{Audio: speech.Audio, MIMEType: speech.MIMEType, PlaybackRate: speech.PlaybackRate})
}

package types

import (
	"errors"
	"fmt"
	"strings"
)

// NodeType tags a FileNode as a file or a folder.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// FileNode is one entry in the synthetic project tree returned by the model.
// Only folders carry children; a folder's content is never displayed.
type FileNode struct {
	Name        string     `json:"name"`
	Type        NodeType   `json:"type"`
	Content     string     `json:"content,omitempty"`
	Description string     `json:"description,omitempty"` // Why this snippet was reused
	IsReused    bool       `json:"isReused"`
	Children    []FileNode `json:"children,omitempty"`
}

func (n FileNode) IsFile() bool   { return n.Type == NodeFile }
func (n FileNode) IsFolder() bool { return n.Type == NodeFolder }

// DiagramPoint is one slice of the proportion chart. Values are expected to
// add up to roughly 100 but nothing enforces it.
type DiagramPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GeneratedResult is the whole structured payload of an architecture generation.
type GeneratedResult struct {
	Analysis       string         `json:"analysis"`
	ReusedSnippets []string       `json:"reusedSnippets"`
	FileTree       []FileNode     `json:"fileTree"`
	Documentation  string         `json:"documentation"`
	DiagramData    []DiagramPoint `json:"diagramData"`
}

// Speaker is the abstract voice identity offered in the voice studio.
type Speaker string

const (
	SpeakerExpertMale       Speaker = "Nam_ChuyenGia"
	SpeakerExpressiveFemale Speaker = "Nu_TruyenCam"
)

const (
	MinSpeechSpeed     = 0.5
	MaxSpeechSpeed     = 2.0
	SpeechSpeedStep    = 0.25
	DefaultSpeechSpeed = 1.0
)

// Label returns the text shown on the voice selection button.
func (s Speaker) Label() string {
	switch s {
	case SpeakerExpertMale:
		return "Nam Chuyên Gia"
	case SpeakerExpressiveFemale:
		return "Nữ Truyền Cảm"
	default:
		return string(s)
	}
}

func (s Speaker) Valid() bool {
	return s == SpeakerExpertMale || s == SpeakerExpressiveFemale
}

// AllSpeakers lists the selectable voices in display order.
func AllSpeakers() []Speaker {
	return []Speaker{SpeakerExpertMale, SpeakerExpressiveFemale}
}

// VoiceConfig is held only for the duration of one speech request.
type VoiceConfig struct {
	Speaker Speaker `json:"speaker"`
	Speed   float64 `json:"speed"`
}

// DefaultVoiceConfig mirrors the initial state of the voice studio.
func DefaultVoiceConfig() VoiceConfig {
	return VoiceConfig{Speaker: SpeakerExpertMale, Speed: DefaultSpeechSpeed}
}

func (v VoiceConfig) Validate() error {
	if !v.Speaker.Valid() {
		return fmt.Errorf("%w: unknown speaker %q", ErrInvalidOption, v.Speaker)
	}
	if v.Speed < MinSpeechSpeed || v.Speed > MaxSpeechSpeed {
		return fmt.Errorf("%w: speed %.2f outside [%.1f, %.1f]", ErrInvalidOption, v.Speed, MinSpeechSpeed, MaxSpeechSpeed)
	}
	return nil
}

// DefaultContext is the fixed background sentence sent with every generation.
const DefaultContext = "Người dùng muốn tối ưu hóa code cũ."

// ErrMissingInput is returned when the library path or requirements are blank.
// Its message is shown to the user as is.
var ErrMissingInput = errors.New("Vui lòng nhập đường dẫn thư viện và yêu cầu chi tiết.")

// ErrInvalidOption wraps every rejection of a value outside a closed set.
var ErrInvalidOption = errors.New("invalid option")

// GenerationRequest is built fresh for every generation and never mutated.
type GenerationRequest struct {
	LibraryPath  string
	AppType      AppType
	Stack        TechStack
	Architecture Architecture
	Requirements string
	Context      string
}

// NewGenerationRequest assembles a request with the fixed context sentence.
func NewGenerationRequest(libraryPath string, appType AppType, stack TechStack, arch Architecture, requirements string) GenerationRequest {
	return GenerationRequest{
		LibraryPath:  libraryPath,
		AppType:      appType,
		Stack:        stack,
		Architecture: arch,
		Requirements: requirements,
		Context:      DefaultContext,
	}
}

// Validate reports blank inputs and enum values outside their closed sets.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.LibraryPath) == "" || strings.TrimSpace(r.Requirements) == "" {
		return ErrMissingInput
	}
	if !r.AppType.Valid() {
		return fmt.Errorf("%w: unknown app type %q", ErrInvalidOption, string(r.AppType))
	}
	if !r.Stack.Valid() {
		return fmt.Errorf("%w: unknown tech stack %q", ErrInvalidOption, string(r.Stack))
	}
	if !r.Architecture.Valid() {
		return fmt.Errorf("%w: unknown architecture %q", ErrInvalidOption, string(r.Architecture))
	}
	return nil
}

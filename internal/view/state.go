package view

import (
	"genesis_architect/internal/types"
)

// Tab is one of the three result views.
type Tab string

const (
	TabTree Tab = "tree"
	TabDocs Tab = "docs"
	TabViz  Tab = "viz"
)

func (t Tab) Valid() bool {
	return t == TabTree || t == TabDocs || t == TabViz
}

// AudioSession is the single playback handle a visitor holds. Starting a new
// one replaces the previous session outright.
type AudioSession struct {
	ID           string
	Audio        string // base64
	MIMEType     string
	Voice        types.VoiceConfig
	PlaybackRate float64 // applied by the player; 1 when the backend honoured the speed
	Playing      bool
	Position     float64 // seconds, as last reported by the player
}

// State is everything the page shows for one visitor. It is only changed
// through Reduce.
type State struct {
	LibraryPath  string
	AppType      types.AppType
	Stack        types.TechStack
	Architecture types.Architecture
	Requirements string

	Generating bool
	Error      string
	Result     *types.GeneratedResult
	ActiveTab  Tab
	Selected   NodePath

	Voice       types.VoiceConfig
	Speaking    bool
	SpeechError string
	Audio       *AudioSession
}

// NewState returns the state of a first visit.
func NewState() State {
	return State{
		AppType:      types.DefaultAppType,
		Stack:        types.DefaultTechStack,
		Architecture: types.DefaultArchitecture,
		ActiveTab:    TabTree,
		Voice:        types.DefaultVoiceConfig(),
	}
}

// Request builds the generation request from the current form values.
func (s State) Request() types.GenerationRequest {
	return types.NewGenerationRequest(s.LibraryPath, s.AppType, s.Stack, s.Architecture, s.Requirements)
}

// SelectedNode returns the node under the current selection, if any.
func (s State) SelectedNode() (types.FileNode, bool) {
	if s.Result == nil || s.Selected == nil {
		return types.FileNode{}, false
	}
	return NodeAt(s.Result.FileTree, s.Selected)
}

// CanTogglePlayback reports whether the voice button pauses or resumes the
// held clip instead of synthesizing a new one.
func (s State) CanTogglePlayback() bool {
	return s.Audio != nil && (s.Audio.Playing || s.Audio.Voice == s.Voice)
}

// Action is anything Reduce knows how to apply.
type Action interface{ isAction() }

type (
	// EditForm replaces the generation form values. Invalid enum keys keep the
	// previous selection.
	EditForm struct {
		LibraryPath  string
		AppType      types.AppType
		Stack        types.TechStack
		Architecture types.Architecture
		Requirements string
	}
	GenerateStarted   struct{}
	GenerateSucceeded struct{ Result *types.GeneratedResult }
	GenerateFailed    struct{ Message string }
	SelectNode        struct{ Path NodePath }
	SwitchTab         struct{ Tab Tab }
	SetVoice          struct{ Voice types.VoiceConfig }
	SpeechStarted     struct{}
	SpeechSucceeded   struct{ Session AudioSession }
	SpeechFailed      struct{ Message string }
	TogglePlayback    struct{}
	PlaybackEnded     struct{}
	// PlaybackReported mirrors what the page's player is doing, so a
	// re-rendered page resumes where the clip stopped.
	PlaybackReported struct {
		Playing  bool
		Position float64
	}
)

func (EditForm) isAction()          {}
func (GenerateStarted) isAction()   {}
func (GenerateSucceeded) isAction() {}
func (GenerateFailed) isAction()    {}
func (SelectNode) isAction()        {}
func (SwitchTab) isAction()         {}
func (SetVoice) isAction()          {}
func (SpeechStarted) isAction()     {}
func (SpeechSucceeded) isAction()   {}
func (SpeechFailed) isAction()      {}
func (TogglePlayback) isAction()    {}
func (PlaybackEnded) isAction()     {}
func (PlaybackReported) isAction()  {}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case EditForm:
		s.LibraryPath = a.LibraryPath
		s.Requirements = a.Requirements
		if a.AppType.Valid() {
			s.AppType = a.AppType
		}
		if a.Stack.Valid() {
			s.Stack = a.Stack
		}
		if a.Architecture.Valid() {
			s.Architecture = a.Architecture
		}

	case GenerateStarted:
		s.Generating = true
		s.Error = ""
		s.Result = nil
		s.Selected = nil
		// The voice studio belongs to the old result.
		s.Audio = nil
		s.Speaking = false
		s.SpeechError = ""

	case GenerateSucceeded:
		s.Generating = false
		s.Result = a.Result
		s.ActiveTab = TabTree
		s.Selected = nil
		if a.Result != nil {
			s.Selected = DefaultSelection(a.Result.FileTree)
		}

	case GenerateFailed:
		s.Generating = false
		s.Error = a.Message

	case SelectNode:
		if s.Result == nil {
			break
		}
		if node, ok := NodeAt(s.Result.FileTree, a.Path); ok && node.IsFile() {
			s.Selected = append(NodePath(nil), a.Path...)
		}

	case SwitchTab:
		if a.Tab.Valid() {
			s.ActiveTab = a.Tab
		}

	case SetVoice:
		if a.Voice.Validate() == nil {
			s.Voice = a.Voice
		}

	case SpeechStarted:
		s.Speaking = true
		s.SpeechError = ""

	case SpeechSucceeded:
		s.Speaking = false
		session := a.Session
		session.Playing = true
		s.Audio = &session

	case SpeechFailed:
		s.Speaking = false
		s.SpeechError = a.Message

	case TogglePlayback:
		if s.Audio != nil {
			held := *s.Audio
			held.Playing = !held.Playing
			s.Audio = &held
		}

	case PlaybackEnded:
		if s.Audio != nil {
			held := *s.Audio
			held.Playing = false
			held.Position = 0
			s.Audio = &held
		}

	case PlaybackReported:
		if s.Audio != nil && a.Position >= 0 {
			held := *s.Audio
			held.Playing = a.Playing
			held.Position = a.Position
			s.Audio = &held
		}
	}
	return s
}

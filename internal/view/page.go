package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"genesis_architect/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageTemplate is the name handlers pass to gin's HTML renderer.
const PageTemplate = "index.tmpl"

// Chart geometry of the reuse donut.
const (
	chartSize   = 320.0
	chartInner  = 80.0
	chartOuter  = 140.0
	chartCenter = chartSize / 2
)

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"speed": func(v float64) string { return fmt.Sprintf("%gx", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%g", v) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// Static returns the embedded stylesheet and script directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

// SelectOption is one choice of a select box or button group.
type SelectOption struct {
	Key      string
	Label    string
	Selected bool
}

// Page is the fully derived data the page template renders.
type Page struct {
	State State

	AppTypes      []SelectOption
	Stacks        []SelectOption
	Architectures []SelectOption

	Rows          []TreeRow
	File          *FileView
	Documentation template.HTML

	ChartSize    float64
	Slices       []Slice
	ReusePercent float64
	ModuleCount  int

	Speakers  []SelectOption
	SpeedMin  float64
	SpeedMax  float64
	SpeedStep float64
	AudioSrc  template.URL
	AudioFile string // download name
	Notice    string
}

// NewPage derives everything the template needs from s.
func NewPage(s State, contentLineLimit int) Page {
	p := Page{
		State:         s,
		AppTypes:      selectOptions(types.AppTypeOptions(), string(s.AppType)),
		Stacks:        selectOptions(types.TechStackOptions(), string(s.Stack)),
		Architectures: selectOptions(types.ArchitectureOptions(), string(s.Architecture)),
		ChartSize:     chartSize,
		SpeedMin:      types.MinSpeechSpeed,
		SpeedMax:      types.MaxSpeechSpeed,
		SpeedStep:     types.SpeechSpeedStep,
	}
	for _, sp := range types.AllSpeakers() {
		p.Speakers = append(p.Speakers, SelectOption{Key: string(sp), Label: sp.Label(), Selected: sp == s.Voice.Speaker})
	}

	if s.Result == nil {
		return p
	}
	p.Rows = TreeRows(s.Result.FileTree, s.Selected)
	if node, ok := s.SelectedNode(); ok {
		fv := NewFileView(node, contentLineLimit)
		p.File = &fv
	}
	p.Documentation = RenderMarkdown(s.Result.Documentation)
	p.Slices = Pie(s.Result.DiagramData, chartCenter, chartCenter, chartInner, chartOuter)
	p.ReusePercent = ReusePercent(s.Result.DiagramData)
	p.ModuleCount = len(s.Result.ReusedSnippets)
	if s.Audio != nil {
		p.AudioSrc = template.URL("data:" + s.Audio.MIMEType + ";base64," + s.Audio.Audio)
		p.AudioFile = "genesis-voice.mp3"
		if s.Audio.MIMEType == "audio/wav" {
			p.AudioFile = "genesis-voice.wav"
		}
	}
	return p
}

func selectOptions(opts []types.Option, selected string) []SelectOption {
	out := make([]SelectOption, len(opts))
	for i, o := range opts {
		out[i] = SelectOption{Key: o.Key, Label: o.Label, Selected: o.Key == selected}
	}
	return out
}

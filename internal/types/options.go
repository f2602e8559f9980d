package types

import "fmt"

// AppType, TechStack and Architecture are closed sets. The string value is
// the stable key used in forms and JSON; Label is the Vietnamese text that is
// displayed and sent to the model.
type (
	AppType      string
	TechStack    string
	Architecture string
)

const (
	AppSaaSPlatform AppType = "SAAS_PLATFORM"
	AppECommerce    AppType = "ECOMMERCE"
	AppInternalTool AppType = "INTERNAL_TOOL"
	AppAPIGateway   AppType = "API_GATEWAY"
	AppAIWrapper    AppType = "AI_WRAPPER"
	AppLandingPage  AppType = "LANDING_PAGE"
)

const (
	StackReactNode       TechStack = "REACT_NODE"
	StackNextSupabase    TechStack = "NEXT_SUPABASE"
	StackVuePython       TechStack = "VUE_PYTHON"
	StackAngularJava     TechStack = "ANGULAR_JAVA"
	StackFlutterFirebase TechStack = "FLUTTER_FIREBASE"
)

const (
	ArchClean       Architecture = "CLEAN_ARCH"
	ArchMVC         Architecture = "MVC"
	ArchAtomic      Architecture = "ATOMIC"
	ArchEventDriven Architecture = "EVENT_DRIVEN"
	ArchServerless  Architecture = "SERVERLESS"
)

const (
	DefaultAppType      = AppSaaSPlatform
	DefaultTechStack    = StackReactNode
	DefaultArchitecture = ArchClean
)

// Option is a key/label pair for rendering a select box.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var appTypes = []Option{
	{string(AppSaaSPlatform), "Nền Tảng SaaS Enterprise"},
	{string(AppECommerce), "Hệ Thống E-commerce Đa Kênh"},
	{string(AppInternalTool), "Công Cụ Quản Trị Nội Bộ (Internal Tool)"},
	{string(AppAPIGateway), "Hệ Thống API Gateway & Microservices"},
	{string(AppAIWrapper), "Ứng Dụng Tích Hợp AI/LLM"},
	{string(AppLandingPage), "Landing Page Chuyển Đổi Cao"},
}

var techStacks = []Option{
	{string(StackReactNode), "React + Node.js (MERN)"},
	{string(StackNextSupabase), "Next.js + Supabase"},
	{string(StackVuePython), "Vue.js + Python (FastAPI)"},
	{string(StackAngularJava), "Angular + Java Spring Boot"},
	{string(StackFlutterFirebase), "Flutter + Firebase"},
}

var architectures = []Option{
	{string(ArchClean), "Clean Architecture"},
	{string(ArchMVC), "MVC (Model-View-Controller)"},
	{string(ArchAtomic), "Atomic Design (Frontend Focus)"},
	{string(ArchEventDriven), "Event-Driven Architecture"},
	{string(ArchServerless), "Serverless Function"},
}

func lookup(opts []Option, key string) (string, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o.Label, true
		}
	}
	return "", false
}

func (a AppType) Label() string {
	l, _ := lookup(appTypes, string(a))
	return l
}

func (a AppType) Valid() bool {
	_, ok := lookup(appTypes, string(a))
	return ok
}

func (s TechStack) Label() string {
	l, _ := lookup(techStacks, string(s))
	return l
}

func (s TechStack) Valid() bool {
	_, ok := lookup(techStacks, string(s))
	return ok
}

func (a Architecture) Label() string {
	l, _ := lookup(architectures, string(a))
	return l
}

func (a Architecture) Valid() bool {
	_, ok := lookup(architectures, string(a))
	return ok
}

// ParseAppType accepts a key; an empty key yields the default.
func ParseAppType(key string) (AppType, error) {
	if key == "" {
		return DefaultAppType, nil
	}
	if v := AppType(key); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown app type %q", ErrInvalidOption, key)
}

func ParseTechStack(key string) (TechStack, error) {
	if key == "" {
		return DefaultTechStack, nil
	}
	if v := TechStack(key); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown tech stack %q", ErrInvalidOption, key)
}

func ParseArchitecture(key string) (Architecture, error) {
	if key == "" {
		return DefaultArchitecture, nil
	}
	if v := Architecture(key); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown architecture %q", ErrInvalidOption, key)
}

// Copies are returned so callers cannot reorder the closed sets.

func AppTypeOptions() []Option      { return append([]Option(nil), appTypes...) }
func TechStackOptions() []Option    { return append([]Option(nil), techStacks...) }
func ArchitectureOptions() []Option { return append([]Option(nil), architectures...) }

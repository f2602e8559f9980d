package utils

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// UpstreamStatus extracts the HTTP status reported by either provider SDK.
// ok is false when err did not come from a provider response.
func UpstreamStatus(err error) (status int, ok bool) {
	if err == nil {
		return 0, false
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		return openAIErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code, true
	}
	return 0, false
}

// GatewayStatus maps an upstream failure onto the status our own API returns.
// Rate limits pass through so clients can back off; everything else is a 502.
func GatewayStatus(err error) int {
	status, ok := UpstreamStatus(err)
	if ok && status == http.StatusTooManyRequests {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

// TruncateRunes keeps the first limit characters of s. Byte slicing would
// split the multi-byte Vietnamese letters the documentation is written in.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// DetermineFileType labels a generated file for the code viewer header.
func DetermineFileType(filename string) string {
	lowerFilename := strings.ToLower(filename)
	ext := filepath.Ext(lowerFilename)
	switch ext {
	case ".html":
		return "HTML"
	case ".css", ".scss":
		return "CSS"
	case ".js", ".mjs", ".cjs":
		return "JavaScript"
	case ".jsx":
		return "JSX"
	case ".ts":
		return "TypeScript"
	case ".tsx":
		return "TSX"
	case ".vue":
		return "Vue"
	case ".py":
		return "Python"
	case ".java":
		return "Java"
	case ".kt":
		return "Kotlin"
	case ".dart":
		return "Dart"
	case ".go":
		return "Go"
	case ".json":
		return "JSON"
	case ".md":
		return "Markdown"
	case ".yaml", ".yml":
		return "YAML"
	case ".toml":
		return "TOML"
	case ".xml":
		return "XML"
	case ".sql":
		return "SQL"
	case ".sh":
		return "Shell"
	case ".env":
		return "Env"
	case ".txt":
		return "Text"
	default:
		base := filepath.Base(lowerFilename)
		if strings.Contains(base, "dockerfile") {
			return "Dockerfile"
		}
		if strings.HasPrefix(base, ".env") {
			return "Env"
		}
		if base == "makefile" {
			return "Makefile"
		}
		return "Text"
	}
}

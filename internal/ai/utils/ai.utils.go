package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"genesis_architect/internal/types"
)

// MalformedResultMessage is what the user sees when the model output cannot be
// turned into a GeneratedResult.
const MalformedResultMessage = "Dữ liệu trả về bị lỗi cấu trúc (JSON Error). Hãy thử lại với yêu cầu ngắn gọn hơn."

// ErrMalformedResult is returned when both parse attempts fail.
var ErrMalformedResult = errors.New(MalformedResultMessage)

var fenceMarkers = []string{"```json", "```"}

// StripFences removes every Markdown code-fence marker and trims the result.
// Applying it twice gives the same text as applying it once.
func StripFences(raw string) string {
	cleaned := raw
	for _, marker := range fenceMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	return strings.TrimSpace(cleaned)
}

// ParseGeneratedResult turns raw model text into a result. It tries a strict
// parse first and, if that fails, strips code fences and tries exactly once
// more. Nothing else is repaired; truncated JSON is an error.
func ParseGeneratedResult(raw string) (*types.GeneratedResult, error) {
	result, err := decode(raw)
	if err == nil {
		return result, nil
	}

	result, errClean := decode(StripFences(raw))
	if errClean != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, errClean)
	}
	return result, nil
}

func decode(text string) (*types.GeneratedResult, error) {
	var result types.GeneratedResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, err
	}
	fillEmpty(&result)
	return &result, nil
}

// fillEmpty turns absent collections into empty ones so callers can range and
// serialize without nil checks.
func fillEmpty(r *types.GeneratedResult) {
	if r.ReusedSnippets == nil {
		r.ReusedSnippets = []string{}
	}
	if r.FileTree == nil {
		r.FileTree = []types.FileNode{}
	}
	if r.DiagramData == nil {
		r.DiagramData = []types.DiagramPoint{}
	}
}

// Tail returns the last n characters of raw, for diagnosis logs.
func Tail(raw string, n int) string {
	runes := []rune(raw)
	if len(runes) <= n {
		return raw
	}
	return string(runes[len(runes)-n:])
}

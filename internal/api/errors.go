package api

import (
	"errors"
	"net/http"

	"genesis_architect/internal/ai"
	aiutils "genesis_architect/internal/ai/utils"
	"genesis_architect/internal/types"
	"genesis_architect/internal/utils"
)

// GenericFailureMessage is shown when an error carries nothing fit for users.
const GenericFailureMessage = "Có lỗi xảy ra trong quá trình xử lý AI."

// SpeechFailureMessage is shown for every failed synthesis.
const SpeechFailureMessage = "Không thể tạo giọng đọc lúc này. Vui lòng kiểm tra API Key."

// BusyMessage accompanies a 409 while an earlier request is still running.
const BusyMessage = "Yêu cầu trước vẫn đang được xử lý. Vui lòng chờ."

// StatusFor maps the error taxonomy onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, types.ErrMissingInput),
		errors.Is(err, types.ErrInvalidOption),
		errors.Is(err, ai.ErrNothingToRead):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusInternalServerError
	case errors.Is(err, ai.ErrMalformedResult),
		errors.Is(err, ai.ErrEmptyResponse),
		errors.Is(err, ai.ErrNoAudio):
		return http.StatusBadGateway
	}
	return utils.GatewayStatus(err)
}

// UserMessage is the text shown in the UI for a generation failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrMissingInput):
		return types.ErrMissingInput.Error()
	case errors.Is(err, ai.ErrMalformedResult):
		return aiutils.MalformedResultMessage
	case errors.Is(err, ai.ErrMissingAPIKey):
		return ai.ErrMissingAPIKey.Error()
	case errors.Is(err, ai.ErrEmptyResponse):
		return ai.ErrEmptyResponse.Error()
	}
	return GenericFailureMessage
}

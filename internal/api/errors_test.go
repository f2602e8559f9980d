package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"genesis_architect/internal/ai"
	aiutils "genesis_architect/internal/ai/utils"
	"genesis_architect/internal/types"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":            {nil, http.StatusOK},
		"missing input":  {types.ErrMissingInput, http.StatusBadRequest},
		"invalid option": {fmt.Errorf("%w: unknown speaker", types.ErrInvalidOption), http.StatusBadRequest},
		"nothing":        {ai.ErrNothingToRead, http.StatusBadRequest},
		"missing key":    {ai.ErrMissingAPIKey, http.StatusInternalServerError},
		"malformed":      {fmt.Errorf("%w: eof", ai.ErrMalformedResult), http.StatusBadGateway},
		"empty":          {ai.ErrEmptyResponse, http.StatusBadGateway},
		"no audio":       {ai.ErrNoAudio, http.StatusBadGateway},
		"gemini quota":   {fmt.Errorf("gemini: %w", &googleapi.Error{Code: http.StatusTooManyRequests}), http.StatusTooManyRequests},
		"gemini outage":  {&googleapi.Error{Code: http.StatusServiceUnavailable}, http.StatusBadGateway},
		"transport":      {errors.New("EOF"), http.StatusBadGateway},
	}
	for name, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), name)
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, types.ErrMissingInput.Error(), UserMessage(types.ErrMissingInput))
	assert.Equal(t, aiutils.MalformedResultMessage, UserMessage(fmt.Errorf("%w: x", ai.ErrMalformedResult)))
	assert.Equal(t, ai.ErrMissingAPIKey.Error(), UserMessage(ai.ErrMissingAPIKey))
	assert.Equal(t, GenericFailureMessage, UserMessage(errors.New("secret upstream detail")))
}

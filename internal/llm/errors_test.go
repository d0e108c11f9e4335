package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{
			name:    "googleapi 429",
			err:     fmt.Errorf("generate: %w", &googleapi.Error{Code: 429, Message: "quota"}),
			kind:    KindRateLimited,
			message: "Rate limit reached! Please wait 60 seconds.",
		},
		{
			name:    "googleapi 403",
			err:     &googleapi.Error{Code: 403, Message: "denied"},
			kind:    KindMisconfigured,
			message: "API key not configured. Please add a valid Gemini API key.",
		},
		{
			name: "status text in message",
			err:  errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"),
			kind: KindRateLimited,
		},
		{
			name: "api key invalid",
			err:  errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."),
			kind: KindMisconfigured,
		},
		{
			name: "invalid argument",
			err:  errors.New("INVALID_ARGUMENT: bad request"),
			kind: KindMisconfigured,
		},
		{
			name:    "anything else",
			err:     context.DeadlineExceeded,
			kind:    KindUnavailable,
			message: "AI service temporarily unavailable. Try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.err)
			var classified *Error
			require.True(t, errors.As(err, &classified))
			assert.Equal(t, tt.kind, classified.Kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, classified.Message)
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.Nil(t, Classify(nil))

	original := &Error{Kind: KindRateLimited, Message: MessageRateLimited}
	wrapped := fmt.Errorf("wrapped: %w", original)
	assert.Equal(t, wrapped, Classify(wrapped), "already classified errors are returned as-is")
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindRateLimited, KindOf(&Error{Kind: KindRateLimited}))
	assert.Equal(t, KindUnavailable, KindOf(errors.New("plain")))
}

func TestNewGeminiClient_MissingKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "  ")
	require.Error(t, err)
	assert.Equal(t, KindMisconfigured, KindOf(err))
}

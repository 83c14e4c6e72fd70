package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel zerolog.Level
	}{
		{name: "given development env should log at trace level", env: "development", expectedLevel: zerolog.TraceLevel},
		{name: "given production env should log at info level", env: "production", expectedLevel: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(buf, tt.env)
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
		})
	}
}

func TestAttachTraceIdFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf, "production")

	c := AttachRequestIDToContext(context.Background(), "req-1")
	logger.Info().Ctx(c).Msg("hello")

	line := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line[KeyRequestID])
	assert.Equal(t, "hello", line["message"])
	assert.NotContains(t, line, KeyTraceID)
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

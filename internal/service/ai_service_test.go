package service

import (
	"class_tracker/internal/config"
	"class_tracker/internal/util"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_Complete(t *testing.T) {
	ai, stub := newAIStub(t, "hello")

	content, err := ai.Complete(context.Background(), "some-model", "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	assert.Equal(t, "Bearer test-key", stub.lastKey)
	assert.Equal(t, "some-model", stub.lastReq.Model)
	assert.Equal(t, 0.3, stub.lastReq.Temperature)
	require.Len(t, stub.lastReq.Messages, 1)
	assert.Equal(t, "user", stub.lastReq.Messages[0].Role)
	assert.Equal(t, "prompt text", stub.lastReq.Messages[0].Content)
}

func TestAIService_CompleteHTTPError(t *testing.T) {
	ai, stub := newAIStub(t, "")
	stub.reply(http.StatusInternalServerError, "")

	_, err := ai.Complete(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAIService_NoKey(t *testing.T) {
	ai := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:1"})
	assert.False(t, ai.Enabled())

	_, err := ai.Complete(context.Background(), "m", "p")
	assert.ErrorIs(t, err, util.ErrAIUnavailable)

	ai.UpdateConfig(config.AIConfig{BaseURL: "http://127.0.0.1:1", APIKey: "k", EssayModel: "gpt-x"})
	assert.True(t, ai.Enabled())
	assert.Equal(t, "gpt-x", ai.EssayModel())
}

func TestDecodeJSONReply(t *testing.T) {
	var v struct {
		Score int `json:"score"`
	}
	require.NoError(t, decodeJSONReply("```json\n{\"score\": 7}\n```", &v))
	assert.Equal(t, 7, v.Score)

	err := decodeJSONReply("not json", &v)
	assert.ErrorIs(t, err, util.ErrAIResponse)
}

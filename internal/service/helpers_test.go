package service

import (
	"class_tracker/internal/config"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// aiStub 模拟 chat/completions 接口，记录最后一次请求
type aiStub struct {
	mu      sync.Mutex
	status  int
	content string
	calls   int
	lastReq ChatCompletionRequest
	lastKey string
}

func (s *aiStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls++
		s.lastKey = r.Header.Get("Authorization")
		require.NoError(t, json.Unmarshal(body, &s.lastReq))

		if s.status != 0 && s.status != http.StatusOK {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": s.content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newAIStub(t *testing.T, content string) (*AIService, *aiStub) {
	t.Helper()
	stub := &aiStub{content: content}
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	return NewAIService(config.AIConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		DictationModel: "dictation-model",
		EssayModel:     "essay-model",
		Temperature:    0.3,
		TimeoutSeconds: 5,
	}), stub
}

func (s *aiStub) reply(status int, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.content = content
}

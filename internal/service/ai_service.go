package service

import (
	"bytes"
	"class_tracker/internal/config"
	"class_tracker/internal/util"
	"class_tracker/pkg/tracing"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AIService OpenAI 兼容的 chat/completions 客户端，配置可热更新
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UpdateConfig 配置文件变更后替换 AI 配置
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: cfg.Timeout()}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

func (s *AIService) Enabled() bool {
	cfg, _ := s.snapshot()
	return cfg.APIKey != ""
}

func (s *AIService) DictationModel() string {
	cfg, _ := s.snapshot()
	return cfg.DictationModel
}

func (s *AIService) EssayModel() string {
	cfg, _ := s.snapshot()
	return cfg.EssayModel
}

// Complete 发送单条 user 消息并返回模型回复内容
func (s *AIService) Complete(ctx context.Context, model, prompt string) (string, error) {
	cfg, client := s.snapshot()
	if cfg.APIKey == "" {
		return "", util.ErrAIUnavailable
	}

	ctx, span := tracing.Tracer.Start(ctx, "ai.chat_completion")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", model))

	content, err := s.do(ctx, client, cfg, ChatCompletionRequest{
		Model:       model,
		Messages:    []AIChatMessage{{Role: "user", Content: prompt}},
		Temperature: cfg.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return content, nil
}

func (s *AIService) do(ctx context.Context, client *http.Client, cfg config.AIConfig, reqBody ChatCompletionRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// decodeJSONReply 去掉 ```json 代码块包裹后解析
func decodeJSONReply(content string, v interface{}) error {
	if err := json.Unmarshal([]byte(StripCodeFence(content)), v); err != nil {
		return fmt.Errorf("%w: %v", util.ErrAIResponse, err)
	}
	return nil
}

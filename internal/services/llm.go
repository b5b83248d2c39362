package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"devflow/internal/config"
	"devflow/internal/httperr"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// LLMService talks to an OpenAI-compatible chat completions endpoint. The model is an
// opaque text generator.
type LLMService struct {
	cfg  config.LLM
	http *http.Client
}

func NewLLMService(cfg config.LLM) *LLMService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &LLMService{cfg: cfg, http: &http.Client{}}
}

// Complete sends one system+user exchange and returns the reply text.
func (s *LLMService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if s.cfg.BaseURL == "" {
		return "", httperr.NewRequestError(http.StatusInternalServerError, "LLM base URL is not configured")
	}

	body, err := json.Marshal(ChatRequest{
		Model: s.cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &httperr.TimeoutError{URL: url, After: s.cfg.Timeout}
		}
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", httperr.NewRequestError(http.StatusBadGateway,
			fmt.Sprintf("AI provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", httperr.NewRequestError(http.StatusBadGateway, "AI provider returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

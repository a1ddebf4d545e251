package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/suhasdasari/remo-calender/internal/config"
	"github.com/suhasdasari/remo-calender/internal/domain"
)

const systemPrompt = "You are Remo, a friendly personal assistant that helps people schedule meetings. Keep replies short and conversational."

// FallbackReply is sent when the completion call fails or comes back
// empty.
const FallbackReply = "Sorry, I'm having trouble thinking right now. Please try again in a moment."

type OpenRouterService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenRouterService(apiKey, model string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://openrouter.ai/api/v1",
		httpClient: &http.Client{Timeout: config.ChatRequestTimeout},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Reply produces one assistant message for the user's history plus the
// new message. repeatCount is how many consecutive times the user has
// sent this exact text; it is passed to the model as a system note so
// repeated messages get acknowledged instead of answered afresh.
func (s *OpenRouterService) Reply(ctx context.Context, history []domain.ChatTurn, userText string, repeatCount int) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+3)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Text})
	}
	if repeatCount > 1 {
		messages = append(messages, ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("The user has sent this exact message %d times in a row. Acknowledge the repetition.", repeatCount),
		})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: userText})

	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: config.ChatTemperature,
		MaxTokens:   config.ChatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", domain.ErrEmptyCompletion
	}
	return chatResp.Choices[0].Message.Content, nil
}

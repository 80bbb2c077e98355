package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/songzhibin97/quantrisk/internal/report"
	"github.com/songzhibin97/quantrisk/internal/risk"
)

const (
	defaultAPIEndpoint = "https://api.deepseek.com/v1"
	defaultModel       = "deepseek-chat"
)

// DeepSeekNarrator implements the Narrator interface using DeepSeek
type DeepSeekNarrator struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewDeepSeekNarrator creates a new DeepSeek narrator instance
func NewDeepSeekNarrator(apiKey string, model string) *DeepSeekNarrator {
	if model == "" {
		model = defaultModel
	}

	return &DeepSeekNarrator{
		apiKey:   apiKey,
		endpoint: defaultAPIEndpoint,
		model:    model,
		client:   &http.Client{},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Narrate implements the Narrator interface
func (n *DeepSeekNarrator) Narrate(ctx context.Context, r *risk.Report) (string, error) {
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	summary, err := n.createChatCompletion(ctx, report.BuildPrompt(r.Meta.Ticker, string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to narrate report: %w", err)
	}

	return report.Compose(summary, string(payload)), nil
}

// createChatCompletion sends a request to the DeepSeek API
func (n *DeepSeekNarrator) createChatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: n.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "你是一个专业的买方风险分析师，擅长解读量化风险报告。你的结论只能来自报告中的数字，不要编造数据。",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: 0.3,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		fmt.Sprintf("%s/chat/completions", n.endpoint),
		bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.apiKey))

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("deepseek api error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from deepseek")
	}

	return chatResp.Choices[0].Message.Content, nil
}

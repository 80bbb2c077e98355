package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/songzhibin97/quantrisk/internal/report"
	"github.com/songzhibin97/quantrisk/internal/risk"
)

// OpenAINarrator implements the Narrator interface using OpenAI
type OpenAINarrator struct {
	client *openai.Client
	model  string
}

// NewOpenAINarrator creates a new OpenAI narrator instance
func NewOpenAINarrator(apiKey string, model string) *OpenAINarrator {
	client := openai.NewClient(apiKey)
	if model == "" {
		model = openai.GPT4 // 默认使用GPT-4
	}
	return &OpenAINarrator{
		client: client,
		model:  model,
	}
}

// Narrate implements the Narrator interface
func (n *OpenAINarrator) Narrate(ctx context.Context, r *risk.Report) (string, error) {
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

// createChatCompletion is a helper function to make OpenAI API calls
func (n *OpenAINarrator) createChatCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "你是一个专业的买方风险分析师，擅长解读量化风险报告。你的结论只能来自报告中的数字，不要编造数据。",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3, // 使用较低的temperature以获得更稳定的输出
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

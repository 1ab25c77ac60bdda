package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/sashabaranov/go-openai"

	"kgeyst.com/vista/pkg/vista/domain"
)

const DefaultModel = "gpt-4o-mini"

// VisionModel describes images with OpenAI's chat completions (or any server speaking the same API, which is why
// the base URL is configurable).
type VisionModel struct {
	client    *openaisdk.Client
	model     string
	maxTokens int
}

func NewVisionModel(apiKey, baseURL, model string, maxTokens int) (*VisionModel, error) {
	client, err := newClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &VisionModel{client: client, model: model, maxTokens: maxTokens}, nil
}

func newClient(apiKey, baseURL string) (*openaisdk.Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai: missing API key (set OPENAI_API_KEY)")
	}
	config := openaisdk.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openaisdk.NewClientWithConfig(config), nil
}

func (v *VisionModel) Name() string {
	return "openai/" + v.model
}

func (v *VisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	response, err := v.client.CreateChatCompletion(ctx, openaisdk.ChatCompletionRequest{
		Model:     v.model,
		MaxTokens: v.maxTokens,
		Messages: []openaisdk.ChatCompletionMessage{{
			Role: openaisdk.ChatMessageRoleUser,
			MultiContent: []openaisdk.ChatMessagePart{
				{
					Type: openaisdk.ChatMessagePartTypeText,
					Text: prompt,
				},
				{
					Type: openaisdk.ChatMessagePartTypeImageURL,
					ImageURL: &openaisdk.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openaisdk.ImageURLDetailAuto,
					},
				},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("openai describe: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", domain.ErrEmptyResponse
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

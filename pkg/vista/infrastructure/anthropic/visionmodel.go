package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"kgeyst.com/vista/pkg/vista/domain"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024
)

// VisionModel describes images with Anthropic's Messages API.
type VisionModel struct {
	client    anthropicsdk.Client
	model     string
	maxTokens int
}

// NewVisionModel `baseURL` can be empty (the official endpoint is used then).
func NewVisionModel(apiKey, baseURL, model string, maxTokens int) (*VisionModel, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: missing API key (set ANTHROPIC_API_KEY)")
	}
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &VisionModel{
		client:    anthropicsdk.NewClient(options...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (v *VisionModel) Name() string {
	return "anthropic/" + v.model
}

func (v *VisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	message, err := v.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(v.model),
		MaxTokens: int64(v.maxTokens),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(
				anthropicsdk.NewImageBlockBase64(mimeType, base64.StdEncoding.EncodeToString(image)),
				anthropicsdk.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic describe: %w", err)
	}
	var builder strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			builder.WriteString(textBlock.Text)
		}
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kgeyst.com/vista/pkg/vista/domain"
)

const DefaultModel = "gemini-1.5-flash"

// VisionModel describes images with Google's Gemini models.
type VisionModel struct {
	client *genai.Client
	model  string
}

func NewVisionModel(ctx context.Context, apiKey, model string) (*VisionModel, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing API key (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &VisionModel{client: client, model: model}, nil
}

func (v *VisionModel) Name() string {
	return "gemini/" + v.model
}

func (v *VisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	model := v.client.GenerativeModel(v.model)
	response, err := model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(imageFormat(mimeType), image))
	if err != nil {
		return "", fmt.Errorf("gemini describe: %w", err)
	}
	text := responseText(response)
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

func (v *VisionModel) Close() error {
	return v.client.Close()
}

// imageFormat genai.ImageData wants "jpeg", not "image/jpeg".
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	if format == "" || format == "jpg" {
		return "jpeg"
	}
	return format
}

func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return strings.TrimSpace(builder.String())
}

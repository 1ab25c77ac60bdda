package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollamaapi "github.com/ollama/ollama/api"

	"kgeyst.com/vista/pkg/vista/domain"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llava"
)

// VisionModel describes images with a local multimodal model served by Ollama (llava, moondream, etc). Handy on
// a home server when the assistant must work offline.
type VisionModel struct {
	client *ollamaapi.Client
	model  string
}

func NewVisionModel(host, model string, timeout time.Duration) (*VisionModel, error) {
	if host == "" {
		host = DefaultHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if model == "" {
		model = DefaultModel
	}
	httpClient := &http.Client{Timeout: timeout}
	return &VisionModel{
		client: ollamaapi.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (v *VisionModel) Name() string {
	return "ollama/" + v.model
}

func (v *VisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	var builder strings.Builder
	request := &ollamaapi.GenerateRequest{
		Model:  v.model,
		Prompt: prompt,
		Images: []ollamaapi.ImageData{image},
	}
	err := v.client.Generate(ctx, request, func(response ollamaapi.GenerateResponse) error {
		builder.WriteString(response.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama describe: %w", err)
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

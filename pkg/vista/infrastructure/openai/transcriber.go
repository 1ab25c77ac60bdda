package openai

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/sashabaranov/go-openai"
)

// Transcriber turns recorded speech into text with Whisper.
type Transcriber struct {
	client   *openaisdk.Client
	model    string
	language string
}

// NewTranscriber `language` is an ISO-639-1 hint ("en"); empty lets Whisper guess.
func NewTranscriber(apiKey, baseURL, model, language string) (*Transcriber, error) {
	client, err := newClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = openaisdk.Whisper1
	}
	return &Transcriber{client: client, model: model, language: language}, nil
}

// Transcribe the audio file at `filePath` (WAV, MP3 etc).
func (t *Transcriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	response, err := t.client.CreateTranscription(ctx, openaisdk.AudioRequest{
		Model:    t.model,
		FilePath: filePath,
		Language: t.language,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcribe: %w", err)
	}
	return strings.TrimSpace(response.Text), nil
}

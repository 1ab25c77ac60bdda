package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/vista/pkg/vista/domain"
)

func TestDescribeJoinsStreamedChunks(t *testing.T) {
	var request struct {
		Model  string   `json:"model"`
		Prompt string   `json:"prompt"`
		Images [][]byte `json:"images"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"model":"llava","response":"A jar ","done":false}` + "\n"))
		_, _ = w.Write([]byte(`{"model":"llava","response":"of honey.","done":false}` + "\n"))
		_, _ = w.Write([]byte(`{"model":"llava","response":"","done":true,"done_reason":"stop"}` + "\n"))
	}))
	defer server.Close()

	model, err := NewVisionModel(server.URL, "", 5*time.Second)
	require.NoError(t, err)

	description, err := model.Describe(context.Background(), "what is this", []byte{1, 2, 3}, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "A jar of honey.", description)
	assert.Equal(t, DefaultModel, request.Model)
	assert.Equal(t, "what is this", request.Prompt)
	require.Len(t, request.Images, 1)
	assert.Equal(t, []byte{1, 2, 3}, request.Images[0])
	assert.Equal(t, "ollama/llava", model.Name())
}

func TestDescribeFailsOnEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"model":"llava","response":"","done":true}` + "\n"))
	}))
	defer server.Close()

	model, err := NewVisionModel(server.URL, "moondream", time.Second)
	require.NoError(t, err)

	_, err = model.Describe(context.Background(), "what is this", []byte{1}, "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

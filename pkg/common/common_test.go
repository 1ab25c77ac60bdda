package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFormat(t *testing.T) {
	assert.True(t, IsImageFormat("https://example.com/cat.jpg"))
	assert.True(t, IsImageFormat("https://example.com/cat.JPEG?size=large"))
	assert.True(t, IsImageFormat("label.webp"))
	assert.False(t, IsImageFormat("https://example.com/index.html"))
	assert.False(t, IsImageFormat("https://example.com/jpg"))
}

func TestContainsAnySubstring(t *testing.T) {
	assert.True(t, ContainsAnySubstring("repeat after me", []string{"eat"}))
	assert.True(t, ContainsAnySubstring("tell me more", []string{"what", "tell me"}))
	assert.False(t, ContainsAnySubstring("hello", []string{"bye"}))
	assert.False(t, ContainsAnySubstring("hello", nil))
}

func TestReadAllFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/small":
			_, _ = w.Write([]byte("hello"))
		case "/large":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	content, err := ReadAllFromURL(context.Background(), server.URL+"/small", 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = ReadAllFromURL(context.Background(), server.URL+"/large", 10)
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	_, err = ReadAllFromURL(context.Background(), server.URL+"/missing", 10)
	assert.Error(t, err)
}

func TestJobQueueRunsEnqueuedJobsBeforeStopping(t *testing.T) {
	queue := NewJobQueue(NewNopLogger())
	var mutex sync.Mutex
	var done []int
	for i := 0; i < 5; i++ {
		i := i
		queue.Enqueue(func() error {
			mutex.Lock()
			defer mutex.Unlock()
			done = append(done, i)
			return nil
		})
	}
	queue.Enqueue(func() error {
		return errors.New("logged, not fatal")
	})
	queue.Stop()
	queue.Stop()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, done)
}

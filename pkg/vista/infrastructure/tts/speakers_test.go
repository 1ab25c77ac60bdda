package tts

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSpeaker struct {
	err error
}

func (f *failingSpeaker) Speak(ctx context.Context, text string) error {
	return f.err
}

func TestConsoleSpeaker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleSpeaker(&buf).Speak(context.Background(), "Taking picture"))

	assert.Equal(t, "Speaking: Taking picture\n", buf.String())
}

func TestEspeakSpeakerArgs(t *testing.T) {
	assert.Equal(t, []string{"-s", "150", "-a", "90", "--stdin"}, NewEspeakSpeaker("", 150, 0.9, "").args())
	assert.Equal(t, []string{"-s", "120", "-a", "100", "-v", "en-us", "--stdin"}, NewEspeakSpeaker("", 120, 3, "en-us").args())
}

func TestEspeakSpeakerPipesTextToStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	directory := t.TempDir()
	output := filepath.Join(directory, "spoken.txt")
	script := filepath.Join(directory, "fake-espeak")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncat > "+output+"\n"), 0o755))

	err := NewEspeakSpeaker(script, 150, 0.9, "").Speak(context.Background(), "-a bottle of aspirin")
	require.NoError(t, err)

	spoken, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "-a bottle of aspirin", string(spoken))
}

func TestTeeSpeakerSpeaksThroughAll(t *testing.T) {
	var buf bytes.Buffer
	failure := errors.New("no audio device")
	speaker := NewTeeSpeaker(&failingSpeaker{err: failure}, NewConsoleSpeaker(&buf))

	err := speaker.Speak(context.Background(), "Goodbye")

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, "Speaking: Goodbye\n", buf.String())
}

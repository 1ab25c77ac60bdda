package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"kgeyst.com/vista/pkg/common"
)

const DefaultRecordCommand = "arecord"

// Transcriber turns an audio file into text. See openai.Transcriber.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// MicrophoneListener records a fixed-length phrase with arecord and has it transcribed. An empty result means
// nothing intelligible was said.
type MicrophoneListener struct {
	transcriber   Transcriber
	recordCommand string
	device        string
	phraseLength  time.Duration
	logger        common.Logger
}

// NewMicrophoneListener `device` is an ALSA device name ("plughw:1,0"); empty means the default one.
func NewMicrophoneListener(
	transcriber Transcriber,
	recordCommand string,
	device string,
	phraseLength time.Duration,
	logger common.Logger,
) *MicrophoneListener {
	if recordCommand == "" {
		recordCommand = DefaultRecordCommand
	}
	return &MicrophoneListener{
		transcriber:   transcriber,
		recordCommand: recordCommand,
		device:        device,
		phraseLength:  phraseLength,
		logger:        logger,
	}
}

func (m *MicrophoneListener) Listen(ctx context.Context) (string, error) {
	file, err := os.CreateTemp("", "vista_*.wav")
	if err != nil {
		return "", err
	}
	path := file.Name()
	_ = file.Close()
	defer func() {
		_ = os.Remove(path)
	}()
	m.logger.Log("listening for keyword...")
	cmd := exec.CommandContext(ctx, m.recordCommand, m.args(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err = cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s: %w (%s)", m.recordCommand, err, strings.TrimSpace(stderr.String()))
	}
	text, err := m.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}
	if text != "" {
		m.logger.Info("heard", "text", text)
	}
	return text, nil
}

func (m *MicrophoneListener) args(path string) []string {
	seconds := max(1, int(m.phraseLength.Round(time.Second)/time.Second))
	args := []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "-d", strconv.Itoa(seconds)}
	if m.device != "" {
		args = append(args, "-D", m.device)
	}
	return append(args, path)
}

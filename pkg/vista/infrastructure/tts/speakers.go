package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"kgeyst.com/vista/pkg/vista/domain"
)

const DefaultEspeakCommand = "espeak"

// ConsoleSpeaker prints what would be said. Used in simulation and alongside a real voice so the text is visible.
type ConsoleSpeaker struct {
	mutex  sync.Mutex
	writer io.Writer
}

func NewConsoleSpeaker(writer io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{writer: writer}
}

func (c *ConsoleSpeaker) Speak(ctx context.Context, text string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, err := fmt.Fprintf(c.writer, "Speaking: %s\n", text)
	return err
}

// EspeakSpeaker reads text out loud with espeak (or espeak-ng). The text goes through stdin so that nothing in it
// can be mistaken for a flag.
type EspeakSpeaker struct {
	mutex   sync.Mutex
	command string
	rate    int
	volume  float64
	voice   string
}

// NewEspeakSpeaker `rate` is in words per minute, `volume` is 0..1 (espeak's amplitude 0..100). `voice` can be
// empty for espeak's default.
func NewEspeakSpeaker(command string, rate int, volume float64, voice string) *EspeakSpeaker {
	if command == "" {
		command = DefaultEspeakCommand
	}
	return &EspeakSpeaker{
		command: command,
		rate:    rate,
		volume:  volume,
		voice:   voice,
	}
}

func (e *EspeakSpeaker) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// One utterance at a time, otherwise voices overlap.
	e.mutex.Lock()
	defer e.mutex.Unlock()
	cmd := exec.CommandContext(ctx, e.command, e.args()...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", e.command, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (e *EspeakSpeaker) args() []string {
	amplitude := int(math.Round(min(max(e.volume, 0), 1) * 100))
	args := []string{"-s", strconv.Itoa(e.rate), "-a", strconv.Itoa(amplitude)}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	return append(args, "--stdin")
}

type teeSpeaker struct {
	speakers []domain.Speaker
}

// NewTeeSpeaker speaks through every speaker in order; one failing doesn't silence the rest.
func NewTeeSpeaker(speakers ...domain.Speaker) domain.Speaker {
	return &teeSpeaker{speakers: speakers}
}

func (t *teeSpeaker) Speak(ctx context.Context, text string) error {
	var errs []error
	for _, speaker := range t.speakers {
		errs = append(errs, speaker.Speak(ctx, text))
	}
	return errors.Join(errs...)
}

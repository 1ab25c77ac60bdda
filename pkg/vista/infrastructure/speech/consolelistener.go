package speech

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// ConsoleListener treats typed lines as recognized speech. Useful for simulating the assistant without a microphone.
type ConsoleListener struct {
	reader LineReader
}

func NewConsoleListener(reader LineReader) *ConsoleListener {
	return &ConsoleListener{reader: reader}
}

// NewReadlineListener opens an interactive prompt on the terminal. Close the returned instance when done.
func NewReadlineListener(prompt string) (*ConsoleListener, *readline.Instance, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return nil, nil, err
	}
	return NewConsoleListener(rl), rl, nil
}

// Listen returns io.EOF once the input is closed or the user presses Ctrl+C.
func (c *ConsoleListener) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := c.reader.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

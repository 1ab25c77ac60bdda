package camera

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"kgeyst.com/vista/pkg/vista/domain"
)

const DefaultCommand = "libcamera-still"

// CommandCamera shoots stills with libcamera-still (or rpicam-still, which takes the same flags) on a Raspberry Pi.
// The JPEG is read from the tool's stdout.
type CommandCamera struct {
	command string
	width   int
	height  int
	warmup  time.Duration
}

// NewCommandCamera `warmup` gives the sensor time to settle exposure and white balance before the shot.
func NewCommandCamera(command string, width, height int, warmup time.Duration) *CommandCamera {
	if command == "" {
		command = DefaultCommand
	}
	return &CommandCamera{
		command: command,
		width:   width,
		height:  height,
		warmup:  warmup,
	}
}

func (c *CommandCamera) Name() string {
	return c.command
}

func (c *CommandCamera) Capture(ctx context.Context) (*domain.Capture, error) {
	cmd := exec.CommandContext(ctx, c.command, c.args()...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", c.command, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s: %w: no image data", c.command, domain.ErrInvalidImage)
	}
	return domain.NewCapture(stdout.Bytes(), "image/jpeg", c.Name()), nil
}

func (c *CommandCamera) args() []string {
	return []string{
		"-n", // no preview window
		"-t", strconv.FormatInt(max(c.warmup.Milliseconds(), 1), 10),
		"--width", strconv.Itoa(c.width),
		"--height", strconv.Itoa(c.height),
		"-e", "jpg",
		"-o", "-",
	}
}

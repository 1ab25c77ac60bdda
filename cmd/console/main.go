package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/api"
	"kgeyst.com/vista/pkg/vista/domain"
	"kgeyst.com/vista/pkg/vista/infrastructure/speech"
	"kgeyst.com/vista/pkg/vista/infrastructure/tts"
)

// Typed lines stand in for recognized speech, so the whole loop can be tried without a microphone (and, with
// "camera: file", without a camera).
func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := api.NewLogger(config)
	consoleListener, rl, err := speech.NewReadlineListener("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	var speaker domain.Speaker = tts.NewConsoleSpeaker(os.Stdout)
	if config.GetBoolOrDefault(api.ConfigKeyTTSEnabled, false) {
		speaker = api.NewSpeaker(config, os.Stdout)
	}
	listener := &commandListener{wrapped: consoleListener}
	vista, err := api.NewAPI(ctx, config, logger, listener, speaker)
	if err != nil {
		return err
	}
	defer func() {
		_ = vista.Close()
	}()
	listener.vista = vista
	keyword := config.GetStringOrDefault(api.ConfigKeyTriggerKeyword, "click")
	fmt.Printf("Type '%s' to capture and analyze an image, '%s [request]' for a specific analysis\n", keyword, keyword)
	fmt.Printf("  e.g. '%s read the prescription', '%s what ingredients are in this'\n", keyword, keyword)
	fmt.Println("Type ':history [N]' to list recent analyses, 'exit' or 'quit' to stop")
	return vista.Run(ctx)
}

// commandListener handles lines starting with ":" itself instead of passing them on as speech.
type commandListener struct {
	wrapped domain.Listener
	vista   api.API
}

func (c *commandListener) Listen(ctx context.Context) (string, error) {
	line, err := c.wrapped.Listen(ctx)
	if err != nil || !strings.HasPrefix(line, ":") {
		return line, err
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 || fields[0] != "history" {
		fmt.Println("unknown command")
		return "", nil
	}
	limit := 5
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			limit = n
		}
	}
	analyses, err := c.vista.History(ctx, limit)
	if err != nil {
		fmt.Println(err)
		return "", nil
	}
	if len(analyses) == 0 {
		fmt.Println("no history (set journalPath in config.yaml to keep one)")
	}
	for _, analysis := range analyses {
		fmt.Printf(
			"[%s] %s (%s, %.1f%% smaller): %s\n",
			analysis.CreatedAt.Format("2006-01-02 15:04:05"),
			analysis.Category,
			analysis.Model,
			analysis.ReductionPercent(),
			analysis.Description,
		)
	}
	return "", nil
}

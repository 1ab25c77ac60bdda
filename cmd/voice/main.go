package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/api"
)

// The Raspberry Pi deployment: microphone in, camera for pictures, espeak out.
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
	listener, err := api.NewMicrophoneListener(config, logger)
	if err != nil {
		return err
	}
	vista, err := api.NewAPI(ctx, config, logger, listener, api.NewSpeaker(config, os.Stdout))
	if err != nil {
		return err
	}
	defer func() {
		_ = vista.Close()
	}()
	keyword := config.GetStringOrDefault(api.ConfigKeyTriggerKeyword, "click")
	fmt.Println("AI Vision Assistant Started")
	fmt.Printf("Say '%s' to capture and analyze an image, '%s [request]' for a specific analysis\n", keyword, keyword)
	fmt.Println("Say 'exit' or 'quit' to stop")
	return vista.Run(ctx)
}

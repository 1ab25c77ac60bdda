package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/api"
	"kgeyst.com/vista/pkg/vista/infrastructure/camera"
	"kgeyst.com/vista/pkg/vista/infrastructure/speech"
	"kgeyst.com/vista/pkg/vista/infrastructure/tts"
)

// Checks that config.yaml, the API key and the external tools the assistant shells out to are in place.
func main() {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		fmt.Printf("✗ config.yaml: %v\n", err)
		os.Exit(1)
	}
	settings := api.NewSettings(config)
	ok := report("settings", settings.Validate())
	if settings.RequiresAPIKey() {
		var err error
		if settings.APIKey == "" {
			err = fmt.Errorf("not found (set %s or %s in config.yaml)", strings.Join(api.APIKeyEnvVars(settings.VisionProvider), " or "), api.ConfigKeyAPIKey)
		}
		ok = report(settings.VisionProvider+" API key", err) && ok
	}
	if settings.Camera == api.CameraCommand {
		ok = reportCommand(settings.CameraCommand, camera.DefaultCommand) && ok
	} else {
		_, err := os.Stat(settings.SimulationImagePath)
		ok = report("simulation images "+settings.SimulationImagePath, err) && ok
	}
	if settings.VisionProvider == api.ProviderLlavaCpp {
		binary := settings.LlavaBinary
		if !filepath.IsAbs(binary) {
			binary = "./" + binary
		}
		ok = reportCommand(binary, "") && ok
	}
	if settings.TTSEnabled {
		ok = reportCommand(settings.TTSCommand, tts.DefaultEspeakCommand) && ok
	}
	// Only needed by cmd/voice.
	reportCommand(settings.RecordCommand, speech.DefaultRecordCommand)
	if !ok {
		fmt.Println("\nSome checks failed, fix the issues above before running the assistant.")
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed.")
}

func report(what string, err error) bool {
	if err != nil {
		fmt.Printf("✗ %s: %v\n", what, err)
		return false
	}
	fmt.Printf("✓ %s\n", what)
	return true
}

func reportCommand(command, defaultCommand string) bool {
	if command == "" {
		command = defaultCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return report(command, err)
	}
	return report(command+" ("+path+")", nil)
}

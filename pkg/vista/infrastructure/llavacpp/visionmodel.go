package llavacpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"kgeyst.com/vista/pkg/vista/domain"
)

// Only 1 request can be processed at a time because the model runs on commodity hardware which can't usually
// process two requests simultaneously due to low amounts of VRAM.
var mutex sync.Mutex

// Paths to the llava.cpp binary and its weights. Relative paths are resolved against the working directory.
type Paths struct {
	Binary     string
	Model      string
	Projection string
}

func DefaultPaths() Paths {
	return Paths{
		Binary:     "llava.cpp",
		Model:      "llava.bin",
		Projection: "llava-proj.bin",
	}
}

// VisionModel runs llava.cpp locally. The image goes through a temporary file because the binary only accepts
// a path.
type VisionModel struct {
	paths       Paths
	temperature float64
}

func NewVisionModel(paths Paths, temperature float64) *VisionModel {
	return &VisionModel{paths: paths, temperature: temperature}
}

func (v *VisionModel) Name() string {
	return "llava.cpp"
}

func (v *VisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	mutex.Lock()
	defer mutex.Unlock()
	file, err := os.CreateTemp("", "vista_*"+extension(mimeType))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()
	_, err = file.Write(image)
	closeErr := file.Close()
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return "", closeErr
	}
	cmd, err := v.buildExecCommand(ctx, file.Name(), prompt)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		return "", fmt.Errorf("llava.cpp: %w", err)
	}
	result := removeGarbage(out.String())
	if result == "" {
		return "", domain.ErrEmptyResponse
	}
	return result, nil
}

func (v *VisionModel) buildExecCommand(ctx context.Context, filePath, prompt string) (*exec.Cmd, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(
		ctx,
		resolve(workingDirectory, v.paths.Binary),
		"-m", resolve(workingDirectory, v.paths.Model),
		"--mmproj", resolve(workingDirectory, v.paths.Projection),
		"--image", filePath,
		"--temp", fmt.Sprintf("%g", v.temperature),
		"-p", prompt,
	), nil
}

func resolve(workingDirectory, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// removeGarbage strips the model loading log which llava.cpp prints to stdout before the answer.
func removeGarbage(result string) string {
	const anchor = "per image patch)"
	hackIndex := strings.Index(result, anchor)
	if hackIndex != -1 {
		result = result[hackIndex+len(anchor):]
	}
	return strings.TrimSpace(result)
}

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"kgeyst.com/vista/pkg/vista/domain"
)

const captureTimeLayout = "20060102_150405"

// CaptureStore keeps every capture as "capture_<date>_<time>.<ext>" in a directory. Two captures within the same
// second get the capture ID appended instead of overwriting each other.
type CaptureStore struct {
	directoryPath string
}

func NewCaptureStore(directoryPath string) (*CaptureStore, error) {
	err := os.MkdirAll(directoryPath, 0o755)
	if err != nil {
		return nil, err
	}
	return &CaptureStore{directoryPath: directoryPath}, nil
}

func (c *CaptureStore) Save(ctx context.Context, capture *domain.Capture) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	baseName := "capture_" + capture.TakenAt.Format(captureTimeLayout)
	extension := extensionByMIMEType(capture.MIMEType)
	path := filepath.Join(c.directoryPath, baseName+extension)
	err := writeNewFile(path, capture.Data)
	if errors.Is(err, fs.ErrExist) {
		path = filepath.Join(c.directoryPath, fmt.Sprintf("%s_%s%s", baseName, capture.ID, extension))
		err = writeNewFile(path, capture.Data)
	}
	if err != nil {
		return "", err
	}
	capture.Path = path
	return path, nil
}

func writeNewFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, err = file.Write(data)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func extensionByMIMEType(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

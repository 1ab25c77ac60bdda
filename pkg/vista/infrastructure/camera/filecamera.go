package camera

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
)

var ErrNoImages = errors.New("no images found")

// FileCamera "captures" images from disk: either a single file, or every image in a directory one after another
// (wrapping around). Used for simulation on machines without a camera.
type FileCamera struct {
	mutex sync.Mutex
	path  string
	next  int
}

func NewFileCamera(path string) *FileCamera {
	return &FileCamera{path: path}
}

func (f *FileCamera) Name() string {
	return "file:" + f.path
}

func (f *FileCamera) Capture(ctx context.Context) (*domain.Capture, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	paths, err := f.listImages()
	if err != nil {
		return nil, err
	}
	path := paths[f.next%len(paths)]
	f.next++
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	capture := domain.NewCapture(data, http.DetectContentType(data), f.Name())
	capture.Path = path
	return capture, nil
}

func (f *FileCamera) listImages() ([]string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{f.path}, nil
	}
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && common.IsImageFormat(entry.Name()) {
			paths = append(paths, filepath.Join(f.path, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, f.path)
	}
	sort.Strings(paths)
	return paths, nil
}

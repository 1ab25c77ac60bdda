package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
)

const DefaultMaxImageBytes = 20 * 1024 * 1024

// URLCamera downloads an image instead of taking a picture. Relaxed URLs without a scheme ("example.com/a.jpg")
// are fetched over https.
type URLCamera struct {
	url      string
	maxBytes int64
}

func NewURLCamera(url string, maxBytes int64) *URLCamera {
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &URLCamera{url: url, maxBytes: maxBytes}
}

// NewURLCameraFactory for domain.NewImageSourceSelector
func NewURLCameraFactory(maxBytes int64) domain.URLCameraFactory {
	return func(url string) domain.Camera {
		return NewURLCamera(url, maxBytes)
	}
}

func (u *URLCamera) Name() string {
	return u.url
}

func (u *URLCamera) Capture(ctx context.Context) (*domain.Capture, error) {
	data, err := common.ReadAllFromURL(ctx, u.url, u.maxBytes)
	if err != nil {
		return nil, err
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrInvalidImage, u.url, mimeType)
	}
	return domain.NewCapture(data, mimeType, u.Name()), nil
}

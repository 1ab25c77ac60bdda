package domain

import (
	"strings"

	"kgeyst.com/vista/pkg/common"
)

// URLCameraFactory makes a Camera which "captures" the image found at the URL.
type URLCameraFactory func(url string) Camera

// ImageSourceSelector decides where the picture comes from. Normally it's the attached camera, but if the user
// mentions an image URL ("click what is this https://example.com/pill.jpg"), the image is downloaded instead.
type ImageSourceSelector struct {
	urlFinder     URLFinder
	newURLCamera  URLCameraFactory
	defaultCamera Camera
}

// NewImageSourceSelector `urlFinder` and `newURLCamera` can be nil, in which case URLs are ignored.
// `defaultCamera` can be nil if the front-end only works with URLs.
func NewImageSourceSelector(urlFinder URLFinder, newURLCamera URLCameraFactory, defaultCamera Camera) *ImageSourceSelector {
	return &ImageSourceSelector{
		urlFinder:     urlFinder,
		newURLCamera:  newURLCamera,
		defaultCamera: defaultCamera,
	}
}

// Select returns the camera to use and the request with the image URL removed.
func (s *ImageSourceSelector) Select(request string) (Camera, string, error) {
	if s.urlFinder != nil && s.newURLCamera != nil {
		for _, url := range s.urlFinder.FindURLs(request) {
			if !common.IsImageFormat(url) {
				continue
			}
			return s.newURLCamera(url), removeURL(request, url), nil
		}
	}
	if s.defaultCamera == nil {
		return nil, request, ErrNoImageSource
	}
	return s.defaultCamera, request, nil
}

func removeURL(what, url string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(what, url, "")), " ")
}

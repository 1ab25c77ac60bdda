package domain

import "errors"

var (
	// ErrInvalidImage the image is missing, empty or cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")
	// ErrInvalidParameter an optimization parameter is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyResponse the vision model answered without any text.
	ErrEmptyResponse = errors.New("vision model returned an empty response")
	// ErrNoImageSource there's neither a camera nor an image URL in the request.
	ErrNoImageSource = errors.New("no image source")
	// ErrNoListener Run was called on a service built without a listener (e.g. the IRC front-end).
	ErrNoListener = errors.New("no listener configured")
)

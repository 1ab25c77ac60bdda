package domain

import "context"

// Camera produces still images on demand.
type Camera interface {
	// Name identifies the camera in logs and in the journal.
	Name() string
	Capture(ctx context.Context) (*Capture, error)
}

// VisionModel describes images. Implementations wrap a remote or local vision-language model.
type VisionModel interface {
	// Name the name of the model. Useful for debugging.
	Name() string
	// Describe answers `prompt` about the encoded image (`mimeType` is usually "image/jpeg").
	Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// Listener yields what the user said, one utterance per call. An empty string means nothing intelligible was
// heard; io.EOF means the input is gone for good.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker reads text out to the user.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// CaptureStore persists captures and returns where each one ended up.
type CaptureStore interface {
	Save(ctx context.Context, capture *Capture) (string, error)
}

// Journal keeps a history of analyses.
type Journal interface {
	Record(ctx context.Context, analysis *Analysis) error
	// Recent returns up to `limit` latest analyses, newest first.
	Recent(ctx context.Context, limit int) ([]*Analysis, error)
}

// URLFinder finds URLs in free text.
type URLFinder interface {
	FindURLs(str string) []string
}

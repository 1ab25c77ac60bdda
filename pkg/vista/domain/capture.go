package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capture a still image taken for one request.
type Capture struct {
	ID       string
	TakenAt  time.Time
	Data     []byte
	MIMEType string
	// Source is the name of the camera (or URL source) which produced the image.
	Source string
	// Path is where the capture was saved, if it was.
	Path string
}

// Analysis the outcome of describing one capture.
type Analysis struct {
	CaptureID      string
	CreatedAt      time.Time
	Request        string
	Category       Category
	Prompt         string
	Model          string
	OriginalBytes  int
	OptimizedBytes int
	Description    string
	Elapsed        time.Duration
}

// ReductionPercent see domain.ReductionPercent
func (a *Analysis) ReductionPercent() float64 {
	return ReductionPercent(a.OriginalBytes, a.OptimizedBytes)
}

// NewCapture wraps freshly captured image data under a new ID.
func NewCapture(data []byte, mimeType, source string) *Capture {
	return &Capture{
		ID:       uuid.NewString(),
		TakenAt:  time.Now(),
		Data:     data,
		MIMEType: mimeType,
		Source:   source,
	}
}

package domain

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"

	_ "image/gif" // Register GIF decoder
	_ "image/png" // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	MinQuality = 1
	MaxQuality = 100
)

// OptimizationParams controls how captures are shrunk before they're sent to a vision model.
type OptimizationParams struct {
	// MaxDimension is the largest allowed width or height, in pixels.
	MaxDimension int
	// Quality is the JPEG quality, 1..100.
	Quality int
}

func (p OptimizationParams) Validate() error {
	if p.MaxDimension <= 0 {
		return fmt.Errorf("%w: max dimension must be positive, got %d", ErrInvalidParameter, p.MaxDimension)
	}
	if p.Quality < MinQuality || p.Quality > MaxQuality {
		return fmt.Errorf("%w: quality must be in [%d, %d], got %d", ErrInvalidParameter, MinQuality, MaxQuality, p.Quality)
	}
	return nil
}

// lanczos3 scales through x/image/draw's kernel scaler, which stretches the kernel by the downscale ratio, so every
// destination pixel averages the whole source area it covers.
var lanczos3 = &draw.Kernel{Support: 3, At: lanczos3At}

func lanczos3At(t float64) float64 {
	t = math.Abs(t)
	if t == 0 {
		return 1
	}
	if t >= 3 {
		return 0
	}
	x := math.Pi * t
	return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
}

// TargetDimensions returns the size an image of `width`x`height` gets after fitting it into a
// `maxDimension`x`maxDimension` box. The larger side becomes exactly `maxDimension`, the smaller one is rounded
// (never below 1). Images which already fit are left as is.
func TargetDimensions(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}
	if width >= height {
		scale := float64(maxDimension) / float64(width)
		return maxDimension, max(1, int(math.Round(float64(height)*scale)))
	}
	scale := float64(maxDimension) / float64(height)
	return max(1, int(math.Round(float64(width)*scale))), maxDimension
}

// Optimize fits the image into params.MaxDimension preserving the aspect ratio, composites any transparency onto
// white and encodes the result as a JPEG. The input image is never modified.
func Optimize(img image.Image, params OptimizationParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidImage, bounds)
	}
	width, height := TargetDimensions(bounds.Dx(), bounds.Dy(), params.MaxDimension)
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	op := draw.Src
	if ColorModeOf(img).NeedsFlattening() {
		op = draw.Over
	}
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, op)
	} else {
		lanczos3.Scale(canvas, canvas.Bounds(), img, bounds, op, nil)
	}
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: params.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// OptimizeBytes decodes an encoded image (JPEG, PNG, GIF or WebP) and optimizes it.
func OptimizeBytes(data []byte, params OptimizationParams) ([]byte, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return Optimize(img, params)
}

// DecodeImage decodes JPEG, PNG, GIF or WebP data.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// ReductionPercent how much smaller the optimized buffer is compared to the original, in percent.
func ReductionPercent(originalSize, optimizedSize int) float64 {
	if originalSize <= 0 {
		return 0
	}
	return float64(originalSize-optimizedSize) / float64(originalSize) * 100
}

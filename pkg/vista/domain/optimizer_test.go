package domain

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultParams = OptimizationParams{MaxDimension: 1024, Quality: 85}

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createNoisyImage(width, height int) *image.RGBA {
	random := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(random.Intn(256)), G: uint8(random.Intn(256)), B: uint8(random.Intn(256)), A: 255})
		}
	}
	return img
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func assertNearWhite(t *testing.T, c color.Color) {
	t.Helper()
	r, g, b, _ := c.RGBA()
	assert.GreaterOrEqual(t, r>>8, uint32(245))
	assert.GreaterOrEqual(t, g>>8, uint32(245))
	assert.GreaterOrEqual(t, b>>8, uint32(245))
}

func TestOptimizeDownscalesLandscape(t *testing.T) {
	data, err := Optimize(createTestImage(2000, 1500, color.RGBA{R: 10, G: 120, B: 200, A: 255}), defaultParams)
	require.NoError(t, err)

	img := decodeJPEG(t, data)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 768, img.Bounds().Dy())
}

func TestOptimizeDownscalesPortraitAndSquare(t *testing.T) {
	data, err := Optimize(createTestImage(1500, 3000, color.Black), defaultParams)
	require.NoError(t, err)
	img := decodeJPEG(t, data)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())

	data, err = Optimize(createTestImage(3000, 3000, color.Black), defaultParams)
	require.NoError(t, err)
	img = decodeJPEG(t, data)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestOptimizeFlattensTransparencyOntoWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 512, 300))
	for y := 0; y < 300; y++ {
		for x := 256; x < 512; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}

	data, err := Optimize(img, defaultParams)
	require.NoError(t, err)

	result := decodeJPEG(t, data)
	assert.Equal(t, 512, result.Bounds().Dx())
	assert.Equal(t, 300, result.Bounds().Dy())
	assertNearWhite(t, result.At(64, 150))
	r, g, _, _ := result.At(448, 150).RGBA()
	assert.Greater(t, r>>8, uint32(150))
	assert.Less(t, g>>8, uint32(60))
}

func TestOptimizeFlattensTransparencyWhenScaling(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2048, 2048)) // fully transparent

	data, err := Optimize(img, defaultParams)
	require.NoError(t, err)

	result := decodeJPEG(t, data)
	assert.Equal(t, 1024, result.Bounds().Dx())
	assertNearWhite(t, result.At(512, 512))
}

func TestOptimizeFlattensTransparentPaletteEntries(t *testing.T) {
	palette := color.Palette{color.Transparent, color.RGBA{B: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 200, 100), palette) // index 0 everywhere

	data, err := Optimize(img, defaultParams)
	require.NoError(t, err)

	assert.Equal(t, ColorModePaletted, ColorModeOf(img))
	assertNearWhite(t, decodeJPEG(t, data).At(100, 50))
}

func TestOptimizeKeepsSmallImagesSize(t *testing.T) {
	data, err := Optimize(image.NewGray(image.Rect(0, 0, 640, 480)), defaultParams)
	require.NoError(t, err)

	img := decodeJPEG(t, data)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestOptimizeDoesNotModifyInput(t *testing.T) {
	img := createNoisyImage(1200, 900)
	img.Set(0, 0, color.RGBA{A: 0})
	original := make([]byte, len(img.Pix))
	copy(original, img.Pix)

	_, err := Optimize(img, defaultParams)
	require.NoError(t, err)

	assert.Equal(t, original, img.Pix)
	assert.Equal(t, image.Rect(0, 0, 1200, 900), img.Bounds())
}

func TestOptimizeQualityExtremesAreDecodable(t *testing.T) {
	img := createNoisyImage(300, 200)
	for _, quality := range []int{MinQuality, MaxQuality} {
		data, err := Optimize(img, OptimizationParams{MaxDimension: 1024, Quality: quality})
		require.NoError(t, err)
		decoded := decodeJPEG(t, data)
		assert.Equal(t, 300, decoded.Bounds().Dx())
	}
}

func TestOptimizeLowerQualityGivesSmallerOutput(t *testing.T) {
	img := createNoisyImage(400, 300)

	low, err := Optimize(img, OptimizationParams{MaxDimension: 1024, Quality: 20})
	require.NoError(t, err)
	high, err := Optimize(img, OptimizationParams{MaxDimension: 1024, Quality: 95})
	require.NoError(t, err)

	assert.Less(t, len(low), len(high))
}

func TestOptimizeHandlesNonZeroOrigin(t *testing.T) {
	img := createTestImage(3000, 2000, color.White).SubImage(image.Rect(1000, 500, 3000, 2000))

	data, err := Optimize(img, defaultParams)
	require.NoError(t, err)

	result := decodeJPEG(t, data)
	assert.Equal(t, 1024, result.Bounds().Dx())
	assert.Equal(t, 768, result.Bounds().Dy())
}

func TestOptimizeRejectsInvalidInput(t *testing.T) {
	img := createTestImage(10, 10, color.White)

	_, err := Optimize(img, OptimizationParams{MaxDimension: 0, Quality: 85})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Optimize(img, OptimizationParams{MaxDimension: 1024, Quality: 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Optimize(img, OptimizationParams{MaxDimension: 1024, Quality: 101})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Optimize(nil, defaultParams)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = Optimize(image.NewRGBA(image.Rectangle{}), defaultParams)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestTargetDimensions(t *testing.T) {
	tests := []struct {
		width, height, maxDimension int
		expectedWidth               int
		expectedHeight              int
	}{
		{2000, 1500, 1024, 1024, 768},
		{1500, 2000, 1024, 768, 1024},
		{1024, 1024, 1024, 1024, 1024},
		{4096, 4096, 1024, 1024, 1024},
		{512, 300, 1024, 512, 300},
		{1920, 1080, 1024, 1024, 576},
		{2000, 100, 1024, 1024, 51},
		{10000, 1, 1024, 1024, 1},
	}
	for _, test := range tests {
		width, height := TargetDimensions(test.width, test.height, test.maxDimension)
		assert.Equal(t, test.expectedWidth, width, "%dx%d", test.width, test.height)
		assert.Equal(t, test.expectedHeight, height, "%dx%d", test.width, test.height)
	}
}

func TestTargetDimensionsPreservesAspectRatio(t *testing.T) {
	sizes := [][2]int{{4000, 3000}, {3000, 4000}, {1025, 1}, {1920, 1080}, {5000, 17}, {333, 2049}, {7777, 5555}}
	for _, maxDimension := range []int{64, 512, 1024} {
		for _, size := range sizes {
			width, height := TargetDimensions(size[0], size[1], maxDimension)
			assert.LessOrEqual(t, max(width, height), maxDimension)
			assert.Equal(t, maxDimension, max(width, height))

			ratio := float64(size[0]) / float64(size[1])
			newRatio := float64(width) / float64(height)
			assert.LessOrEqual(t, math.Abs(newRatio-ratio)/ratio, 1/float64(min(width, height)), "%v -> %dx%d", size, width, height)
		}
	}
}

func TestOptimizeBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, createTestImage(1600, 1200, color.RGBA{G: 255, A: 255})))

	data, err := OptimizeBytes(buf.Bytes(), defaultParams)
	require.NoError(t, err)

	img := decodeJPEG(t, data)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 768, img.Bounds().Dy())

	_, err = OptimizeBytes([]byte("definitely not an image"), defaultParams)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = OptimizeBytes(nil, defaultParams)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestReductionPercent(t *testing.T) {
	assert.InDelta(t, 75.0, ReductionPercent(1000, 250), 1e-9)
	assert.InDelta(t, -50.0, ReductionPercent(100, 150), 1e-9)
	assert.Zero(t, ReductionPercent(0, 10))
}

func TestColorModeOf(t *testing.T) {
	rect := image.Rect(0, 0, 1, 1)
	assert.Equal(t, ColorModeTruecolor, ColorModeOf(image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)))
	assert.Equal(t, ColorModeTruecolorAlpha, ColorModeOf(image.NewRGBA(rect)))
	assert.Equal(t, ColorModeTruecolorAlpha, ColorModeOf(image.NewNRGBA(rect)))
	assert.Equal(t, ColorModeGrayscale, ColorModeOf(image.NewGray(rect)))
	assert.Equal(t, ColorModeGrayscaleAlpha, ColorModeOf(image.NewAlpha(rect)))
	assert.Equal(t, ColorModeTruecolor, ColorModeOf(image.NewUniform(color.Black)))
	assert.True(t, ColorModePaletted.NeedsFlattening())
	assert.False(t, ColorModeTruecolor.NeedsFlattening())
}

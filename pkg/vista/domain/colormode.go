package domain

import "image"

// ColorMode tells which channels a decoded image carries.
type ColorMode int

const (
	ColorModeTruecolor = ColorMode(iota)
	ColorModeTruecolorAlpha
	ColorModeGrayscale
	ColorModeGrayscaleAlpha
	ColorModePaletted
)

func (c ColorMode) String() string {
	switch c {
	case ColorModeTruecolor:
		return "truecolor"
	case ColorModeTruecolorAlpha:
		return "truecolor-alpha"
	case ColorModeGrayscale:
		return "grayscale"
	case ColorModeGrayscaleAlpha:
		return "grayscale-alpha"
	case ColorModePaletted:
		return "paletted"
	default:
		return "unknown"
	}
}

// NeedsFlattening is true for modes which may carry transparency and must be composited onto an opaque background
// before a JPEG encoder sees them. Palette entries have alpha too.
func (c ColorMode) NeedsFlattening() bool {
	return c == ColorModeTruecolorAlpha || c == ColorModeGrayscaleAlpha || c == ColorModePaletted
}

// ColorModeOf derives the mode from the concrete image type the decoder produced. The tag describes channels, not
// content: an RGBA image whose pixels all happen to be opaque is still truecolor-alpha.
func ColorModeOf(img image.Image) ColorMode {
	switch img := img.(type) {
	case *image.Paletted:
		return ColorModePaletted
	case *image.Gray, *image.Gray16:
		return ColorModeGrayscale
	case *image.Alpha, *image.Alpha16:
		return ColorModeGrayscaleAlpha
	case *image.YCbCr, *image.CMYK:
		return ColorModeTruecolor
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.NYCbCrA:
		return ColorModeTruecolorAlpha
	default:
		if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
			return ColorModeTruecolor
		}
		return ColorModeTruecolorAlpha
	}
}

// Package enhance applies the optional per-segment zoom and sharpen steps.
package enhance

import (
	"image"
	"math"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/types"
)

// DefaultZoom is applied when no zoom, or an invalid one, is requested
const DefaultZoom = 1.0

// InvalidZoomWarning is logged when a requested zoom is corrected
const InvalidZoomWarning = "Invalid zoom value, must be greater than 0. Using default value of 1."

// Sanitize returns the enhancement to apply for e along with any warnings.
// A zero zoom counts as unset. Negative, NaN and infinite zooms are replaced
// by DefaultZoom with a warning. e is never modified.
func Sanitize(e *types.Enhance) (types.Enhancement, []string) {
	if e == nil {
		return types.Enhancement{Zoom: DefaultZoom}, nil
	}

	out := types.Enhancement{Sharpen: e.Sharpen, Zoom: e.Zoom}
	switch {
	case e.Zoom == 0:
		out.Zoom = DefaultZoom
	case e.Zoom < 0 || math.IsNaN(e.Zoom) || math.IsInf(e.Zoom, 0):
		out.Zoom = DefaultZoom
		return out, []string{InvalidZoomWarning}
	}
	return out, nil
}

// Apply resizes img by e.Zoom and then sharpens it if requested.
// Sharpening always runs on the resized image.
func Apply(c codec.Codec, img image.Image, e types.Enhancement) image.Image {
	if e.Zoom != DefaultZoom {
		b := img.Bounds()
		dims := SegmentDimensions(b.Dx(), b.Dy(), e.Zoom)
		img = c.Resize(img, dims.Width, dims.Height)
	}
	if e.Sharpen {
		img = c.Sharpen(img)
	}
	return img
}

// SegmentDimensions is the size of a width×height cell after zoom.
// Each side is round(side*zoom), but never less than one pixel: an encoder
// cannot produce a zero-width segment.
func SegmentDimensions(width, height int, zoom float64) types.Dimensions {
	if zoom == DefaultZoom {
		return types.Dimensions{Width: width, Height: height}
	}
	return types.Dimensions{Width: scale(width, zoom), Height: scale(height, zoom)}
}

func scale(v int, zoom float64) int {
	s := int(math.Round(float64(v) * zoom))
	if s < 1 {
		return 1
	}
	return s
}

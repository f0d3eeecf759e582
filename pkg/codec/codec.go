// Package codec is the image codec used by the slicer: decode, crop, resize,
// sharpen and re-encode. Only JPEG and PNG are accepted; other formats that
// the registered decoders recognise are rejected as unsupported.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // recognised so it can be rejected by name
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-slicer/pkg/types"
)

// ErrEmptyImage is returned when there are no bytes to decode
var ErrEmptyImage = errors.New("input buffer is empty")

// DefaultMaxPixels caps width*height of a decoded image (100 megapixels)
const DefaultMaxPixels = 100_000_000

// Inspector reports image metadata without a full decode
type Inspector interface {
	Inspect(data []byte) (types.ImageInfo, error)
}

// Codec is the set of image primitives the slicing pipeline depends on
type Codec interface {
	Inspector
	Decode(data []byte) (image.Image, types.ImageInfo, error)
	Crop(img image.Image, rect image.Rectangle) image.Image
	Resize(img image.Image, width, height int) image.Image
	Sharpen(img image.Image) image.Image
	Encode(img image.Image, format string) ([]byte, error)
}

// Config holds configuration for the imaging codec
type Config struct {
	JPEGQuality      int
	SharpenSigma     float64
	SupportedFormats []string
	// MaxPixels is checked against the header before pixels are allocated
	MaxPixels int64
}

// DefaultConfig returns the default codec configuration
func DefaultConfig() Config {
	return Config{
		JPEGQuality:      85,
		SharpenSigma:     1.0,
		SupportedFormats: []string{"jpeg", "png"},
		MaxPixels:        DefaultMaxPixels,
	}
}

// ImagingCodec implements Codec with github.com/disintegration/imaging
type ImagingCodec struct {
	config Config
}

// New creates a codec with default configuration
func New() *ImagingCodec {
	return &ImagingCodec{config: DefaultConfig()}
}

// NewWithConfig creates a codec with custom configuration.
// Zero fields fall back to the defaults.
func NewWithConfig(config Config) *ImagingCodec {
	def := DefaultConfig()
	if config.JPEGQuality <= 0 {
		config.JPEGQuality = def.JPEGQuality
	}
	if config.SharpenSigma <= 0 {
		config.SharpenSigma = def.SharpenSigma
	}
	if len(config.SupportedFormats) == 0 {
		config.SupportedFormats = def.SupportedFormats
	}
	if config.MaxPixels <= 0 {
		config.MaxPixels = def.MaxPixels
	}
	return &ImagingCodec{config: config}
}

// Inspect reads the image header and returns its metadata
func (c *ImagingCodec) Inspect(data []byte) (types.ImageInfo, error) {
	if len(data) == 0 {
		return types.ImageInfo{}, ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return types.ImageInfo{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if !c.isFormatSupported(format) {
		return types.ImageInfo{}, types.UnsupportedType(fmt.Sprintf("Unsupported image format: %s", format))
	}

	return newImageInfo(format, cfg.Width, cfg.Height, hasAlpha(cfg.ColorModel), len(data)), nil
}

// Decode fully decodes data and returns the image with its metadata.
// Images whose header declares more than MaxPixels are rejected undecoded.
func (c *ImagingCodec) Decode(data []byte) (image.Image, types.ImageInfo, error) {
	info, err := c.Inspect(data)
	if err != nil {
		return nil, types.ImageInfo{}, err
	}
	if int64(info.Width)*int64(info.Height) > c.config.MaxPixels {
		return nil, types.ImageInfo{}, types.InvalidArgument("Image dimensions exceed limit")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, types.ImageInfo{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	info = newImageInfo(info.Format, bounds.Dx(), bounds.Dy(), info.HasAlpha, len(data))
	return img, info, nil
}

// Crop extracts rect from img. The source image is not modified.
func (c *ImagingCodec) Crop(img image.Image, rect image.Rectangle) image.Image {
	bounds := img.Bounds()
	return imaging.Crop(img, rect.Add(bounds.Min))
}

// Resize scales img to exactly width x height
func (c *ImagingCodec) Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Sharpen applies an unsharp mask with the configured sigma
func (c *ImagingCodec) Sharpen(img image.Image) image.Image {
	return imaging.Sharpen(img, c.config.SharpenSigma)
}

// Encode serialises img in the given format ("jpeg" or "png")
func (c *ImagingCodec) Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case "jpeg", "jpg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.config.JPEGQuality)); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		return nil, types.UnsupportedType(fmt.Sprintf("Unsupported image format: %s", format))
	}
	return buf.Bytes(), nil
}

func (c *ImagingCodec) isFormatSupported(format string) bool {
	for _, supported := range c.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

func newImageInfo(format string, width, height int, alpha bool, size int) types.ImageInfo {
	info := types.ImageInfo{
		Format:   format,
		Width:    width,
		Height:   height,
		HasAlpha: alpha,
		Size:     size,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// hasAlpha reports whether a decoder's color model carries transparency.
// The PNG decoder reports opaque truecolor as RGBA and alpha truecolor as NRGBA.
func hasAlpha(model color.Model) bool {
	switch model {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	if palette, ok := model.(color.Palette); ok {
		for _, c := range palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

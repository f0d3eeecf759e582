package types

import (
	"image"

	"github.com/menta2k/image-slicer/pkg/logging"
)

// DefaultGridSize is used when Options.GridSize is nil
const DefaultGridSize = 3

// Options controls a single slice call. All fields are optional.
type Options struct {
	// GridSize is the number of rows and columns. nil means DefaultGridSize;
	// an explicit value is validated and never replaced by the default.
	GridSize *int
	Enhance  *Enhance
	LogLevel logging.Level
}

// Enhance holds the requested segment enhancements
type Enhance struct {
	Sharpen bool
	// Zoom is a proportional resize factor. 0 means unset.
	Zoom float64
}

// Enhancement is the sanitized enhancement actually applied to segments
type Enhancement struct {
	Sharpen bool    `json:"sharpen"`
	Zoom    float64 `json:"zoom"`
}

// Dimensions is a width/height pair in pixels
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageInfo is what the codec reports about the decoded source image
type ImageInfo struct {
	Format      string  `json:"format"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspectRatio"`
	HasAlpha    bool    `json:"hasAlpha"`
	Size        int     `json:"size"`
}

// Metadata extends ImageInfo with the grid and enhancement actually used
type Metadata struct {
	ImageInfo
	GridSize          int         `json:"gridSize"`
	Enhancement       Enhancement `json:"enhancement"`
	SegmentDimensions Dimensions  `json:"segmentDimensions"`
}

// GridCell is one crop rectangle of the grid
type GridCell struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the cell as an image.Rectangle
func (c GridCell) Rect() image.Rectangle {
	return image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)
}

// Result is the outcome of a slice call
type Result struct {
	// Original holds the unmodified source bytes.
	Original []byte
	Metadata Metadata
	// Segments are ordered row-major: index = row*GridSize + col.
	Segments [][]byte
}

// IntPtr is a convenience for filling Options.GridSize
func IntPtr(v int) *int {
	return &v
}

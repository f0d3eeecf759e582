// Package input classifies caller-supplied sources and resolves them to raw
// image bytes.
package input

import (
	"bytes"
	"io"
	"strings"

	"github.com/menta2k/image-slicer/pkg/types"
)

// Source names the acquisition channel of an ImageInput
type Source string

const (
	SourceURL    Source = "url"
	SourceFile   Source = "file"
	SourceStream Source = "stream"
)

// ImageInput is one of URL, LocalPath or Stream
type ImageInput interface {
	Source() Source
	isImageInput()
}

// URL is a remote image fetched over HTTP(S)
type URL string

// LocalPath is an image on the local filesystem
type LocalPath string

// Stream is an image read from an arbitrary reader
type Stream struct {
	Reader io.Reader
}

func (URL) Source() Source       { return SourceURL }
func (LocalPath) Source() Source { return SourceFile }
func (Stream) Source() Source    { return SourceStream }

func (URL) isImageInput()       {}
func (LocalPath) isImageInput() {}
func (Stream) isImageInput()    {}

// Classify turns a loosely typed input into an ImageInput. Readers and byte
// slices are streams, strings starting with "http" are URLs and any other
// string is a local path.
func Classify(v any) (ImageInput, error) {
	switch in := v.(type) {
	case nil:
		return nil, types.InvalidArgument("Input is required")
	case ImageInput:
		return in, nil
	case io.Reader:
		return Stream{Reader: in}, nil
	case []byte:
		return Stream{Reader: bytes.NewReader(in)}, nil
	case string:
		if in == "" {
			return nil, types.InvalidArgument("Input is required")
		}
		if strings.HasPrefix(in, "http") {
			return URL(in), nil
		}
		return LocalPath(in), nil
	default:
		return nil, types.InvalidArgument("Invalid stream type")
	}
}

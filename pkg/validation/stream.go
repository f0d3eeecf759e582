package validation

import (
	"context"
	"io"
	"reflect"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/types"
)

// ValidateStream drains r and checks that the bytes are a supported image.
// Read errors are returned unchanged; any inspection failure becomes
// InvalidImageData.
func ValidateStream(ctx context.Context, r io.Reader, inspector codec.Inspector) ([]byte, error) {
	if isNil(r) {
		return nil, types.InvalidArgument("Stream is required")
	}

	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: r})
	if err != nil {
		return nil, err
	}

	if _, err := inspector.Inspect(data); err != nil {
		return nil, types.InvalidImageData(err)
	}
	return data, nil
}

// isNil also catches a nil pointer held in a non-nil io.Reader
func isNil(r io.Reader) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// ctxReader stops a drain between reads once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/types"
)

func TestValidateGridSize(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int
		wantErr string
	}{
		{"zero", 0, 0, "Grid size must be at least 2"},
		{"eleven", 11, 0, "Grid size must not exceed 10"},
		{"negative", -1, 0, "Grid size must be at least 2"},
		{"fraction", 2.5, 0, "Grid size must be an integer"},
		{"small fraction", 3.1, 0, "Grid size must be an integer"},
		{"string", "3", 0, "Grid size must be a number"},
		{"nil", nil, 0, "Grid size must be a number"},
		{"nan", math.NaN(), 0, "Grid size must be a number"},
		{"inf", math.Inf(1), 0, "Grid size must be an integer"},
		{"nil pointer", (*int)(nil), 0, "Grid size must be a number"},
		{"min", 2, 2, ""},
		{"max", 10, 10, ""},
		{"float integral", 4.0, 4, ""},
		{"int64", int64(7), 7, ""},
		{"json number", json.Number("5"), 5, ""},
		{"pointer", types.IntPtr(6), 6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateGridSize(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got %d", tt.wantErr, got)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("got %q, want %q", err.Error(), tt.wantErr)
				}
				if !errors.Is(err, types.ErrInvalidArgument) {
					t.Errorf("expected InvalidArgument kind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateGridSizeRange(t *testing.T) {
	for n := MinGridSize; n <= MaxGridSize; n++ {
		if _, err := ValidateGridSize(n); err != nil {
			t.Errorf("grid size %d rejected: %v", n, err)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"", "Image URL is required"},
		{"not-a-url", "Invalid URL format"},
		{"not a url", "Invalid URL format"},
		{"http://", "Invalid URL format"},
		{"://missing-scheme.com", "Invalid URL format"},
		{"http://example.com/a.gif", ""},
		{"https://example.com/image.jpg?width=100", ""},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateURL(%q) unexpected error: %v", tt.input, err)
			}
			continue
		}
		if err == nil || err.Error() != tt.wantErr {
			t.Errorf("ValidateURL(%q) = %v, want %q", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateStrictURL(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 300) + ".jpg"

	tests := []struct {
		input   string
		kind    error
		wantErr string
	}{
		{"http://example.com/a.jpg", types.ErrInvalidArgument, "Invalid URL scheme"},
		{"https://example.com/a.gif", types.ErrUnsupportedType, "Invalid file type"},
		{"https://example.com/a", types.ErrUnsupportedType, "Invalid file type"},
		{long, types.ErrInvalidArgument, "Generated path exceeds 255 characters"},
		{"", types.ErrInvalidArgument, "Image URL is required"},
		{"https://example.com/a.JPG", nil, ""},
		{"https://example.com/dir/a.png?x=1", nil, ""},
	}

	for _, tt := range tests {
		err := ValidateStrictURL(tt.input)
		if tt.kind == nil {
			if err != nil {
				t.Errorf("ValidateStrictURL(%q) unexpected error: %v", tt.input, err)
			}
			continue
		}
		if !errors.Is(err, tt.kind) || err.Error() != tt.wantErr {
			t.Errorf("ValidateStrictURL(%q) = %v, want %q", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateLocalFile(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "photo.PNG")
	txt := filepath.Join(dir, "notes.txt")
	for _, p := range []string{pngPath, txt} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := ValidateLocalFile(pngPath); err != nil {
		t.Errorf("expected png to validate, got %v", err)
	}

	err := ValidateLocalFile(filepath.Join(dir, "missing.jpg"))
	if !errors.Is(err, types.ErrNotFound) || err.Error() != "File not found" {
		t.Errorf("missing file: got %v", err)
	}

	err = ValidateLocalFile(dir)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("directory: got %v, want ErrNotFound", err)
	}

	err = ValidateLocalFile(txt)
	if !errors.Is(err, types.ErrUnsupportedType) || err.Error() != "Invalid file type" {
		t.Errorf("txt file: got %v", err)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestValidateStream(t *testing.T) {
	ctx := context.Background()
	c := codec.New()
	data := testPNG(t)

	got, err := ValidateStream(ctx, bytes.NewReader(data), c)
	if err != nil {
		t.Fatalf("valid stream rejected: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("drained bytes differ from source")
	}

	for name, r := range map[string]io.Reader{
		"nil reader":          nil,
		"nil *bytes.Reader":   (*bytes.Reader)(nil),
		"nil *strings.Reader": (*strings.Reader)(nil),
	} {
		_, err = ValidateStream(ctx, r, c)
		if !errors.Is(err, types.ErrInvalidArgument) || err.Error() != "Stream is required" {
			t.Errorf("%s: got %v", name, err)
		}
	}

	_, err = ValidateStream(ctx, strings.NewReader("definitely not an image"), c)
	if !errors.Is(err, types.ErrInvalidImageData) || err.Error() != "Invalid image data" {
		t.Errorf("garbage: got %v", err)
	}

	_, err = ValidateStream(ctx, bytes.NewReader(nil), c)
	if !errors.Is(err, types.ErrInvalidImageData) || !errors.Is(err, codec.ErrEmptyImage) {
		t.Errorf("empty stream: got %v", err)
	}

	readErr := errors.New("connection reset")
	_, err = ValidateStream(ctx, errReader{readErr}, c)
	if err != readErr {
		t.Errorf("read error should pass through unchanged, got %v", err)
	}
}

func TestValidateStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateStream(ctx, bytes.NewReader(testPNG(t)), codec.New())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

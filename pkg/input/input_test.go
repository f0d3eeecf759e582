package input

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/types"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 30))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type recordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) Emit(level logging.Level, msg string, fields ...logging.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, level.String()+" "+msg)
}

func TestClassify(t *testing.T) {
	reader := strings.NewReader("x")

	tests := []struct {
		name   string
		input  any
		source Source
	}{
		{"http url", "http://example.com/a.png", SourceURL},
		{"https url", "https://example.com/a.png", SourceURL},
		{"http prefix only", "httpfoo.png", SourceURL},
		{"relative path", "images/a.png", SourceFile},
		{"absolute path", "/tmp/a.jpg", SourceFile},
		{"reader", reader, SourceStream},
		{"bytes", []byte{1, 2, 3}, SourceStream},
		{"typed url", URL("https://example.com"), SourceURL},
		{"typed path", LocalPath("a.png"), SourceFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Classify(tt.input)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if in.Source() != tt.source {
				t.Errorf("got %s, want %s", in.Source(), tt.source)
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	tests := []struct {
		input any
		msg   string
	}{
		{nil, "Input is required"},
		{"", "Input is required"},
		{42, "Invalid stream type"},
		{struct{}{}, "Invalid stream type"},
	}

	for _, tt := range tests {
		_, err := Classify(tt.input)
		if !errors.Is(err, types.ErrInvalidArgument) || err.Error() != tt.msg {
			t.Errorf("Classify(%v) = %v, want %q", tt.input, err, tt.msg)
		}
	}
}

func TestResolveURL(t *testing.T) {
	data := testPNG(t)
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	r := NewResolver(DefaultResolverConfig(), srv.Client(), codec.New())
	got, err := r.Resolve(context.Background(), URL(srv.URL+"/a.png"), logging.NewGate(sink, logging.Verbose))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("fetched bytes differ")
	}
	if gotUA != "image-slicer/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(sink.messages) == 0 || sink.messages[0] != "INFO Processing image from URL" {
		t.Errorf("unexpected log %v", sink.messages)
	}
	if last := sink.messages[len(sink.messages)-1]; last != "VERBOSE Source acquired" {
		t.Errorf("last log = %q", last)
	}
}

func TestResolveURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/big.png" {
			w.Write(bytes.Repeat([]byte{0}, 100))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := DefaultResolverConfig()
	cfg.MaxBytes = 10
	r := NewResolver(cfg, srv.Client(), codec.New())
	ctx := context.Background()

	_, err := r.Resolve(ctx, URL(srv.URL+"/missing.png"), nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("missing: got %v, want StatusError 404", err)
	}

	if _, err := r.Resolve(ctx, URL(srv.URL+"/big.png"), nil); err == nil {
		t.Error("expected byte cap error")
	}

	_, err = r.Resolve(ctx, URL("http//broken"), nil)
	if err == nil || err.Error() != "Invalid URL format" {
		t.Errorf("malformed: got %v", err)
	}
}

func TestResolveStrictURL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	cfg := DefaultResolverConfig()
	cfg.Strict = true
	r := NewResolver(cfg, srv.Client(), codec.New())

	_, err := r.Resolve(context.Background(), URL(srv.URL+"/a.png"), nil)
	if err == nil || err.Error() != "Invalid URL scheme" {
		t.Errorf("got %v, want Invalid URL scheme", err)
	}
	if hits != 0 {
		t.Errorf("server hit %d times after failed validation", hits)
	}
}

func TestResolveLocalPath(t *testing.T) {
	dir := t.TempDir()
	data := testPNG(t)
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(DefaultResolverConfig(), nil, codec.New())
	ctx := context.Background()

	got, err := r.Resolve(ctx, LocalPath(path), nil)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("Resolve = %d bytes, %v", len(got), err)
	}

	_, err = r.Resolve(ctx, LocalPath(filepath.Join(dir, "nope.png")), nil)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestResolveStream(t *testing.T) {
	r := NewResolver(DefaultResolverConfig(), nil, codec.New())
	ctx := context.Background()
	data := testPNG(t)

	got, err := r.Resolve(ctx, Stream{Reader: bytes.NewReader(data)}, nil)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("Resolve = %d bytes, %v", len(got), err)
	}

	_, err = r.Resolve(ctx, Stream{}, nil)
	if err == nil || err.Error() != "Stream is required" {
		t.Errorf("nil reader: got %v", err)
	}

	_, err = r.Resolve(ctx, Stream{Reader: strings.NewReader("junk")}, nil)
	if !errors.Is(err, types.ErrInvalidImageData) {
		t.Errorf("junk: got %v", err)
	}
}

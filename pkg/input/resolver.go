package input

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/validation"
)

// ResolverConfig tunes remote fetches and URL validation
type ResolverConfig struct {
	Timeout   time.Duration
	UserAgent string
	// MaxBytes caps a remote body; 0 disables the cap.
	MaxBytes int64
	// Strict enables the https/extension/length URL rules.
	Strict bool
}

// DefaultResolverConfig returns the default resolver configuration
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Timeout:   30 * time.Second,
		UserAgent: "image-slicer/1.0",
		MaxBytes:  50 << 20,
	}
}

// StatusError is returned when a remote server answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to download image: HTTP %s", e.Status)
}

// Resolver acquires the raw bytes behind an ImageInput
type Resolver struct {
	config    ResolverConfig
	client    *http.Client
	inspector codec.Inspector
}

// NewResolver creates a resolver. A nil client gets one with config.Timeout.
func NewResolver(config ResolverConfig, client *http.Client, inspector codec.Inspector) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &Resolver{config: config, client: client, inspector: inspector}
}

// Resolve validates in and returns its bytes. Validation failures carry a
// types.Error; transport and filesystem errors are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, in ImageInput, log *logging.Gate) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch src := in.(type) {
	case URL:
		log.Info("Processing image from URL", logging.String("url", string(src)))
		data, err = r.fetch(ctx, string(src), log)
	case LocalPath:
		log.Info("Processing image from local path", logging.String("path", string(src)))
		data, err = r.readFile(string(src))
	case Stream:
		log.Info("Processing image from stream")
		data, err = validation.ValidateStream(ctx, src.Reader, r.inspector)
	default:
		return nil, fmt.Errorf("unknown image input %T", in)
	}
	if err != nil {
		return nil, err
	}

	log.Verbose("Source acquired", logging.String("source", string(in.Source())), logging.Int("bytes", len(data)))
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string, log *logging.Gate) ([]byte, error) {
	validate := validation.ValidateURL
	if r.config.Strict {
		validate = validation.ValidateStrictURL
	}
	if err := validate(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.config.UserAgent != "" {
		req.Header.Set("User-Agent", r.config.UserAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	log.Debug("Image downloaded", logging.String("contentType", resp.Header.Get("Content-Type")))

	body := io.Reader(resp.Body)
	if r.config.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, r.config.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if r.config.MaxBytes > 0 && int64(len(data)) > r.config.MaxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", r.config.MaxBytes)
	}
	return data, nil
}

func (r *Resolver) readFile(path string) ([]byte, error) {
	if err := validation.ValidateLocalFile(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

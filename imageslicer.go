// Package imageslicer cuts an image into an N×N grid of equally sized
// segments, optionally zooming and sharpening each one.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		imageslicer "github.com/menta2k/image-slicer"
//		"github.com/menta2k/image-slicer/pkg/logging"
//		"github.com/menta2k/image-slicer/pkg/types"
//	)
//
//	func main() {
//		result, err := imageslicer.Slice(context.Background(), "https://example.com/photo.jpg", types.Options{
//			GridSize: types.IntPtr(4),
//			Enhance:  &types.Enhance{Sharpen: true, Zoom: 1.5},
//			LogLevel: logging.Info,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("%d segments of %dx%d\n", len(result.Segments),
//			result.Metadata.SegmentDimensions.Width, result.Metadata.SegmentDimensions.Height)
//	}
//
// The input may be a URL (any string starting with "http"), a local file
// path, an io.Reader or a []byte. Only JPEG and PNG sources are accepted and
// every segment is encoded in the source's format.
//
// The package consists of these components:
//
//  1. Input (pkg/input): classifies the input and acquires its bytes
//  2. Validation (pkg/validation): grid size, URL, file and stream checks
//  3. Codec (pkg/codec): decode, crop, resize, sharpen and encode
//  4. Grid (pkg/grid): row-major cell geometry
//  5. Enhance (pkg/enhance): zoom sanitization and per-segment enhancement
//  6. Metadata (pkg/metadata): the metadata returned with every result
//
// Failures are reported as *types.Error values whose messages are stable;
// use errors.Is with the types.Err* kinds to classify them.
package imageslicer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/enhance"
	"github.com/menta2k/image-slicer/pkg/grid"
	"github.com/menta2k/image-slicer/pkg/input"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/metadata"
	"github.com/menta2k/image-slicer/pkg/metrics"
	"github.com/menta2k/image-slicer/pkg/types"
	"github.com/menta2k/image-slicer/pkg/validation"
)

// Version of the image slicer library
const Version = "1.0.0"

// Slicer runs slice calls. It holds no per-call state and is safe for
// concurrent use.
type Slicer struct {
	codec          codec.Codec
	sink           logging.Sink
	metrics        *metrics.Collector
	concurrency    int
	resolverConfig input.ResolverConfig
	httpClient     *http.Client
	resolver       *input.Resolver
}

// Option configures a Slicer
type Option func(*Slicer)

// WithCodec replaces the imaging codec
func WithCodec(c codec.Codec) Option {
	return func(s *Slicer) { s.codec = c }
}

// WithSink sets where log events go. The per-call Options.LogLevel still
// decides which events are emitted.
func WithSink(sink logging.Sink) Option {
	return func(s *Slicer) { s.sink = sink }
}

// WithMetrics records every call on c
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Slicer) { s.metrics = c }
}

// WithConcurrency processes up to n segments at once. n <= 1 is sequential.
func WithConcurrency(n int) Option {
	return func(s *Slicer) { s.concurrency = n }
}

// WithStrictURLs restricts URLs to https with a .jpg, .jpeg or .png path
func WithStrictURLs(strict bool) Option {
	return func(s *Slicer) { s.resolverConfig.Strict = strict }
}

// WithResolverConfig sets fetch timeout, user agent and byte cap
func WithResolverConfig(cfg input.ResolverConfig) Option {
	return func(s *Slicer) { s.resolverConfig = cfg }
}

// WithHTTPClient sets the client used for URL inputs
func WithHTTPClient(client *http.Client) Option {
	return func(s *Slicer) { s.httpClient = client }
}

// New creates a Slicer. Without options it logs to stderr through zerolog,
// records no metrics and processes segments sequentially.
func New(opts ...Option) *Slicer {
	s := &Slicer{
		codec:          codec.New(),
		concurrency:    1,
		resolverConfig: input.DefaultResolverConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = logging.NewZerologSink(os.Stderr)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	s.resolver = input.NewResolver(s.resolverConfig, s.httpClient, s.codec)
	return s
}

var (
	defaultSlicer     *Slicer
	defaultSlicerOnce sync.Once
)

// Slice runs a slice call on a default Slicer
func Slice(ctx context.Context, in any, opts types.Options) (*types.Result, error) {
	defaultSlicerOnce.Do(func() { defaultSlicer = New() })
	return defaultSlicer.Slice(ctx, in, opts)
}

// Slice validates opts, acquires the image behind in and returns the
// original bytes, the metadata and the gridSize² segments in row-major order.
// Validation of the grid size happens before any I/O. On failure no partial
// result is returned.
func (s *Slicer) Slice(ctx context.Context, in any, opts types.Options) (*types.Result, error) {
	start := time.Now()
	log := logging.NewGate(s.sink, opts.LogLevel).With(logging.String("request_id", uuid.NewString()))

	result, source, err := s.slice(ctx, in, opts, log)
	if err != nil {
		log.Error(err.Error())
		s.metrics.ObserveFailure(source)
		return nil, err
	}

	s.metrics.ObserveSuccess(source, time.Since(start), len(result.Original), len(result.Segments))
	log.Info("Slicing complete",
		logging.Int("segments", len(result.Segments)),
		logging.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *Slicer) slice(ctx context.Context, in any, opts types.Options, log *logging.Gate) (*types.Result, string, error) {
	gridSize := types.DefaultGridSize
	if opts.GridSize != nil {
		n, err := validation.ValidateGridSize(*opts.GridSize)
		if err != nil {
			return nil, "", err
		}
		gridSize = n
	}

	enhancement, warnings := enhance.Sanitize(opts.Enhance)
	for _, w := range warnings {
		log.Warn(w)
	}

	src, err := input.Classify(in)
	if err != nil {
		return nil, "", err
	}
	source := string(src.Source())

	data, err := s.resolver.Resolve(ctx, src, log)
	if err != nil {
		return nil, source, err
	}

	log.Debug("Loading image")
	img, info, err := s.codec.Decode(data)
	if err != nil {
		if src.Source() == input.SourceStream && !errors.Is(err, types.ErrInvalidArgument) {
			err = types.InvalidImageData(err)
		}
		return nil, source, err
	}
	log.Verbose("Image metadata",
		logging.String("format", info.Format),
		logging.Int("width", info.Width),
		logging.Int("height", info.Height),
		logging.Bool("hasAlpha", info.HasAlpha))

	log.Debug("Calculating segment dimensions")
	cells, err := grid.Plan(info.Width, info.Height, gridSize)
	if err != nil {
		return nil, source, err
	}

	segments := make([][]byte, len(cells))
	extract := func(i int) error {
		cell := cells[i]
		log.Verbose("Extracting segment",
			logging.Int("row", cell.Row), logging.Int("col", cell.Col),
			logging.Int("left", cell.Left), logging.Int("top", cell.Top),
			logging.Int("width", cell.Width), logging.Int("height", cell.Height))

		segment := enhance.Apply(s.codec, s.codec.Crop(img, cell.Rect()), enhancement)
		encoded, err := s.codec.Encode(segment, info.Format)
		if err != nil {
			return fmt.Errorf("failed to encode segment [%d,%d]: %w", cell.Row, cell.Col, err)
		}
		segments[i] = encoded
		return nil
	}

	if err := s.extractAll(ctx, len(cells), extract); err != nil {
		return nil, source, err
	}

	dims := enhance.SegmentDimensions(cells[0].Width, cells[0].Height, enhancement.Zoom)
	return &types.Result{
		Original: data,
		Metadata: metadata.Assemble(info, gridSize, enhancement, dims),
		Segments: segments,
	}, source, nil
}

// extractAll runs fn for every cell index, sequentially or on a bounded
// errgroup. The first error cancels the remaining cells.
func (s *Slicer) extractAll(ctx context.Context, n int, fn func(int) error) error {
	if s.concurrency == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}

// Package server exposes slicing over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/menta2k/image-slicer/pkg/input"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/types"
	"github.com/menta2k/image-slicer/pkg/validation"
)

// Slicer is the slicing operation served over HTTP
type Slicer interface {
	Slice(ctx context.Context, in any, opts types.Options) (*types.Result, error)
}

// Config configures the HTTP server
type Config struct {
	// Defaults are used for options a request does not set.
	Defaults     types.Options
	MaxBodyBytes int64
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// Server is the image slicer HTTP API
type Server struct {
	slicer Slicer
	config Config
}

// New creates a server
func New(slicer Slicer, config Config) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 50 << 20
	}
	return &Server{slicer: slicer, config: config}
}

// SliceResponse is the body of a successful POST /v1/slice.
// Segments are base64 encoded by encoding/json.
type SliceResponse struct {
	RequestID string         `json:"requestId,omitempty"`
	Metadata  types.Metadata `json:"metadata"`
	Segments  [][]byte       `json:"segments"`
}

type urlRequest struct {
	URL string `json:"url"`
}

// Handler returns the chi router with all routes mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/slice", s.handleSlice)
	})

	return r
}

func (s *Server) handleSlice(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	log := s.config.Logger.With().Str("request_id", reqID).Logger()

	opts, err := s.parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	var in any = input.Stream{Reader: body}

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		var req urlRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// typed so a non-http string is never read from the server's disk
		in = input.URL(req.URL)
	}

	start := time.Now()
	result, err := s.slicer.Slice(r.Context(), in, opts)
	if err != nil {
		status := statusFor(err)
		log.Warn().Err(err).Int("status", status).Msg("slice failed")
		writeError(w, status, messageFor(err))
		return
	}

	log.Info().
		Int("segments", len(result.Segments)).
		Dur("elapsed", time.Since(start)).
		Msg("slice complete")

	writeJSON(w, http.StatusOK, SliceResponse{
		RequestID: reqID,
		Metadata:  result.Metadata,
		Segments:  result.Segments,
	})
}

// parseOptions overlays query parameters on the configured defaults
func (s *Server) parseOptions(r *http.Request) (types.Options, error) {
	opts := s.config.Defaults
	enh := types.Enhance{}
	if opts.Enhance != nil {
		enh = *opts.Enhance
	}
	q := r.URL.Query()

	if v := q.Get("gridSize"); v != "" {
		var raw any = v
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			raw = f
		}
		n, err := validation.ValidateGridSize(raw)
		if err != nil {
			return opts, err
		}
		opts.GridSize = types.IntPtr(n)
	}

	if v := q.Get("zoom"); v != "" {
		zoom, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New("zoom must be a number")
		}
		enh.Zoom = zoom
	}

	if v := q.Get("sharpen"); v != "" {
		sharpen, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("sharpen must be a boolean")
		}
		enh.Sharpen = sharpen
	}

	if v := q.Get("logLevel"); v != "" {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return opts, err
		}
		opts.LogLevel = level
	}

	opts.Enhance = &enh
	return opts, nil
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrUnsupportedType),
		errors.Is(err, types.ErrInvalidImageData):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadGateway
}

// messageFor prefers the stable message of a classified error over the
// transport wrapping around it
func messageFor(err error) string {
	var typed *types.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"status":  status,
		},
	})
}

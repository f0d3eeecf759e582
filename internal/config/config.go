package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/menta2k/image-slicer/pkg/codec"
	"github.com/menta2k/image-slicer/pkg/input"
	"github.com/menta2k/image-slicer/pkg/logging"
	"github.com/menta2k/image-slicer/pkg/types"
	"github.com/menta2k/image-slicer/pkg/validation"
)

// Config holds the application configuration
type Config struct {
	Slicer  SlicerConfig
	Enhance EnhanceConfig
	Output  OutputConfig
	Fetch   FetchConfig
	Server  ServerConfig
}

// SlicerConfig holds the grid and pipeline settings
type SlicerConfig struct {
	GridSize    int
	Concurrency int
	LogLevel    string
	StrictURLs  bool
	MaxPixels   int64
}

// EnhanceConfig holds the default per-segment enhancement
type EnhanceConfig struct {
	Sharpen      bool
	Zoom         float64
	SharpenSigma float64
}

// OutputConfig holds encoder settings
type OutputConfig struct {
	JPEGQuality int
}

// FetchConfig holds settings for URL inputs
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// ServerConfig holds settings for the HTTP surface
type ServerConfig struct {
	Addr         string
	MaxBodyBytes int64
	// AllowPrivateURLs lets URL requests reach loopback, private and
	// link-local addresses.
	AllowPrivateURLs bool
}

// Default returns a configuration with default values
func Default() *Config {
	resolver := input.DefaultResolverConfig()
	codecCfg := codec.DefaultConfig()

	return &Config{
		Slicer: SlicerConfig{
			GridSize:    types.DefaultGridSize,
			Concurrency: 1,
			LogLevel:    logging.None.String(),
			MaxPixels:   codecCfg.MaxPixels,
		},
		Enhance: EnhanceConfig{
			Zoom:         1,
			SharpenSigma: codecCfg.SharpenSigma,
		},
		Output: OutputConfig{
			JPEGQuality: codecCfg.JPEGQuality,
		},
		Fetch: FetchConfig{
			Timeout:   resolver.Timeout,
			UserAgent: resolver.UserAgent,
			MaxBytes:  resolver.MaxBytes,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 50 << 20,
		},
	}
}

// LoadFromFile loads configuration from a TOML file on top of the defaults
func LoadFromFile(filename string) (*Config, error) {
	cfg := Default()
	if err := cfg.ApplyFile(filename, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFile applies values from a TOML file, skipping settings whose flag
// is marked in changed.
func (c *Config) ApplyFile(filename string, changed map[string]bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return fc.apply(c, changed)
}

// SaveToFile saves configuration to a TOML file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(newFileConfig(c))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := validation.ValidateGridSize(c.Slicer.GridSize); err != nil {
		return fmt.Errorf("slicer.grid_size: %w", err)
	}

	if c.Slicer.Concurrency < 1 {
		return fmt.Errorf("slicer.concurrency must be at least 1")
	}

	if _, err := logging.ParseLevel(c.Slicer.LogLevel); err != nil {
		return fmt.Errorf("slicer.log_level: %w", err)
	}

	if c.Slicer.MaxPixels <= 0 {
		return fmt.Errorf("slicer.max_pixels must be positive")
	}

	if c.Enhance.SharpenSigma <= 0 {
		return fmt.Errorf("enhance.sharpen_sigma must be positive")
	}

	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}

	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("fetch.max_bytes cannot be negative")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}

	return nil
}

// Options converts the configuration into per-call slice options
func (c *Config) Options() (types.Options, error) {
	level, err := logging.ParseLevel(c.Slicer.LogLevel)
	if err != nil {
		return types.Options{}, err
	}
	return types.Options{
		GridSize: types.IntPtr(c.Slicer.GridSize),
		Enhance:  &types.Enhance{Sharpen: c.Enhance.Sharpen, Zoom: c.Enhance.Zoom},
		LogLevel: level,
	}, nil
}

// CodecConfig returns the codec settings
func (c *Config) CodecConfig() codec.Config {
	cfg := codec.DefaultConfig()
	cfg.JPEGQuality = c.Output.JPEGQuality
	cfg.SharpenSigma = c.Enhance.SharpenSigma
	cfg.MaxPixels = c.Slicer.MaxPixels
	return cfg
}

// ResolverConfig returns the input resolver settings
func (c *Config) ResolverConfig() input.ResolverConfig {
	return input.ResolverConfig{
		Timeout:   c.Fetch.Timeout,
		UserAgent: c.Fetch.UserAgent,
		MaxBytes:  c.Fetch.MaxBytes,
		Strict:    c.Slicer.StrictURLs,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(home, ".config", "image-slicer", "config.toml")
}

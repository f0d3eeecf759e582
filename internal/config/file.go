package config

// fileConfig is the TOML shape of Config. Durations are strings and
// grid_size is decoded loosely so fractional values reach the validator.
type fileConfig struct {
	Slicer  fileSlicer  `toml:"slicer"`
	Enhance fileEnhance `toml:"enhance"`
	Output  fileOutput  `toml:"output"`
	Fetch   fileFetch   `toml:"fetch"`
	Server  fileServer  `toml:"server"`
}

type fileSlicer struct {
	GridSize    any    `toml:"grid_size,omitempty"`
	Concurrency int    `toml:"concurrency,omitempty"`
	LogLevel    string `toml:"log_level,omitempty"`
	StrictURLs  *bool  `toml:"strict_urls,omitempty"`
	MaxPixels   int64  `toml:"max_pixels,omitempty"`
}

type fileEnhance struct {
	Sharpen      *bool   `toml:"sharpen,omitempty"`
	Zoom         float64 `toml:"zoom,omitempty"`
	SharpenSigma float64 `toml:"sharpen_sigma,omitempty"`
}

type fileOutput struct {
	JPEGQuality int `toml:"jpeg_quality,omitempty"`
}

type fileFetch struct {
	Timeout   string `toml:"timeout,omitempty"`
	UserAgent string `toml:"user_agent,omitempty"`
	MaxBytes  int64  `toml:"max_bytes,omitempty"`
}

type fileServer struct {
	Addr             string `toml:"addr,omitempty"`
	MaxBodyBytes     int64  `toml:"max_body_bytes,omitempty"`
	AllowPrivateURLs *bool  `toml:"allow_private_urls,omitempty"`
}

func newFileConfig(c *Config) fileConfig {
	return fileConfig{
		Slicer: fileSlicer{
			GridSize:    c.Slicer.GridSize,
			Concurrency: c.Slicer.Concurrency,
			LogLevel:    c.Slicer.LogLevel,
			StrictURLs:  &c.Slicer.StrictURLs,
			MaxPixels:   c.Slicer.MaxPixels,
		},
		Enhance: fileEnhance{
			Sharpen:      &c.Enhance.Sharpen,
			Zoom:         c.Enhance.Zoom,
			SharpenSigma: c.Enhance.SharpenSigma,
		},
		Output: fileOutput{JPEGQuality: c.Output.JPEGQuality},
		Fetch: fileFetch{
			Timeout:   c.Fetch.Timeout.String(),
			UserAgent: c.Fetch.UserAgent,
			MaxBytes:  c.Fetch.MaxBytes,
		},
		Server: fileServer{
			Addr:             c.Server.Addr,
			MaxBodyBytes:     c.Server.MaxBodyBytes,
			AllowPrivateURLs: &c.Server.AllowPrivateURLs,
		},
	}
}

func (fc fileConfig) apply(c *Config, changed map[string]bool) error {
	s := newSetter(changed)

	if err := s.setGridSize("grid-size", fc.Slicer.GridSize, &c.Slicer.GridSize); err != nil {
		return err
	}
	s.setInt("concurrency", fc.Slicer.Concurrency, &c.Slicer.Concurrency)
	s.setString("log-level", fc.Slicer.LogLevel, &c.Slicer.LogLevel)
	s.setBool("strict", fc.Slicer.StrictURLs, &c.Slicer.StrictURLs)
	s.setInt64("max-pixels", fc.Slicer.MaxPixels, &c.Slicer.MaxPixels)

	s.setBool("sharpen", fc.Enhance.Sharpen, &c.Enhance.Sharpen)
	s.setFloat("zoom", fc.Enhance.Zoom, &c.Enhance.Zoom)
	s.setFloat("sharpen-sigma", fc.Enhance.SharpenSigma, &c.Enhance.SharpenSigma)

	s.setInt("jpeg-quality", fc.Output.JPEGQuality, &c.Output.JPEGQuality)

	if err := s.setDuration("timeout", fc.Fetch.Timeout, &c.Fetch.Timeout); err != nil {
		return err
	}
	s.setString("user-agent", fc.Fetch.UserAgent, &c.Fetch.UserAgent)
	s.setInt64("max-bytes", fc.Fetch.MaxBytes, &c.Fetch.MaxBytes)

	s.setString("addr", fc.Server.Addr, &c.Server.Addr)
	s.setInt64("max-body-bytes", fc.Server.MaxBodyBytes, &c.Server.MaxBodyBytes)
	s.setBool("allow-private-urls", fc.Server.AllowPrivateURLs, &c.Server.AllowPrivateURLs)

	return nil
}

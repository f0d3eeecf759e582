package config

import "os"

// ApplyEnv applies IMAGE_SLICER_* environment variables, skipping settings
// whose flag is marked in changed.
func (c *Config) ApplyEnv(changed map[string]bool) error {
	s := newSetter(changed)

	if err := s.setGridSizeFromString("grid-size", os.Getenv("IMAGE_SLICER_GRID_SIZE"), &c.Slicer.GridSize); err != nil {
		return err
	}
	if err := s.setIntFromString("concurrency", os.Getenv("IMAGE_SLICER_CONCURRENCY"), &c.Slicer.Concurrency); err != nil {
		return err
	}
	s.setString("log-level", os.Getenv("IMAGE_SLICER_LOG_LEVEL"), &c.Slicer.LogLevel)
	if err := s.setBoolFromString("strict", os.Getenv("IMAGE_SLICER_STRICT_URLS"), &c.Slicer.StrictURLs); err != nil {
		return err
	}
	if err := s.setInt64FromString("max-pixels", os.Getenv("IMAGE_SLICER_MAX_PIXELS"), &c.Slicer.MaxPixels); err != nil {
		return err
	}

	if err := s.setBoolFromString("sharpen", os.Getenv("IMAGE_SLICER_SHARPEN"), &c.Enhance.Sharpen); err != nil {
		return err
	}
	if err := s.setFloatFromString("zoom", os.Getenv("IMAGE_SLICER_ZOOM"), &c.Enhance.Zoom); err != nil {
		return err
	}
	if err := s.setFloatFromString("sharpen-sigma", os.Getenv("IMAGE_SLICER_SHARPEN_SIGMA"), &c.Enhance.SharpenSigma); err != nil {
		return err
	}

	if err := s.setIntFromString("jpeg-quality", os.Getenv("IMAGE_SLICER_JPEG_QUALITY"), &c.Output.JPEGQuality); err != nil {
		return err
	}

	if err := s.setDuration("timeout", os.Getenv("IMAGE_SLICER_FETCH_TIMEOUT"), &c.Fetch.Timeout); err != nil {
		return err
	}
	s.setString("user-agent", os.Getenv("IMAGE_SLICER_USER_AGENT"), &c.Fetch.UserAgent)
	if err := s.setInt64FromString("max-bytes", os.Getenv("IMAGE_SLICER_MAX_BYTES"), &c.Fetch.MaxBytes); err != nil {
		return err
	}

	s.setString("addr", os.Getenv("IMAGE_SLICER_SERVER_ADDR"), &c.Server.Addr)
	if err := s.setInt64FromString("max-body-bytes", os.Getenv("IMAGE_SLICER_MAX_BODY_BYTES"), &c.Server.MaxBodyBytes); err != nil {
		return err
	}
	if err := s.setBoolFromString("allow-private-urls", os.Getenv("IMAGE_SLICER_ALLOW_PRIVATE_URLS"), &c.Server.AllowPrivateURLs); err != nil {
		return err
	}

	return nil
}

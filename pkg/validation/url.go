package validation

import (
	"net/url"

	"github.com/menta2k/image-slicer/pkg/pathgen"
	"github.com/menta2k/image-slicer/pkg/types"
)

// ValidateURL checks that raw is present and parses as an absolute URL
// with both a scheme and a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return types.InvalidArgument("Image URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return types.InvalidArgument("Invalid URL format")
	}
	return nil
}

// ValidateStrictURL is ValidateURL plus the https, extension and identifier
// length rules enforced by pathgen.GenerateStrict.
func ValidateStrictURL(raw string) error {
	if err := ValidateURL(raw); err != nil {
		return err
	}
	_, err := pathgen.GenerateStrict(raw)
	return err
}
